package notification

import (
	"context"
	"encoding/json"
	"sync"

	"fixmate/internal/mylogger"
	messagebrokerdto "fixmate/internal/request-service/core/domain/message_broker_dto"
	websocketdto "fixmate/internal/request-service/core/domain/websocket_dto"
	"fixmate/internal/request-service/core/ports"

	"github.com/rabbitmq/amqp091-go"
)

const (
	statusQueue = "request_status_updates"

	// websocket type
	requestStatusUpdate = "request_status_update"
)

// Notification bridges the broker and the websocket layer: every status
// event gets pushed to the requester who owns the request.
type Notification struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	log        mylogger.Logger
	dispatcher ports.INotifyWebsocket
	consumer   ports.IRequestsBroker
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	dispatcher ports.INotifyWebsocket,
	consumer ports.IRequestsBroker,
) *Notification {
	return &Notification{
		ctx:        ctx,
		wg:         wg,
		log:        log,
		dispatcher: dispatcher,
		consumer:   consumer,
	}
}

func (n *Notification) Run() error {
	chStatus, err := n.consumer.ConsumeStatus(n.ctx, statusQueue, "")
	if err != nil {
		return err
	}

	n.wg.Add(1)
	go n.work(n.ctx, chStatus, n.StatusUpdate)

	return nil
}

func (n *Notification) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	log := n.log.Action("work")
	defer func() {
		log.Info("one worker is done")
		n.wg.Done()
	}()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			err := Do(msg)
			if err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *Notification) StatusUpdate(msg amqp091.Delivery) error {
	log := n.log.Action("StatusUpdate")

	event := messagebrokerdto.RequestStatusEvent{}
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Error("cannot unmarshal", err)
		msg.Nack(false, false)
		return err
	}

	update := websocketdto.RequestStatusUpdateDto{
		RequestID:        event.RequestID,
		Status:           event.Status,
		AssignedMechanic: event.AssignedMechanic,
		CorrelationID:    msg.CorrelationId,
	}

	payload, err := json.Marshal(update)
	if err != nil {
		log.Error("cannot marshal", err)
		msg.Nack(false, false)
		return err
	}

	n.dispatcher.WriteToUser(event.RequesterID, websocketdto.Event{
		Type: requestStatusUpdate,
		Data: payload,
	})

	log.Debug("status update delivered", "request-id", event.RequestID, "status", event.Status)
	return msg.Ack(false)
}
