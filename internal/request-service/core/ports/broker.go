package ports

import (
	"context"

	messagebrokerdto "fixmate/internal/request-service/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IRequestsBroker interface {
	PublishStatus(ctx context.Context, event messagebrokerdto.RequestStatusEvent) error
	ConsumeStatus(ctx context.Context, queue, consumerName string) (<-chan amqp.Delivery, error)
	IsAlive() bool
	Close() error
}
