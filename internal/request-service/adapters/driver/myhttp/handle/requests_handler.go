package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/domain/dto"
	messagebrokerdto "fixmate/internal/request-service/core/domain/message_broker_dto"
	"fixmate/internal/request-service/core/domain/model"
	"fixmate/internal/request-service/core/ports"

	"github.com/google/uuid"
)

type RequestsHandler struct {
	requestsService ports.IRequestsService
	broker          ports.IRequestsBroker
	mylog           mylogger.Logger
}

func NewRequestsHandler(rs ports.IRequestsService, broker ports.IRequestsBroker, mylog mylogger.Logger) *RequestsHandler {
	return &RequestsHandler{
		requestsService: rs,
		broker:          broker,
		mylog:           mylog,
	}
}

func (rh *RequestsHandler) CreateRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := rh.mylog.Action("CreateRequest")

		req := dto.CreateRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Error("failed to parse request body", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.CreateRequest(ctx, identity(r), req)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		mylog.Info("service request created", "request-id", res.ID)
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RequestsHandler) ListRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.ListForRole(ctx, identity(r), role(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) ListMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.ListAssigned(ctx, identity(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

// Accept claims a pending request for the calling mechanic. Exactly one of
// the racing mechanics gets 200; the rest get 409.
func (rh *RequestsHandler) Accept() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := rh.mylog.Action("Accept")
		requestID := r.PathValue("request_id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.Accept(ctx, requestID, identity(r), role(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		rh.publishStatus(res.Request)
		mylog.Info("request accepted", "request-id", requestID, "mechanic-id", identity(r))
		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := rh.mylog.Action("Cancel")
		requestID := r.PathValue("request_id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.Cancel(ctx, requestID, identity(r), role(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		rh.publishStatus(res.Request)
		mylog.Info("request cancelled", "request-id", requestID)
		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := rh.mylog.Action("Complete")
		requestID := r.PathValue("request_id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.MarkComplete(ctx, requestID, identity(r), role(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		rh.publishStatus(res.Request)
		mylog.Info("completion recorded", "request-id", requestID, "status", res.Request.Status)
		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RequestsHandler) Destination() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.PathValue("request_id")

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := rh.requestsService.Destination(ctx, requestID, identity(r), role(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

// publishStatus emits the lifecycle event after the transition has been
// committed. Broker trouble never fails the HTTP request.
func (rh *RequestsHandler) publishStatus(req dto.RequestResponseDto) {
	event := messagebrokerdto.RequestStatusEvent{
		RequestID:        req.ID,
		RequesterID:      req.Requester,
		Status:           req.Status,
		AssignedMechanic: req.AssignedMechanic,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		CorrelationID:    uuid.NewString(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), WaitTime*time.Second)
	defer cancel()

	if err := rh.broker.PublishStatus(ctx, event); err != nil {
		rh.mylog.Action("publishStatus").Error("failed to publish status event", err, "request-id", req.ID)
	}
}

func identity(r *http.Request) string {
	return r.Header.Get("X-IdentityId")
}

func role(r *http.Request) model.Role {
	return model.Role(r.Header.Get("X-Role"))
}
