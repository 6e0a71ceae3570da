package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/ports"
)

type MapsHandler struct {
	mapsService ports.IMapsService
	mylog       mylogger.Logger
}

func NewMapsHandler(ms ports.IMapsService, mylog mylogger.Logger) *MapsHandler {
	return &MapsHandler{
		mapsService: ms,
		mylog:       mylog,
	}
}

func (mh *MapsHandler) Coordinates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if address == "" {
			jsonError(w, http.StatusBadRequest, errors.New("address is required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := mh.mapsService.Coordinates(ctx, address)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (mh *MapsHandler) DistanceTime() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.URL.Query().Get("origin")
		destination := r.URL.Query().Get("destination")
		if origin == "" || destination == "" {
			jsonError(w, http.StatusBadRequest, errors.New("origin and destination are required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := mh.mapsService.DistanceTime(ctx, origin, destination)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (mh *MapsHandler) Suggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := r.URL.Query().Get("input")
		if input == "" {
			jsonError(w, http.StatusBadRequest, errors.New("input is required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := mh.mapsService.Suggestions(ctx, input)
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

// Directions resolves the destination of a request the caller may see and
// returns turn-by-turn directions from the given source.
func (mh *MapsHandler) Directions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := r.URL.Query().Get("source")
		requestID := r.URL.Query().Get("request_id")
		if source == "" || requestID == "" {
			jsonError(w, http.StatusBadRequest, errors.New("source and request_id are required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := mh.mapsService.Directions(ctx, source, requestID, identity(r), role(r))
		if err != nil {
			jsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
