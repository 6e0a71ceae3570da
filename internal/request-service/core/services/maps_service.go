package services

import (
	"context"
	"time"

	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/domain/model"
	"fixmate/internal/request-service/core/ports"
)

const mapsTimeout = 10 * time.Second

// MapsService fronts the external mapping provider. It never participates
// in lifecycle transitions; provider latency or failure cannot corrupt
// request state.
type MapsService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	provider ports.IMapsProvider
	requests ports.IRequestsService
}

func NewMapsService(ctx context.Context,
	log mylogger.Logger,
	provider ports.IMapsProvider,
	requests ports.IRequestsService,
) ports.IMapsService {
	return &MapsService{
		ctx:      ctx,
		mylog:    log,
		provider: provider,
		requests: requests,
	}
}

func (ms *MapsService) Coordinates(ctx context.Context, address string) (ports.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, mapsTimeout)
	defer cancel()

	coords, err := ms.provider.Geocode(ctx, address)
	if err != nil {
		ms.mylog.Action("Coordinates").Error("geocode failed", err, "address", address)
		return ports.Coordinates{}, err
	}
	return coords, nil
}

func (ms *MapsService) DistanceTime(ctx context.Context, origin, destination string) (ports.DistanceDuration, error) {
	ctx, cancel := context.WithTimeout(ctx, mapsTimeout)
	defer cancel()

	dd, err := ms.provider.DistanceAndDuration(ctx, origin, destination)
	if err != nil {
		ms.mylog.Action("DistanceTime").Error("distance matrix failed", err)
		return ports.DistanceDuration{}, err
	}
	return dd, nil
}

func (ms *MapsService) Suggestions(ctx context.Context, input string) ([]ports.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, mapsTimeout)
	defer cancel()

	sugs, err := ms.provider.Autocomplete(ctx, input)
	if err != nil {
		ms.mylog.Action("Suggestions").Error("autocomplete failed", err)
		return nil, err
	}
	return sugs, nil
}

// Directions routes the caller towards the stored destination of a request.
// The destination read goes through the lifecycle engine so its visibility
// rule applies here too.
func (ms *MapsService) Directions(ctx context.Context, source, requestID, actorID string, role model.Role) (ports.Route, error) {
	loc, err := ms.requests.Destination(ctx, requestID, actorID, role)
	if err != nil {
		return ports.Route{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, mapsTimeout)
	defer cancel()

	route, err := ms.provider.Route(ctx, source, loc.Destination)
	if err != nil {
		ms.mylog.Action("Directions").Error("directions failed", err, "request-id", requestID)
		return ports.Route{}, err
	}
	return route, nil
}
