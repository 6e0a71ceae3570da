package ports

import (
	"context"

	"fixmate/internal/request-service/core/domain/model"
)

// IRequestsRepo is the persistence boundary of the lifecycle engine. The
// mutating operations are conditional writes: they succeed only if the row
// is still in the expected status at write time, which is what arbitrates
// concurrent mechanics across processes.
type IRequestsRepo interface {
	Create(ctx context.Context, m model.ServiceRequest) (model.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (model.ServiceRequest, error)

	ListPending(ctx context.Context) ([]model.ServiceRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]model.ServiceRequest, error)
	ListByMechanic(ctx context.Context, mechanicID string) ([]model.ServiceRequest, error)

	// Accept claims a pending request for the mechanic in one conditional
	// update. Returns myerrors.ErrNotFound for an unknown id and
	// myerrors.ErrConflict when the request is no longer pending.
	Accept(ctx context.Context, id, mechanicID string) (model.ServiceRequest, error)

	// UpdateStatusIf moves id from exactly `from` to `to`. Returns
	// myerrors.ErrConflict if the row left `from` in the meantime.
	UpdateStatusIf(ctx context.Context, id string, from, to model.Status) (model.ServiceRequest, error)

	MechanicLocation(ctx context.Context, mechanicID string) (model.MechanicLocation, error)
}
