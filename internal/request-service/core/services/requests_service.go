package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/domain/dto"
	"fixmate/internal/request-service/core/domain/model"
	"fixmate/internal/request-service/core/myerrors"
	"fixmate/internal/request-service/core/ports"
)

const repoTimeout = 15 * time.Second

type RequestsService struct {
	ctx        context.Context
	mylog      mylogger.Logger
	repo       ports.IRequestsRepo
	imageStore ports.IImageStore
}

func NewRequestsService(ctx context.Context,
	log mylogger.Logger,
	repo ports.IRequestsRepo,
	imageStore ports.IImageStore,
) ports.IRequestsService {
	return &RequestsService{
		ctx:        ctx,
		mylog:      log,
		repo:       repo,
		imageStore: imageStore,
	}
}

func (rs *RequestsService) CreateRequest(ctx context.Context, requesterID string, req dto.CreateRequestDto) (dto.RequestResponseDto, error) {
	log := rs.mylog.Action("CreateRequest")

	if err := validateCreateRequest(req); err != nil {
		return dto.RequestResponseDto{}, fmt.Errorf("%w: %v", myerrors.ErrValidation, err)
	}

	m := model.ServiceRequest{
		RequesterID: requesterID,
		VehicleType: model.VehicleType(*req.VehicleType),
		ServiceType: model.ServiceType(*req.ServiceType),
		Description: *req.Description,
		Destination: *req.Destination,
		Status:      model.StatusPending,
	}
	if req.Source != nil {
		m.Source = *req.Source
	}

	if req.Image != nil && *req.Image != "" {
		data, contentType, err := decodeImage(*req.Image)
		if err != nil {
			return dto.RequestResponseDto{}, fmt.Errorf("%w: image: %v", myerrors.ErrValidation, err)
		}

		url, err := rs.imageStore.Upload(ctx, data, contentType)
		if err != nil {
			log.Error("image upload failed", err)
			return dto.RequestResponseDto{}, fmt.Errorf("%w: image upload: %v", myerrors.ErrCollaborator, err)
		}
		m.ImageURL = url
	}

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	created, err := rs.repo.Create(ctx, m)
	if err != nil {
		log.Error("cannot persist request", err)
		return dto.RequestResponseDto{}, err
	}

	log.Info("request created", "request-id", created.ID, "requester-id", requesterID, "service-type", created.ServiceType)
	return toResponseDto(created), nil
}

// ListForRole is the discovery view: mechanics see only the unclaimed
// pending queue, users see their own requests in every status.
func (rs *RequestsService) ListForRole(ctx context.Context, identityID string, role model.Role) ([]dto.RequestResponseDto, error) {
	log := rs.mylog.Action("ListForRole")

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var (
		list []model.ServiceRequest
		err  error
	)
	switch role {
	case model.RoleMechanic:
		list, err = rs.repo.ListPending(ctx)
	case model.RoleUser:
		list, err = rs.repo.ListByRequester(ctx, identityID)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", myerrors.ErrForbidden, role)
	}
	if err != nil {
		log.Error("cannot list requests", err, "role", role)
		return nil, err
	}

	return toResponseDtos(list), nil
}

// ListAssigned is the mechanic's personal work queue.
func (rs *RequestsService) ListAssigned(ctx context.Context, mechanicID string) ([]dto.RequestResponseDto, error) {
	log := rs.mylog.Action("ListAssigned")

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	list, err := rs.repo.ListByMechanic(ctx, mechanicID)
	if err != nil {
		log.Error("cannot list assigned requests", err, "mechanic-id", mechanicID)
		return nil, err
	}

	return toResponseDtos(list), nil
}

// Accept claims a pending request for the mechanic. The repository performs
// a single conditional write, so with N concurrent claimants exactly one
// succeeds and the rest come back with ErrConflict.
func (rs *RequestsService) Accept(ctx context.Context, requestID, mechanicID string, role model.Role) (dto.AcceptResponseDto, error) {
	log := rs.mylog.Action("Accept")

	if role != model.RoleMechanic {
		return dto.AcceptResponseDto{}, fmt.Errorf("%w: only mechanics accept requests", myerrors.ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	accepted, err := rs.repo.Accept(ctx, requestID, mechanicID)
	if err != nil {
		if errors.Is(err, myerrors.ErrConflict) {
			log.Warn("lost accept race", "request-id", requestID, "mechanic-id", mechanicID)
		} else if !errors.Is(err, myerrors.ErrNotFound) {
			log.Error("cannot accept request", err, "request-id", requestID)
		}
		return dto.AcceptResponseDto{}, err
	}

	res := dto.AcceptResponseDto{
		Message: "Request accepted",
		Request: toResponseDto(accepted),
	}

	loc, err := rs.repo.MechanicLocation(ctx, mechanicID)
	if err != nil {
		// The claim already succeeded; a missing location only degrades
		// the response.
		log.Warn("cannot read mechanic location", "mechanic-id", mechanicID)
	} else if loc.Known {
		res.MechanicLocation = &dto.MechanicLocationDto{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		}
	}

	log.Info("request accepted", "request-id", requestID, "mechanic-id", mechanicID)
	return res, nil
}

// Cancel is requester-only and legal while the request is still pending or
// accepted.
func (rs *RequestsService) Cancel(ctx context.Context, requestID, actorID string, role model.Role) (dto.StatusResponseDto, error) {
	log := rs.mylog.Action("Cancel")

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	current, err := rs.repo.GetByID(ctx, requestID)
	if err != nil {
		return dto.StatusResponseDto{}, err
	}

	if current.RequesterID != actorID {
		return dto.StatusResponseDto{}, fmt.Errorf("%w: only the requester may cancel", myerrors.ErrForbidden)
	}

	if !current.Status.CanCancel() {
		return dto.StatusResponseDto{}, fmt.Errorf("%w: cannot cancel from %s", myerrors.ErrInvalidTransition, current.Status)
	}

	updated, err := rs.repo.UpdateStatusIf(ctx, requestID, current.Status, model.StatusCancelled)
	if err != nil {
		if errors.Is(err, myerrors.ErrConflict) {
			log.Warn("cancel raced with another transition", "request-id", requestID)
		}
		return dto.StatusResponseDto{}, err
	}

	log.Info("request cancelled", "request-id", requestID, "requester-id", actorID)
	return dto.StatusResponseDto{
		Message: "Request cancelled",
		Request: toResponseDto(updated),
	}, nil
}

// MarkComplete fires the completion edge for the caller's role. Both sides
// have to mark done before the request reaches completed.
func (rs *RequestsService) MarkComplete(ctx context.Context, requestID, actorID string, role model.Role) (dto.StatusResponseDto, error) {
	log := rs.mylog.Action("MarkComplete")

	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	current, err := rs.repo.GetByID(ctx, requestID)
	if err != nil {
		return dto.StatusResponseDto{}, err
	}

	switch role {
	case model.RoleUser:
		if current.RequesterID != actorID {
			return dto.StatusResponseDto{}, fmt.Errorf("%w: not the requester of this request", myerrors.ErrForbidden)
		}
	case model.RoleMechanic:
		if current.AssignedMechanic != actorID {
			return dto.StatusResponseDto{}, fmt.Errorf("%w: not the assigned mechanic", myerrors.ErrForbidden)
		}
	default:
		return dto.StatusResponseDto{}, fmt.Errorf("%w: unknown role %q", myerrors.ErrForbidden, role)
	}

	next, ok := model.NextOnComplete(current.Status, role)
	if !ok {
		return dto.StatusResponseDto{}, fmt.Errorf("%w: %s cannot mark done from %s", myerrors.ErrInvalidTransition, role, current.Status)
	}

	updated, err := rs.repo.UpdateStatusIf(ctx, requestID, current.Status, next)
	if err != nil {
		if errors.Is(err, myerrors.ErrConflict) {
			log.Warn("completion raced with another transition", "request-id", requestID)
		}
		return dto.StatusResponseDto{}, err
	}

	log.Info("request moved", "request-id", requestID, "from", current.Status, "to", next)
	return dto.StatusResponseDto{
		Message: "Request updated",
		Request: toResponseDto(updated),
	}, nil
}

// Destination returns the stored destination string. Readable by the
// requester, the assigned mechanic, and, while the request is still pending,
// any mechanic (they already see the pending queue).
func (rs *RequestsService) Destination(ctx context.Context, requestID, actorID string, role model.Role) (dto.RequestLocationDto, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	current, err := rs.repo.GetByID(ctx, requestID)
	if err != nil {
		return dto.RequestLocationDto{}, err
	}

	if !canReadDestination(current, actorID, role) {
		return dto.RequestLocationDto{}, fmt.Errorf("%w: destination is private to the parties of the request", myerrors.ErrForbidden)
	}

	return dto.RequestLocationDto{Destination: current.Destination}, nil
}

func canReadDestination(m model.ServiceRequest, actorID string, role model.Role) bool {
	if m.RequesterID == actorID {
		return true
	}
	if m.AssignedMechanic != "" && m.AssignedMechanic == actorID {
		return true
	}
	return role == model.RoleMechanic && m.Status == model.StatusPending
}

func toResponseDto(m model.ServiceRequest) dto.RequestResponseDto {
	return dto.RequestResponseDto{
		ID:               m.ID,
		Requester:        m.RequesterID,
		VehicleType:      string(m.VehicleType),
		ServiceType:      string(m.ServiceType),
		Description:      m.Description,
		ImageURL:         m.ImageURL,
		Destination:      m.Destination,
		Source:           m.Source,
		Status:           string(m.Status),
		AssignedMechanic: m.AssignedMechanic,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
		RequesterName:    m.RequesterName,
		RequesterPhone:   m.RequesterPhone,
		RequesterAddress: m.RequesterAddress,
	}
}

func toResponseDtos(list []model.ServiceRequest) []dto.RequestResponseDto {
	res := make([]dto.RequestResponseDto, 0, len(list))
	for _, m := range list {
		res = append(res, toResponseDto(m))
	}
	return res
}
