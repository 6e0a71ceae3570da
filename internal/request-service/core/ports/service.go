package ports

import (
	"context"

	"fixmate/internal/request-service/core/domain/dto"
	"fixmate/internal/request-service/core/domain/model"
)

type IRequestsService interface {
	CreateRequest(ctx context.Context, requesterID string, req dto.CreateRequestDto) (dto.RequestResponseDto, error)
	ListForRole(ctx context.Context, identityID string, role model.Role) ([]dto.RequestResponseDto, error)
	ListAssigned(ctx context.Context, mechanicID string) ([]dto.RequestResponseDto, error)
	Accept(ctx context.Context, requestID, mechanicID string, role model.Role) (dto.AcceptResponseDto, error)
	Cancel(ctx context.Context, requestID, actorID string, role model.Role) (dto.StatusResponseDto, error)
	MarkComplete(ctx context.Context, requestID, actorID string, role model.Role) (dto.StatusResponseDto, error)
	Destination(ctx context.Context, requestID, actorID string, role model.Role) (dto.RequestLocationDto, error)
}

type IMapsService interface {
	Coordinates(ctx context.Context, address string) (Coordinates, error)
	DistanceTime(ctx context.Context, origin, destination string) (DistanceDuration, error)
	Suggestions(ctx context.Context, input string) ([]Suggestion, error)
	Directions(ctx context.Context, source, requestID, actorID string, role model.Role) (Route, error)
}
