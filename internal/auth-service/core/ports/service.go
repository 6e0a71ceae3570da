package ports

import (
	"context"

	"fixmate/internal/auth-service/core/domain/dto"
)

type IAuthService interface {
	Register(ctx context.Context, req dto.SignupRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, identityID string) (dto.ProfileResponse, error)
	UpdateLocation(ctx context.Context, identityID, role string, req dto.LocationUpdateRequest) error
	Sos(ctx context.Context, identityID string, req dto.SosRequest) error
}

type IOtpService interface {
	Send(ctx context.Context, req dto.OtpSendRequest) error
	Verify(ctx context.Context, req dto.OtpVerifyRequest) error
}
