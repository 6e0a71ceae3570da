package ports

import (
	"context"

	"fixmate/internal/auth-service/core/domain/models"
)

type IIdentityRepo interface {
	Create(ctx context.Context, identity models.Identity) (string, error)
	GetByEmail(ctx context.Context, email string) (models.Identity, error)
	GetByID(ctx context.Context, id string) (models.Identity, error)
	UpdateLocation(ctx context.Context, id string, latitude, longitude float64) error
}

type IOtpRepo interface {
	// Upsert stores a fresh code for the email, replacing any previous one.
	Upsert(ctx context.Context, otp models.Otp) error
	Get(ctx context.Context, email string) (models.Otp, error)
	// Consume marks the code verified so it cannot be replayed.
	Consume(ctx context.Context, email string) error
}
