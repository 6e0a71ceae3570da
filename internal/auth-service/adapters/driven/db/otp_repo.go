package db

import (
	"context"
	"errors"
	"fmt"

	"fixmate/internal/auth-service/core/domain/models"
	"fixmate/internal/auth-service/core/myerrors"
	"fixmate/internal/auth-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type OtpRepo struct {
	db *DB
}

func NewOtpRepo(db *DB) ports.IOtpRepo {
	return &OtpRepo{db: db}
}

func (or *OtpRepo) Upsert(ctx context.Context, otp models.Otp) error {
	if err := or.db.IsAlive(); err != nil {
		return err
	}

	q := `INSERT INTO otps (email, code, verified, expires_at)
		VALUES ($1, $2, FALSE, $3)
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code, verified = FALSE, expires_at = EXCLUDED.expires_at, created_at = now()`

	if _, err := or.db.pool.Exec(ctx, q, otp.Email, otp.Code, otp.ExpiresAt); err != nil {
		return fmt.Errorf("failed to upsert otp: %v", err)
	}
	return nil
}

func (or *OtpRepo) Get(ctx context.Context, email string) (models.Otp, error) {
	if err := or.db.IsAlive(); err != nil {
		return models.Otp{}, err
	}

	q := `SELECT email, code, verified, expires_at, created_at FROM otps WHERE email = $1`

	var m models.Otp
	err := or.db.pool.QueryRow(ctx, q, email).Scan(
		&m.Email,
		&m.Code,
		&m.Verified,
		&m.ExpiresAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Otp{}, myerrors.ErrNotFound
		}
		return models.Otp{}, err
	}
	return m, nil
}

func (or *OtpRepo) Consume(ctx context.Context, email string) error {
	if err := or.db.IsAlive(); err != nil {
		return err
	}

	q := `UPDATE otps SET verified = TRUE WHERE email = $1`

	tag, err := or.db.pool.Exec(ctx, q, email)
	if err != nil {
		return fmt.Errorf("failed to consume otp: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotFound
	}
	return nil
}
