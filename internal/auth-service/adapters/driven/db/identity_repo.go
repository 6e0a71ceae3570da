package db

import (
	"context"
	"errors"
	"fmt"

	"fixmate/internal/auth-service/core/domain/models"
	"fixmate/internal/auth-service/core/myerrors"
	"fixmate/internal/auth-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const identityColumns = `
	i.identity_id,
	i.created_at,
	i.name,
	i.email,
	i.password_hash,
	i.address,
	i.phone_number,
	i.role,
	i.latitude,
	i.longitude`

type IdentityRepo struct {
	db *DB
}

func NewIdentityRepo(db *DB) ports.IIdentityRepo {
	return &IdentityRepo{db: db}
}

func (ir *IdentityRepo) Create(ctx context.Context, identity models.Identity) (string, error) {
	if err := ir.db.IsAlive(); err != nil {
		return "", err
	}

	q := `INSERT INTO identities (
		name, email, password_hash, address, phone_number, role
	) VALUES ($1, $2, $3, $4, $5, $6) RETURNING identity_id;`

	id := ""
	row := ir.db.pool.QueryRow(ctx, q,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.Address,
		identity.Phone,
		identity.Role,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return "", myerrors.ErrEmailRegistered
		}
		return "", fmt.Errorf("failed to insert identity: %v", err)
	}

	return id, nil
}

func (ir *IdentityRepo) GetByEmail(ctx context.Context, email string) (models.Identity, error) {
	if err := ir.db.IsAlive(); err != nil {
		return models.Identity{}, err
	}

	q := `SELECT ` + identityColumns + ` FROM identities i WHERE i.email = $1`
	return ir.scanIdentity(ir.db.pool.QueryRow(ctx, q, email))
}

func (ir *IdentityRepo) GetByID(ctx context.Context, id string) (models.Identity, error) {
	if err := ir.db.IsAlive(); err != nil {
		return models.Identity{}, err
	}

	q := `SELECT ` + identityColumns + ` FROM identities i WHERE i.identity_id = $1`
	return ir.scanIdentity(ir.db.pool.QueryRow(ctx, q, id))
}

func (ir *IdentityRepo) UpdateLocation(ctx context.Context, id string, latitude, longitude float64) error {
	if err := ir.db.IsAlive(); err != nil {
		return err
	}

	q := `UPDATE identities
		SET latitude = $2, longitude = $3, updated_at = now()
		WHERE identity_id = $1`

	tag, err := ir.db.pool.Exec(ctx, q, id, latitude, longitude)
	if err != nil {
		return fmt.Errorf("failed to update location: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrNotFound
	}
	return nil
}

func (ir *IdentityRepo) scanIdentity(row pgx.Row) (models.Identity, error) {
	var m models.Identity
	err := row.Scan(
		&m.ID,
		&m.CreatedAt,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Address,
		&m.Phone,
		&m.Role,
		&m.Latitude,
		&m.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Identity{}, myerrors.ErrNotFound
		}
		return models.Identity{}, err
	}
	return m, nil
}
