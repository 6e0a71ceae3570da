package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fixmate/internal/request-service/core/domain/model"
	"fixmate/internal/request-service/core/myerrors"
	"fixmate/internal/request-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type RequestsRepo struct {
	db *DB
}

func NewRequestsRepo(db *DB) ports.IRequestsRepo {
	return &RequestsRepo{
		db: db,
	}
}

const requestColumns = `
	r.request_id,
	r.requester_id,
	r.vehicle_type,
	r.service_type,
	r.description,
	r.image_url,
	r.destination,
	r.source,
	r.status,
	r.assigned_mechanic,
	r.created_at`

func (rr *RequestsRepo) Create(ctx context.Context, m model.ServiceRequest) (model.ServiceRequest, error) {
	q := `INSERT INTO requests(
			requester_id,
			vehicle_type,
			service_type,
			description,
			image_url,
			destination,
			source,
			status
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8)
		RETURNING request_id, created_at`

	row := rr.db.pool.QueryRow(ctx, q,
		m.RequesterID,
		m.VehicleType,
		m.ServiceType,
		m.Description,
		m.ImageURL,
		m.Destination,
		m.Source,
		m.Status,
	)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return model.ServiceRequest{}, fmt.Errorf("insert request: %w", err)
	}

	return m, nil
}

func (rr *RequestsRepo) GetByID(ctx context.Context, id string) (model.ServiceRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM requests r WHERE r.request_id = $1`

	m, err := scanRequest(rr.db.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ServiceRequest{}, myerrors.ErrNotFound
		}
		return model.ServiceRequest{}, err
	}
	return m, nil
}

// ListPending is the mechanics' discovery queue; requester contact details
// ride along so a mechanic can reach the stranded user.
func (rr *RequestsRepo) ListPending(ctx context.Context) ([]model.ServiceRequest, error) {
	q := `SELECT ` + requestColumns + `,
			i.name,
			i.phone_number,
			i.address
		FROM requests r
		JOIN identities i ON i.identity_id = r.requester_id
		WHERE r.status = $1
		ORDER BY r.created_at`

	rows, err := rr.db.pool.Query(ctx, q, model.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows, true)
}

func (rr *RequestsRepo) ListByRequester(ctx context.Context, requesterID string) ([]model.ServiceRequest, error) {
	q := `SELECT ` + requestColumns + `
		FROM requests r
		WHERE r.requester_id = $1
		ORDER BY r.created_at DESC`

	rows, err := rr.db.pool.Query(ctx, q, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows, false)
}

func (rr *RequestsRepo) ListByMechanic(ctx context.Context, mechanicID string) ([]model.ServiceRequest, error) {
	q := `SELECT ` + requestColumns + `,
			i.name,
			i.phone_number,
			i.address
		FROM requests r
		JOIN identities i ON i.identity_id = r.requester_id
		WHERE r.assigned_mechanic = $1
		ORDER BY r.created_at DESC`

	rows, err := rr.db.pool.Query(ctx, q, mechanicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows, true)
}

// Accept is the claim race's critical section. The status guard in the
// WHERE clause makes the check-and-set one atomic statement at the storage
// layer, so at most one mechanic ever gets a row back.
func (rr *RequestsRepo) Accept(ctx context.Context, id, mechanicID string) (model.ServiceRequest, error) {
	q := `UPDATE requests r
		SET status = $3, assigned_mechanic = $2
		WHERE r.request_id = $1 AND r.status = $4
		RETURNING ` + requestColumns

	m, err := scanRequest(rr.db.pool.QueryRow(ctx, q, id, mechanicID, model.StatusAccepted, model.StatusPending))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.ServiceRequest{}, fmt.Errorf("accept request: %w", err)
	}

	// No row matched: either the id is unknown or someone else won.
	return model.ServiceRequest{}, rr.classifyMiss(ctx, id)
}

// UpdateStatusIf moves a request from exactly `from` to `to` in one guarded
// statement; a miss under a live row means a concurrent transition won.
func (rr *RequestsRepo) UpdateStatusIf(ctx context.Context, id string, from, to model.Status) (model.ServiceRequest, error) {
	q := `UPDATE requests r
		SET status = $3
		WHERE r.request_id = $1 AND r.status = $2
		RETURNING ` + requestColumns

	m, err := scanRequest(rr.db.pool.QueryRow(ctx, q, id, from, to))
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.ServiceRequest{}, fmt.Errorf("update request status: %w", err)
	}

	return model.ServiceRequest{}, rr.classifyMiss(ctx, id)
}

func (rr *RequestsRepo) classifyMiss(ctx context.Context, id string) error {
	var status string
	err := rr.db.pool.QueryRow(ctx, `SELECT status FROM requests WHERE request_id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return myerrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w (current status: %s)", myerrors.ErrConflict, status)
}

func (rr *RequestsRepo) MechanicLocation(ctx context.Context, mechanicID string) (model.MechanicLocation, error) {
	q := `SELECT latitude, longitude
		FROM identities
		WHERE identity_id = $1 AND role = $2`

	var lat, lng sql.NullFloat64
	err := rr.db.pool.QueryRow(ctx, q, mechanicID, model.RoleMechanic).Scan(&lat, &lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MechanicLocation{}, myerrors.ErrNotFound
		}
		return model.MechanicLocation{}, err
	}

	if !lat.Valid || !lng.Valid {
		return model.MechanicLocation{}, nil
	}
	return model.MechanicLocation{
		Latitude:  lat.Float64,
		Longitude: lng.Float64,
		Known:     true,
	}, nil
}

func scanRequest(row pgx.Row) (model.ServiceRequest, error) {
	var (
		m        model.ServiceRequest
		imageURL sql.NullString
		source   sql.NullString
		mechanic sql.NullString
	)

	err := row.Scan(
		&m.ID,
		&m.RequesterID,
		&m.VehicleType,
		&m.ServiceType,
		&m.Description,
		&imageURL,
		&m.Destination,
		&source,
		&m.Status,
		&mechanic,
		&m.CreatedAt,
	)
	if err != nil {
		return model.ServiceRequest{}, err
	}

	m.ImageURL = imageURL.String
	m.Source = source.String
	m.AssignedMechanic = mechanic.String
	return m, nil
}

func collectRequests(rows pgx.Rows, withRequester bool) ([]model.ServiceRequest, error) {
	var out []model.ServiceRequest
	for rows.Next() {
		var (
			m        model.ServiceRequest
			imageURL sql.NullString
			source   sql.NullString
			mechanic sql.NullString
		)

		dest := []any{
			&m.ID,
			&m.RequesterID,
			&m.VehicleType,
			&m.ServiceType,
			&m.Description,
			&imageURL,
			&m.Destination,
			&source,
			&m.Status,
			&mechanic,
			&m.CreatedAt,
		}
		if withRequester {
			dest = append(dest, &m.RequesterName, &m.RequesterPhone, &m.RequesterAddress)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		m.ImageURL = imageURL.String
		m.Source = source.String
		m.AssignedMechanic = mechanic.String
		out = append(out, m)
	}
	return out, rows.Err()
}
