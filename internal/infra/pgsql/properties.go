package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createProperty = `
INSERT INTO properties (id, host_id, name, nightly_rate_cents, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

type CreatePropertyParams struct {
	ID               uuid.UUID
	HostID           uuid.UUID
	Name             string
	NightlyRateCents int64
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) CreateProperty(ctx context.Context, db DBTX, arg CreatePropertyParams) error {
	_, err := db.Exec(ctx, createProperty,
		arg.ID, arg.HostID, arg.Name, arg.NightlyRateCents, arg.CreatedAt, arg.UpdatedAt,
	)
	return err
}

const updatePropertyRate = `
UPDATE properties SET nightly_rate_cents = $2, updated_at = $3 WHERE id = $1`

type UpdatePropertyRateParams struct {
	ID               uuid.UUID
	NightlyRateCents int64
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) UpdatePropertyRate(ctx context.Context, db DBTX, arg UpdatePropertyRateParams) (int64, error) {
	tag, err := db.Exec(ctx, updatePropertyRate, arg.ID, arg.NightlyRateCents, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getPropertyByID = `
SELECT id, host_id, name, nightly_rate_cents, created_at, updated_at
FROM properties
WHERE id = $1`

func (q *Queries) GetPropertyByID(ctx context.Context, db DBTX, id uuid.UUID) (Properties, error) {
	var p Properties
	err := db.QueryRow(ctx, getPropertyByID, id).Scan(
		&p.ID, &p.HostID, &p.Name, &p.NightlyRateCents, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Transaction-scoped; released at commit or rollback.
const lockProperty = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

func (q *Queries) LockProperty(ctx context.Context, db DBTX, propertyID uuid.UUID) error {
	_, err := db.Exec(ctx, lockProperty, propertyID.String())
	return err
}
