package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `b.id, b.property_id, b.user_id, b.start_date, b.end_date, b.status,
       b.price_cents, b.cancel_reason, b.created_at, b.updated_at, b.confirmed_at, b.canceled_at`

func scanBooking(row pgx.Row, extra ...any) (Bookings, error) {
	var b Bookings
	dest := []any{
		&b.ID, &b.PropertyID, &b.UserID, &b.StartDate, &b.EndDate, &b.Status,
		&b.PriceCents, &b.CancelReason, &b.CreatedAt, &b.UpdatedAt, &b.ConfirmedAt, &b.CanceledAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return b, err
}

// The insert only happens when no active booking of the property overlaps the
// new range; zero rows affected means it lost to one.
const createBooking = `
INSERT INTO bookings (
    id, property_id, user_id, start_date, end_date, status,
    price_cents, created_at, updated_at
)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
WHERE NOT EXISTS (
    SELECT 1 FROM bookings o
    WHERE o.property_id = $2
      AND o.status <> 'canceled'
      AND o.start_date < $5
      AND $4 < o.end_date
)`

type CreateBookingParams struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	UserID     uuid.UUID
	StartDate  pgtype.Date
	EndDate    pgtype.Date
	Status     string
	PriceCents int64
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) (int64, error) {
	tag, err := db.Exec(ctx, createBooking,
		arg.ID, arg.PropertyID, arg.UserID, arg.StartDate, arg.EndDate, arg.Status,
		arg.PriceCents, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const updateBookingStatus = `
UPDATE bookings
SET status = $2, cancel_reason = $3, updated_at = $4, confirmed_at = $5, canceled_at = $6
WHERE id = $1`

type UpdateBookingStatusParams struct {
	ID           uuid.UUID
	Status       string
	CancelReason pgtype.Text
	UpdatedAt    pgtype.Timestamptz
	ConfirmedAt  pgtype.Timestamptz
	CanceledAt   pgtype.Timestamptz
}

func (q *Queries) UpdateBookingStatus(ctx context.Context, db DBTX, arg UpdateBookingStatusParams) (int64, error) {
	tag, err := db.Exec(ctx, updateBookingStatus,
		arg.ID, arg.Status, arg.CancelReason, arg.UpdatedAt, arg.ConfirmedAt, arg.CanceledAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getBookingByID = `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (Bookings, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByID, id))
}

const getBookingForUpdate = getBookingByID + ` FOR UPDATE`

func (q *Queries) GetBookingForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Bookings, error) {
	return scanBooking(db.QueryRow(ctx, getBookingForUpdate, id))
}

const getBookingView = `
SELECT ` + bookingColumns + `, p.name
FROM bookings b
JOIN properties p ON p.id = b.property_id
WHERE b.id = $1`

func (q *Queries) GetBookingView(ctx context.Context, db DBTX, id uuid.UUID) (BookingWithProperty, error) {
	var out BookingWithProperty
	b, err := scanBooking(db.QueryRow(ctx, getBookingView, id), &out.PropertyName)
	out.Bookings = b
	return out, err
}

const listActiveBookingsByProperty = `
SELECT ` + bookingColumns + `
FROM bookings b
WHERE b.property_id = $1 AND b.status <> 'canceled'
ORDER BY b.start_date, b.id`

func (q *Queries) ListActiveBookingsByProperty(ctx context.Context, db DBTX, propertyID uuid.UUID) ([]Bookings, error) {
	rows, err := db.Query(ctx, listActiveBookingsByProperty, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Bookings
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

const listActiveBookingsInRange = `
SELECT ` + bookingColumns + `
FROM bookings b
WHERE b.property_id = $1
  AND b.status <> 'canceled'
  AND b.start_date < $3
  AND $2 < b.end_date
ORDER BY b.start_date, b.id`

type ListActiveBookingsInRangeParams struct {
	PropertyID uuid.UUID
	FromDate   pgtype.Date
	ToDate     pgtype.Date
}

func (q *Queries) ListActiveBookingsInRange(ctx context.Context, db DBTX, arg ListActiveBookingsInRangeParams) ([]Bookings, error) {
	rows, err := db.Query(ctx, listActiveBookingsInRange, arg.PropertyID, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Bookings
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// Keyset pagination on (created_at, id) descending. A NULL $2 starts from the top.
const listBookingsByUser = `
SELECT ` + bookingColumns + `, p.name
FROM bookings b
JOIN properties p ON p.id = b.property_id
WHERE b.user_id = $1
  AND ($2::timestamptz IS NULL OR (b.created_at, b.id) < ($2::timestamptz, $3::uuid))
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4`

type ListBookingsByUserParams struct {
	UserID         uuid.UUID
	AfterCreatedAt pgtype.Timestamptz
	AfterID        uuid.UUID
	Limit          int32
}

func (q *Queries) ListBookingsByUser(ctx context.Context, db DBTX, arg ListBookingsByUserParams) ([]BookingWithProperty, error) {
	rows, err := db.Query(ctx, listBookingsByUser, arg.UserID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookingWithProperty
	for rows.Next() {
		var item BookingWithProperty
		b, err := scanBooking(rows, &item.PropertyName)
		if err != nil {
			return nil, err
		}
		item.Bookings = b
		items = append(items, item)
	}
	return items, rows.Err()
}
