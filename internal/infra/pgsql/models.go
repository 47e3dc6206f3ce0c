package pgsql

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Bookings struct {
	ID           uuid.UUID
	PropertyID   uuid.UUID
	UserID       uuid.UUID
	StartDate    pgtype.Date
	EndDate      pgtype.Date
	Status       string
	PriceCents   int64
	CancelReason pgtype.Text
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	ConfirmedAt  pgtype.Timestamptz
	CanceledAt   pgtype.Timestamptz
}

type Properties struct {
	ID               uuid.UUID
	HostID           uuid.UUID
	Name             string
	NightlyRateCents int64
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

type BookingWithProperty struct {
	Bookings
	PropertyName string
}
