package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID           uuid.UUID  `json:"id"`
	PropertyID   uuid.UUID  `json:"property_id"`
	PropertyName string     `json:"property_name"`
	UserID       uuid.UUID  `json:"user_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Status       string     `json:"status"`
	PriceCents   int64      `json:"price_cents"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CanceledAt   *time.Time `json:"canceled_at,omitempty"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"property_id"`
	PropertyName string    `json:"property_name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status"`
	PriceCents   int64     `json:"price_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type PropertyView struct {
	ID               uuid.UUID `json:"id"`
	HostID           uuid.UUID `json:"host_id"`
	Name             string    `json:"name"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
}

// OccupiedRange is one active booking as seen by an availability calendar.
// Guest identity is deliberately absent.
type OccupiedRange struct {
	BookingID uuid.UUID `json:"booking_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

type OccupancyView struct {
	Property PropertyView    `json:"property"`
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Occupied []OccupiedRange `json:"occupied"`
}
