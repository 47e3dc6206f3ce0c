package shared

import (
	"context"
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCanceled  EventType = "booking.canceled"
)

type BookingEvent struct {
	Type         EventType `json:"type"`
	BookingID    uuid.UUID `json:"booking_id"`
	PropertyID   uuid.UUID `json:"property_id"`
	UserID       uuid.UUID `json:"user_id"`
	Status       string    `json:"status"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	PriceCents   int64     `json:"price_cents"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewBookingEvent(t EventType, b *booking.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:         t,
		BookingID:    b.ID(),
		PropertyID:   b.PropertyID(),
		UserID:       b.UserID(),
		Status:       b.Status().String(),
		StartDate:    b.Interval().Start().Format(booking.DateLayout),
		EndDate:      b.Interval().End().Format(booking.DateLayout),
		PriceCents:   b.Price().Cents(),
		CancelReason: b.CancelReason().String(),
		OccurredAt:   at,
	}
}

// EventPublisher delivers booking lifecycle events after commit. Delivery is
// best effort; the booking is already durable when Publish is called.
type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}
