package shared

import (
	"context"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinProperty: Within, serialized against every other writer of the same property
	WithinProperty(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Properties() PropertyRepository
	Reads() CommandReads
}

type CommandReads interface {
	PropertyByID(ctx context.Context, id uuid.UUID) (*PropertySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// ActiveBookingsByProperty returns every pending or confirmed booking of the property.
	ActiveBookingsByProperty(ctx context.Context, propertyID uuid.UUID) ([]*booking.Booking, error)
}

type BookingRepository interface {
	// Create fails with infra.KindConflict when an active booking of the same
	// property overlaps b.
	Create(ctx context.Context, b *booking.Booking) error
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, p *property.Property) error
	UpdateRate(ctx context.Context, p *property.Property) error
}
