package shared

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type PropertySnapshot struct {
	ID               uuid.UUID
	HostID           uuid.UUID
	Name             string
	NightlyRateCents int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s *PropertySnapshot) Spec() booking.PropertySpec {
	return booking.PropertySpec{ID: s.ID, NightlyRate: booking.NewMoney(s.NightlyRateCents)}
}

func (s *PropertySnapshot) ToDomain() *property.Property {
	return property.ReconstructProperty(s.ID, s.HostID, s.Name, booking.NewMoney(s.NightlyRateCents), s.CreatedAt, s.UpdatedAt)
}
