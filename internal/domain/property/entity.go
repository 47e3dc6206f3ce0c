package property

import (
	"strings"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxNameLength = 200

var (
	ErrEmptyName    = errs.New("property name cannot be empty")
	ErrNameTooLong  = errs.New("property name too long")
	ErrNegativeRate = errs.New("nightly rate cannot be negative")
)

type Property struct {
	id          uuid.UUID
	hostID      uuid.UUID
	name        string
	nightlyRate booking.Money
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProperty(hostID uuid.UUID, name string, nightlyRate booking.Money, now time.Time) (*Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if nightlyRate.IsNegative() {
		return nil, ErrNegativeRate
	}
	return &Property{
		id:          uuid.New(),
		hostID:      hostID,
		name:        name,
		nightlyRate: nightlyRate,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructProperty(id, hostID uuid.UUID, name string, nightlyRate booking.Money, createdAt, updatedAt time.Time) *Property {
	return &Property{
		id:          id,
		hostID:      hostID,
		name:        name,
		nightlyRate: nightlyRate,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ChangeRate affects bookings created afterwards only.
func (p *Property) ChangeRate(rate booking.Money, now time.Time) error {
	if rate.IsNegative() {
		return ErrNegativeRate
	}
	p.nightlyRate = rate
	p.updatedAt = now
	return nil
}

func (p *Property) Spec() booking.PropertySpec {
	return booking.PropertySpec{ID: p.id, NightlyRate: p.nightlyRate}
}

func (p *Property) ID() uuid.UUID              { return p.id }
func (p *Property) HostID() uuid.UUID          { return p.hostID }
func (p *Property) Name() string               { return p.name }
func (p *Property) NightlyRate() booking.Money { return p.nightlyRate }
func (p *Property) CreatedAt() time.Time       { return p.createdAt }
func (p *Property) UpdatedAt() time.Time       { return p.updatedAt }
