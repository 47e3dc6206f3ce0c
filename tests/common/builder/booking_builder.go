//go:build unit || e2e

package builder

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	reqdto "rental-booking/internal/handler/dto/request"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// Fixed reference date so interval arithmetic in tests is deterministic.
var DefaultNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type BookingBuilder struct {
	PropertyID       uuid.UUID
	UserID           uuid.UUID
	Start            string
	End              string
	NightlyRateCents int64
	Now              time.Time
	AllowPastStart   bool
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		PropertyID:       uuid.New(),
		UserID:           uuid.New(),
		Start:            "2024-06-01",
		End:              "2024-06-05",
		NightlyRateCents: 8000,
		Now:              DefaultNow,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithDates(start, end string) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) WithProperty(id uuid.UUID) *BookingBuilder {
	b.PropertyID = id
	return b
}

func (b *BookingBuilder) WithRate(cents int64) *BookingBuilder {
	b.NightlyRateCents = cents
	return b
}

// Build methods
func (b *BookingBuilder) BuildInterval() (booking.Interval, error) {
	return booking.ParseInterval(b.Start, b.End)
}

func (b *BookingBuilder) MustInterval() booking.Interval {
	iv, err := b.BuildInterval()
	if err != nil {
		panic(err)
	}
	return iv
}

func (b *BookingBuilder) BuildFactory() *booking.Factory {
	return booking.NewFactory(clock.NewMockClock(b.Now), booking.NewNightlyRateCalculator(), b.AllowPastStart)
}

func (b *BookingBuilder) BuildPropertySpec() booking.PropertySpec {
	return booking.PropertySpec{ID: b.PropertyID, NightlyRate: booking.NewMoney(b.NightlyRateCents)}
}

func (b *BookingBuilder) BuildProperty() *property.Property {
	return property.ReconstructProperty(b.PropertyID, uuid.New(), "Seaside Cottage", booking.NewMoney(b.NightlyRateCents), b.Now, b.Now)
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	iv, err := b.BuildInterval()
	if err != nil {
		return nil, err
	}
	return b.BuildFactory().CreateBooking(b.BuildPropertySpec(), b.UserID, iv)
}

func (b *BookingBuilder) MustDomain() *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return bk
}

func (b *BookingBuilder) BuildReserveRequest() commands.ReserveRequest {
	iv := b.MustInterval()
	return commands.ReserveRequest{
		PropertyID: b.PropertyID,
		UserID:     b.UserID,
		Start:      iv.Start(),
		End:        iv.End(),
	}
}

func (b *BookingBuilder) BuildRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		PropertyID: b.PropertyID,
		StartDate:  b.Start,
		EndDate:    b.End,
	}
}
