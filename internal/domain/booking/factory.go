package booking

import (
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxStayNights bounds a single reservation, matching the widest occupancy window.
const MaxStayNights = 366

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	AllowPastStart  bool
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator, allowPastStart bool) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
		AllowPastStart:  allowPastStart,
	}
}

// CheckInterval applies the stay-length cap and the past-start policy
// against today's date.
func (f *Factory) CheckInterval(interval Interval) error {
	if n := interval.Nights(); n > MaxStayNights {
		return errs.Wrapf(ErrStayTooLong, "%d nights, at most %d allowed", n, MaxStayNights)
	}
	if f.AllowPastStart {
		return nil
	}
	if interval.Start().Before(ToDate(f.Clock.Now())) {
		return ErrStartInPast
	}
	return nil
}

// CreateBooking prices the interval against the property's current rate and
// returns a pending booking. The price is fixed from here on.
func (f *Factory) CreateBooking(property PropertySpec, userID uuid.UUID, interval Interval) (*Booking, error) {
	if err := f.CheckInterval(interval); err != nil {
		return nil, err
	}

	price, err := f.PriceCalculator.CalculatePrice(property, interval)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	return NewBooking(property.ID, userID, interval, price, f.Clock.Now())
}
