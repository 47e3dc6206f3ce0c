package booking

import (
	"time"

	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Booking struct {
	id           uuid.UUID
	propertyID   uuid.UUID
	userID       uuid.UUID
	interval     Interval
	status       Status
	price        Money
	cancelReason CancelReason
	createdAt    time.Time
	updatedAt    time.Time
	confirmedAt  *time.Time
	canceledAt   *time.Time
}

func NewBooking(propertyID, userID uuid.UUID, interval Interval, price Money, now time.Time) (*Booking, error) {
	if interval.IsZero() {
		return nil, ErrInvalidInterval
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	return &Booking{
		id:         uuid.New(),
		propertyID: propertyID,
		userID:     userID,
		interval:   interval,
		status:     StatusPending,
		price:      price,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructBooking(
	id, propertyID, userID uuid.UUID,
	interval Interval,
	status Status,
	price Money,
	cancelReason CancelReason,
	createdAt, updatedAt time.Time,
	confirmedAt, canceledAt *time.Time,
) *Booking {
	return &Booking{
		id:           id,
		propertyID:   propertyID,
		userID:       userID,
		interval:     interval,
		status:       status,
		price:        price,
		cancelReason: cancelReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		confirmedAt:  confirmedAt,
		canceledAt:   canceledAt,
	}
}

// Confirm moves a pending booking to confirmed once payment is captured.
// agreed is the interval the payment was taken for and must match exactly.
// Confirming an already confirmed booking is a no-op and reports false.
func (b *Booking) Confirm(now time.Time, agreed Interval) (bool, error) {
	if b.status == StatusCanceled {
		return false, ErrBookingClosed
	}
	if !agreed.Equal(b.interval) {
		return false, errs.Wrapf(ErrIntervalMismatch, "booking %s is %s, payment covers %s", b.id, b.interval, agreed)
	}
	if b.status == StatusConfirmed {
		return false, nil
	}
	if b.status != StatusPending {
		return false, errs.Wrapf(ErrInvalidTransition, "%s -> %s", b.status, StatusConfirmed)
	}

	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return true, nil
}

// Cancel releases the booking's nights. Canceling twice is not an error;
// the second call reports false and leaves the booking untouched.
func (b *Booking) Cancel(now time.Time, reason CancelReason) (bool, error) {
	if !reason.IsValid() {
		return false, ErrInvalidReason
	}
	if b.status == StatusCanceled {
		return false, nil
	}
	if !b.status.IsActive() {
		return false, errs.Wrapf(ErrInvalidTransition, "%s -> %s", b.status, StatusCanceled)
	}

	b.status = StatusCanceled
	b.cancelReason = reason
	b.canceledAt = &now
	b.updatedAt = now
	return true, nil
}

func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) IsCanceled() bool {
	return b.status == StatusCanceled
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) PropertyID() uuid.UUID      { return b.propertyID }
func (b *Booking) UserID() uuid.UUID          { return b.userID }
func (b *Booking) Interval() Interval         { return b.interval }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) Price() Money               { return b.price }
func (b *Booking) CancelReason() CancelReason { return b.cancelReason }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }
func (b *Booking) ConfirmedAt() *time.Time    { return b.confirmedAt }
func (b *Booking) CanceledAt() *time.Time     { return b.canceledAt }
