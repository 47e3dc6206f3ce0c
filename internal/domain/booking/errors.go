package booking

import "rental-booking/internal/pkg/errs"

var (
	ErrInvalidInterval   = errs.New("invalid interval")
	ErrInvalidTransition = errs.New("invalid booking status transition")
	ErrStartInPast       = errs.New("booking cannot start in the past")
	ErrNegativePrice     = errs.New("price cannot be negative")
	ErrInvalidStatus     = errs.New("invalid booking status")
	ErrInvalidReason     = errs.New("invalid cancel reason")
	ErrPriceOverflow     = errs.New("price out of range")

	// Closed and mismatch failures are transition failures too, so callers that
	// only care about "the state machine said no" can match ErrInvalidTransition.
	ErrBookingClosed    = errs.Mark(errs.New("booking is closed"), ErrInvalidTransition)
	ErrIntervalMismatch = errs.Mark(errs.New("confirmed interval does not match booking"), ErrInvalidTransition)

	ErrStayTooLong = errs.Mark(errs.New("stay exceeds maximum length"), ErrInvalidInterval)
)
