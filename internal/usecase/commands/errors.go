package commands

import (
	"fmt"
	"strings"

	"rental-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound    = errs.New("property not found")
	ErrBookingNotFound     = errs.New("booking not found")
	ErrUserNotFound        = errs.New("user not found")
	ErrReservationConflict = errs.New("reservation conflict")
	ErrPersistence         = errs.New("persistence failure")
	ErrLockTimeout         = errs.New("timed out waiting for property lock")
	ErrForbidden           = errs.New("operation not permitted for this caller")
)

// ConflictError names the active bookings that already hold some of the
// requested nights. BookingIDs may be empty when the store rejected the write
// but the conflicting row was not visible on reload.
type ConflictError struct {
	PropertyID uuid.UUID
	BookingIDs []uuid.UUID
}

func (e *ConflictError) Error() string {
	if len(e.BookingIDs) == 0 {
		return fmt.Sprintf("reservation conflict on property %s", e.PropertyID)
	}
	ids := make([]string, len(e.BookingIDs))
	for i, id := range e.BookingIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("reservation conflict on property %s with bookings %s", e.PropertyID, strings.Join(ids, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrReservationConflict
}
