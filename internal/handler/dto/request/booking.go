package request

import (
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// Dates are calendar days in YYYY-MM-DD. The stay covers StartDate up to, but
// not including, EndDate.
type CreateBookingRequest struct {
	PropertyID uuid.UUID `json:"propertyId" binding:"required"`
	StartDate  string    `json:"startDate" binding:"required"`
	EndDate    string    `json:"endDate" binding:"required"`
}

func (r CreateBookingRequest) Dates() (start, end time.Time, err error) {
	return parseDates(r.StartDate, r.EndDate)
}

// ConfirmBookingRequest is sent by the payments service once funds are captured
// for the given stay.
type ConfirmBookingRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

func (r ConfirmBookingRequest) Dates() (start, end time.Time, err error) {
	return parseDates(r.StartDate, r.EndDate)
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (r CancelBookingRequest) CancelReason() (booking.CancelReason, error) {
	if r.Reason == "" {
		return "", nil
	}
	return booking.NewCancelReason(r.Reason)
}

type ListBookingsQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit" binding:"omitempty,min=1"`
}

func parseDates(startStr, endStr string) (start, end time.Time, err error) {
	start, err = booking.ParseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = booking.ParseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
