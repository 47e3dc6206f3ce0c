package api

import (
	"errors"
	"net/http"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// abortWithUseCaseError maps command and query failures onto HTTP responses.
// Order matters: ErrBookingClosed and ErrIntervalMismatch are also
// ErrInvalidTransition, and ErrStayTooLong is also ErrInvalidInterval.
func abortWithUseCaseError(c *gin.Context, err error) {
	var conflict *commands.ConflictError
	switch {
	case errors.As(err, &conflict):
		detail := httperr.ConflictDetail{ConflictingBookingIDs: make([]string, len(conflict.BookingIDs))}
		for i, id := range conflict.BookingIDs {
			detail.ConflictingBookingIDs[i] = id.String()
		}
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested dates are already booked", detail)

	case errs.Is(err, booking.ErrStayTooLong):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Stay is too long", nil)
	case errs.Is(err, booking.ErrPriceOverflow):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Price is out of range", nil)
	case errs.Is(err, booking.ErrInvalidInterval):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "End date must be after start date", nil)
	case errs.Is(err, booking.ErrStartInPast):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Start date is in the past", nil)
	case errs.Is(err, booking.ErrInvalidReason):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown cancel reason", nil)
	case errs.Is(err, queries.ErrInvalidRange):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Occupancy window is too wide", nil)
	case errs.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
	case errs.Is(err, property.ErrEmptyName),
		errs.Is(err, property.ErrNameTooLong),
		errs.Is(err, property.ErrNegativeRate):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)

	case errs.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed for this caller", nil)

	case errs.Is(err, commands.ErrPropertyNotFound), errs.Is(err, queries.ErrPropertyNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
	case errs.Is(err, commands.ErrBookingNotFound), errs.Is(err, queries.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errs.Is(err, commands.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)

	case errs.Is(err, booking.ErrBookingClosed):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is canceled", nil)
	case errs.Is(err, booking.ErrIntervalMismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Paid dates do not match the booking", nil)
	case errs.Is(err, booking.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking cannot make this transition", nil)

	case errs.Is(err, commands.ErrLockTimeout), errs.Is(err, commands.ErrPersistence):
		c.Header("Retry-After", "1")
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Booking store unavailable, retry later", nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func abortUnauthenticated(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
}
