package api

import (
	"net/http"

	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Reserve a stay
// @Description Create a pending booking for the caller. Fails with 409 when any requested night is taken.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Reservation request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Reserve(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must be YYYY-MM-DD", nil)
		return
	}

	created, err := h.cmds.Reserve(c.Request.Context(), commands.ReserveRequest{
		PropertyID: req.PropertyID,
		UserID:     userID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Header("Location", "/api/bookings/"+created.ID().String())
	c.JSON(http.StatusCreated, resdto.FromBooking(created))
}

// @Summary Get booking
// @Description Get a booking owned by the caller
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List my bookings
// @Description Newest first, paged with an opaque cursor
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	var after *queries.Cursor
	if q.After != "" {
		after = &queries.Cursor{After: q.After}
	}
	items, next, err := h.q.ListByUser(c.Request.Context(), userID, after, q.Limit)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary Confirm booking
// @Description Called by the payments service after capturing funds for the given dates
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmBookingRequest true "Paid dates"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	start, end, err := req.Dates()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Dates must be YYYY-MM-DD", nil)
		return
	}

	confirmed, err := h.cmds.Confirm(c.Request.Context(), commands.ConfirmRequest{BookingID: id, Start: start, End: end})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(confirmed))
}

// @Summary Cancel booking
// @Description Cancel a pending or confirmed booking. Canceling twice returns the canceled booking.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Optional reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}
	reason, err := req.CancelReason()
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	canceled, err := h.cmds.Cancel(c.Request.Context(), commands.CancelRequest{BookingID: id, Actor: actor, Reason: reason})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(canceled))
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
