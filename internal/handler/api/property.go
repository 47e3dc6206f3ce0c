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

type PropertyHandler struct {
	cmds commands.PropertyCommands
	q    queries.BookingQueries
}

func NewPropertyHandler(cmds commands.PropertyCommands, q queries.BookingQueries) *PropertyHandler {
	return &PropertyHandler{cmds: cmds, q: q}
}

// @Summary List a property
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePropertyRequest true "Property"
// @Success 201 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	created, err := h.cmds.Create(c.Request.Context(), commands.CreatePropertyRequest{
		Host:             actor,
		Name:             req.Name,
		NightlyRateCents: req.NightlyRateCents,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromProperty(created))
}

// @Summary Change nightly rate
// @Description Applies to future reservations only; existing booking prices are kept.
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body reqdto.ChangeRateRequest true "New rate"
// @Success 200 {object} resdto.PropertyResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/rate [put]
func (h *PropertyHandler) ChangeRate(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.ChangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	updated, err := h.cmds.ChangeRate(c.Request.Context(), commands.ChangeRateRequest{
		PropertyID:       id,
		Host:             actor,
		NightlyRateCents: *req.NightlyRateCents,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromProperty(updated))
}

// @Summary Property occupancy
// @Description Active bookings overlapping [from, to)
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Param from query string true "First night (YYYY-MM-DD)"
// @Param to query string true "Day after the last night (YYYY-MM-DD)"
// @Success 200 {object} resdto.OccupancyResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /properties/{id}/occupancy [get]
func (h *PropertyHandler) Occupancy(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	var q reqdto.OccupancyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "from and to are required", nil)
		return
	}
	window, err := q.Window()
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	view, err := h.q.Occupancy(c.Request.Context(), id, window)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOccupancyView(view))
}

func propertyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
