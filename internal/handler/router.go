package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/api"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking  *api.BookingHandler
	Property *api.PropertyHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	requestLogger *middleware.Logger,
	logger *slog.Logger,
	bookingHandler *api.BookingHandler,
	propertyHandler *api.PropertyHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, requestLogger, logger)
	setupRoutes(engine, cfg, Handlers{Booking: bookingHandler, Property: propertyHandler}, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, requestLogger *middleware.Logger, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger))
	engine.Use(requestLogger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck(cfg.Booking.Store))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Reserve, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleGuest, user.RoleHost)}},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: h.Booking.Confirm, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RolePayments)}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
			})
		}

		properties := apiGroup.Group("/properties")
		{
			addRoutes(properties, []route{
				{Method: http.MethodGet, Path: "/:id/occupancy", Handler: h.Property.Occupancy},
			})

			hostOnly := properties.Group("")
			hostOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleHost))
			addRoutes(hostOnly, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Property.Create},
				{Method: http.MethodPut, Path: "/:id/rate", Handler: h.Property.ChangeRate},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(store string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"store":  store,
		})
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
