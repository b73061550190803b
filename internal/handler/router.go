package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"rsvp-service/internal/handler/api"
	"rsvp-service/internal/handler/middleware"
	"rsvp-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, reservationHandler *api.ReservationHandler) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, reservationHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, reservationHandler *api.ReservationHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		reservations := apiGroup.Group("/reservations")
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.Search},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.Get},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: reservationHandler.ChangeStatus},
				{Method: http.MethodPatch, Path: "/:id/note", Handler: reservationHandler.UpdateNote},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.Delete},
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
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
