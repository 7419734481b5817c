package http

import (
	"net/http"
	"time"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// RegisterRoutes registers the health route on the Echo instance.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

// Health reports service identity and server time.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok":      true,
		"service": h.cfg.App.Name,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
