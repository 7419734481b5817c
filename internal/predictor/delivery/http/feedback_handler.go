package http

import (
	"net/http"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/service"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// FeedbackHandler handles HTTP requests for the feedback ledger.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	logger          *logger.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackService, logger *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

// RegisterRoutes registers the feedback routes to the Echo group.
func (h *FeedbackHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Submit)
	g.GET("/stats", h.Stats)
	g.POST("/reset", h.Reset)
}

// Submit appends one outcome event to the ledger.
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var req dto.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, dto.StatusResponse{OK: false, Error: "invalid request payload"})
	}

	if err := h.feedbackService.Append(c.Request().Context(), &req); err != nil {
		return c.JSON(http.StatusOK, dto.StatusResponse{OK: false, Error: dto.MessageOf(err)})
	}
	return c.JSON(http.StatusOK, dto.StatusResponse{OK: true})
}

// Stats returns the aggregate win/lose counters.
func (h *FeedbackHandler) Stats(c echo.Context) error {
	stats, err := h.feedbackService.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, dto.StatusResponse{OK: false, Error: dto.MessageOf(err)})
	}
	return c.JSON(http.StatusOK, dto.FeedbackStatsResponse{
		OK:    true,
		Total: stats.Total,
		Win:   stats.Win,
		Lose:  stats.Lose,
	})
}

// Reset purges the ledger. The shared secret travels in the X-Reset-Secret
// header or, failing that, in the request body.
func (h *FeedbackHandler) Reset(c echo.Context) error {
	secret := c.Request().Header.Get("X-Reset-Secret")
	if secret == "" {
		var req dto.FeedbackResetRequest
		if err := c.Bind(&req); err == nil {
			secret = req.Secret
		}
	}

	if err := h.feedbackService.Reset(c.Request().Context(), secret); err != nil {
		return c.JSON(http.StatusOK, dto.StatusResponse{OK: false, Error: dto.MessageOf(err)})
	}
	return c.JSON(http.StatusOK, dto.StatusResponse{OK: true})
}
