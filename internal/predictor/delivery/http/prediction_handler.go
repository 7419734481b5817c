package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/service"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictionHandler handles HTTP requests for chart predictions.
type PredictionHandler struct {
	predictionService service.PredictionService
	cfg               *config.Config
	logger            *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService service.PredictionService, cfg *config.Config, logger *logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the prediction routes to the Echo group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Predict)
	g.GET("", h.MethodHint)
}

// Predict accepts a multipart form with a chart screenshot and trade
// parameters. The response is always HTTP 200 JSON: logical failures carry
// ok:false with a short error, never a transport-level error page.
func (h *PredictionHandler) Predict(c echo.Context) error {
	fileHeader, err := c.FormFile("chart")
	if err != nil {
		return c.JSON(http.StatusOK, dto.PredictionResponse{OK: false, Error: "missing file: send form-data with key 'chart'"})
	}
	if h.cfg.Image.MaxUploadBytes > 0 && fileHeader.Size > h.cfg.Image.MaxUploadBytes {
		return c.JSON(http.StatusOK, dto.PredictionResponse{OK: false, Error: "image exceeds the upload size limit"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusOK, dto.PredictionResponse{OK: false, Error: "failed to read uploaded file"})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusOK, dto.PredictionResponse{OK: false, Error: "failed to read uploaded file"})
	}

	asset := c.FormValue("asset")
	if asset == "" {
		asset = h.cfg.Signal.DefaultAsset
	}

	duration := h.cfg.Signal.DefaultDurationSeconds
	if raw := c.FormValue("duration_seconds"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 {
			return c.JSON(http.StatusOK, dto.PredictionResponse{OK: false, Error: "duration_seconds must be a positive integer"})
		}
	}

	req := &dto.PredictionRequest{
		ImageBytes:      data,
		MimeType:        fileHeader.Header.Get("Content-Type"),
		Asset:           asset,
		DurationSeconds: duration,
	}

	resp := h.predictionService.Predict(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}

// MethodHint answers browser GETs with a usage hint.
func (h *PredictionHandler) MethodHint(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, echo.Map{
		"error":   "Use POST",
		"example": "POST /api/v1/predict (form-data: chart=image, asset, duration_seconds)",
	})
}
