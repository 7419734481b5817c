package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/repository"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/service"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAIRepository struct {
	reply string
}

func (f *fixedAIRepository) AnalyzeChart(ctx context.Context, prompt string, img *dto.EncodedImage) (string, error) {
	return f.reply, nil
}

func newPredictionTestServer(t *testing.T, aiRepo repository.AIRepository) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Model.Timeout = 5 * time.Second
	cfg.Image.MaxDimension = 1024
	cfg.Image.MaxUploadBytes = 8 << 20
	cfg.Signal.NoSignalConfidenceCeiling = 55
	cfg.Signal.MaxReasonLength = 240
	cfg.Signal.DefaultAsset = "EURUSD"
	cfg.Signal.DefaultDurationSeconds = 90

	log, err := logger.New("error", "json")
	require.NoError(t, err)

	svc := service.NewPredictionService(
		cfg,
		log,
		aiRepo,
		service.NewImageNormalizer(cfg.Image.MaxDimension),
		service.NewSignalNormalizer(cfg.Signal.NoSignalConfidenceCeiling, cfg.Signal.MaxReasonLength),
		telegram.NewDisabled(),
	)

	e := echo.New()
	NewPredictionHandler(svc, cfg, log).RegisterRoutes(e.Group("/api/v1/predict"))
	return e
}

func chartPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartChart(t *testing.T, fields map[string]string, withFile bool, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withFile {
		part, err := w.CreateFormFile("chart", "chart.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doPredict(t *testing.T, e *echo.Echo, body *bytes.Buffer, contentType string) (int, dto.PredictionResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp dto.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestPredictHandlerSuccess(t *testing.T) {
	e := newPredictionTestServer(t, &fixedAIRepository{
		reply: `{"signal":"BUY","confidence":82,"reason":"higher highs"}`,
	})

	body, ct := multipartChart(t, map[string]string{"asset": "GBPUSD", "duration_seconds": "120"}, true, chartPNG(t))
	code, resp := doPredict(t, e, body, ct)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.OK)
	assert.Equal(t, "BUY", resp.Signal)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, 82, *resp.Confidence)
	assert.Equal(t, "GBPUSD", resp.Asset)
	assert.Equal(t, 120, resp.DurationSeconds)
}

func TestPredictHandlerAppliesDefaults(t *testing.T) {
	e := newPredictionTestServer(t, &fixedAIRepository{
		reply: `{"signal":"NO_SIGNAL","confidence":20}`,
	})

	body, ct := multipartChart(t, nil, true, chartPNG(t))
	code, resp := doPredict(t, e, body, ct)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.OK)
	assert.Equal(t, "EURUSD", resp.Asset)
	assert.Equal(t, 90, resp.DurationSeconds)
}

func TestPredictHandlerMissingFile(t *testing.T) {
	e := newPredictionTestServer(t, repository.NewDisabledAIRepository())

	body, ct := multipartChart(t, map[string]string{"asset": "EURUSD"}, false, nil)
	code, resp := doPredict(t, e, body, ct)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "chart")
}

func TestPredictHandlerEmptyFile(t *testing.T) {
	e := newPredictionTestServer(t, repository.NewDisabledAIRepository())

	body, ct := multipartChart(t, nil, true, nil)
	code, resp := doPredict(t, e, body, ct)

	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.OK)
	assert.Equal(t, "empty image upload", resp.Error)
}

func TestPredictHandlerInvalidDuration(t *testing.T) {
	e := newPredictionTestServer(t, repository.NewDisabledAIRepository())

	for _, raw := range []string{"abc", "-5", "0"} {
		body, ct := multipartChart(t, map[string]string{"duration_seconds": raw}, true, chartPNG(t))
		code, resp := doPredict(t, e, body, ct)

		assert.Equal(t, http.StatusOK, code)
		assert.False(t, resp.OK, "duration %q", raw)
		assert.Equal(t, "duration_seconds must be a positive integer", resp.Error)
	}
}

func TestPredictHandlerMethodHint(t *testing.T) {
	e := newPredictionTestServer(t, repository.NewDisabledAIRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/predict", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Use POST")
}
