package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/repository"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAIRepository struct {
	reply string
	err   error
	calls int
}

func (s *stubAIRepository) AnalyzeChart(ctx context.Context, prompt string, image *dto.EncodedImage) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestPredictionService(t *testing.T, aiRepo repository.AIRepository) PredictionService {
	t.Helper()

	cfg := &config.Config{}
	cfg.Model.Timeout = 5 * time.Second
	cfg.Signal.NoSignalConfidenceCeiling = 55
	cfg.Signal.MaxReasonLength = 240

	log, err := logger.New("error", "json")
	require.NoError(t, err)

	return NewPredictionService(
		cfg,
		log,
		aiRepo,
		NewImageNormalizer(1024),
		NewSignalNormalizer(cfg.Signal.NoSignalConfidenceCeiling, cfg.Signal.MaxReasonLength),
		telegram.NewDisabled(),
	)
}

func TestPredictRecoversEmbeddedPortugueseJSON(t *testing.T) {
	stub := &stubAIRepository{
		reply: `COMPRA! The chart looks strong. {"sinal":"COMPRA","confianca":90,"motivo":"clear uptrend"} thanks`,
	}
	svc := newTestPredictionService(t, stub)

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes:      makePNG(t, 320, 200),
		MimeType:        "image/png",
		Asset:           "EURUSD",
		DurationSeconds: 90,
	})

	require.True(t, resp.OK)
	assert.Equal(t, SignalBuy, resp.Signal)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, 90, *resp.Confidence)
	require.NotNil(t, resp.Reason)
	assert.Equal(t, "clear uptrend", *resp.Reason)
	assert.Equal(t, "EURUSD", resp.Asset)
	assert.Equal(t, 90, resp.DurationSeconds)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 1, stub.calls)
}

func TestPredictProseOnlyReplyEchoesRaw(t *testing.T) {
	stub := &stubAIRepository{
		reply: "The market looks bullish today, I would buy with high conviction.",
	}
	svc := newTestPredictionService(t, stub)

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes:      makePNG(t, 320, 200),
		MimeType:        "image/png",
		Asset:           "EURUSD",
		DurationSeconds: 90,
	})

	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, stub.reply, resp.Raw)
}

func TestPredictRawEchoTruncated(t *testing.T) {
	stub := &stubAIRepository{reply: strings.Repeat("x", 5000)}
	svc := newTestPredictionService(t, stub)

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes: makePNG(t, 320, 200),
		MimeType:   "image/png",
	})

	assert.False(t, resp.OK)
	assert.Equal(t, rawEchoLimit, len(resp.Raw))
}

func TestPredictEmptyUploadSkipsGateway(t *testing.T) {
	stub := &stubAIRepository{reply: `{"signal":"BUY","confidence":80}`}
	svc := newTestPredictionService(t, stub)

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes: nil,
		MimeType:   "image/png",
	})

	assert.False(t, resp.OK)
	assert.Equal(t, "empty image upload", resp.Error)
	assert.Empty(t, resp.Raw)
	assert.Equal(t, 0, stub.calls)
}

func TestPredictGatewayUnavailable(t *testing.T) {
	svc := newTestPredictionService(t, repository.NewDisabledAIRepository())

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes: makePNG(t, 320, 200),
		MimeType:   "image/png",
	})

	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "not configured")
	assert.Empty(t, resp.Raw)
}

func TestPredictGatewayTimeout(t *testing.T) {
	stub := &stubAIRepository{
		err: dto.NewError(dto.ErrGatewayTimeout, "model gateway timed out"),
	}
	svc := newTestPredictionService(t, stub)

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes: makePNG(t, 320, 200),
		MimeType:   "image/png",
	})

	assert.False(t, resp.OK)
	assert.Equal(t, "model gateway timed out", resp.Error)
	assert.Empty(t, resp.Raw)
}

func TestPredictMissingConfidenceFailsClosed(t *testing.T) {
	stub := &stubAIRepository{reply: `{"signal":"BUY","reason":"looks good"}`}
	svc := newTestPredictionService(t, stub)

	resp := svc.Predict(context.Background(), &dto.PredictionRequest{
		ImageBytes: makePNG(t, 320, 200),
		MimeType:   "image/png",
	})

	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "confidence")
	// Raw is only echoed for unparseable output, not validation failures.
	assert.Empty(t, resp.Raw)
}
