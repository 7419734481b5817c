package service

import (
	"context"
	"fmt"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/repository"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/telegram"
)

// rawEchoLimit bounds the raw model text echoed back for diagnostics.
const rawEchoLimit = 600

// PredictionService runs the chart prediction pipeline: normalize image,
// build prompt, call the gateway, extract JSON, validate into the output
// contract. It never returns an error: every failure becomes an ok:false
// response so callers always receive JSON.
type PredictionService interface {
	Predict(ctx context.Context, req *dto.PredictionRequest) *dto.PredictionResponse
}

type predictionService struct {
	cfg         *config.Config
	log         *logger.Logger
	aiRepo      repository.AIRepository
	images      *ImageNormalizer
	normalizer  *SignalNormalizer
	telegramBot telegram.Notifier
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(cfg *config.Config, log *logger.Logger, aiRepo repository.AIRepository, images *ImageNormalizer, normalizer *SignalNormalizer, telegramBot telegram.Notifier) PredictionService {
	return &predictionService{
		cfg:         cfg,
		log:         log,
		aiRepo:      aiRepo,
		images:      images,
		normalizer:  normalizer,
		telegramBot: telegramBot,
	}
}

func (s *predictionService) Predict(ctx context.Context, req *dto.PredictionRequest) *dto.PredictionResponse {
	encoded, err := s.images.Normalize(req.ImageBytes, req.MimeType)
	if err != nil {
		s.log.Warn("image normalization failed", logger.ErrorField(err))
		return s.failure(err, "")
	}

	prompt := repository.BuildChartAnalysisPrompt(req.Asset, req.DurationSeconds)

	gatewayCtx, cancel := context.WithTimeout(ctx, s.cfg.Model.Timeout)
	defer cancel()

	rawText, err := s.aiRepo.AnalyzeChart(gatewayCtx, prompt, encoded)
	if err != nil {
		s.log.Error("model gateway call failed", logger.ErrorField(err), logger.StringField("asset", req.Asset))
		if dto.IsTransient(err) {
			_ = s.telegramBot.SendMessage(fmt.Sprintf("msm-ia-api: model gateway failure: %v", err))
		}
		return s.failure(err, "")
	}

	payload, err := ExtractJSONObject(rawText)
	if err != nil {
		s.log.Warn("model output carried no JSON object", logger.StringField("raw", truncate(rawText, rawEchoLimit)))
		return s.failure(err, rawText)
	}

	resp, err := s.normalizer.Normalize(payload, req.Asset, req.DurationSeconds)
	if err != nil {
		s.log.Warn("model payload failed validation", logger.ErrorField(err))
		return s.failure(err, rawText)
	}

	s.log.Debug("prediction completed",
		logger.StringField("asset", req.Asset),
		logger.StringField("signal", resp.Signal),
		logger.IntField("confidence", *resp.Confidence),
	)
	return resp
}

// failure converts any pipeline error into the ok:false response contract.
// Unparseable model output additionally echoes the raw text, truncated, for
// diagnostics.
func (s *predictionService) failure(err error, rawText string) *dto.PredictionResponse {
	resp := &dto.PredictionResponse{
		OK:    false,
		Error: dto.MessageOf(err),
	}
	if rawText != "" && dto.KindOf(err) == dto.ErrModelOutputUnparseable {
		resp.Raw = truncate(rawText, rawEchoLimit)
	}
	return resp
}
