package repository

import (
	"context"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
)

// disabledAIRepository serves requests when no model API key is configured.
// Every call fails with a gateway_unavailable domain error instead of
// crashing the process.
type disabledAIRepository struct{}

// NewDisabledAIRepository returns the fallback gateway used when
// MODEL_API_KEY is absent.
func NewDisabledAIRepository() AIRepository {
	return disabledAIRepository{}
}

func (disabledAIRepository) AnalyzeChart(ctx context.Context, prompt string, image *dto.EncodedImage) (string, error) {
	return "", dto.NewError(dto.ErrGatewayUnavailable, "model gateway is not configured: MODEL_API_KEY is missing")
}
