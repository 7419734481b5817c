package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API with inline image data.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Model.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Model.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: cfg.Model.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// AnalyzeChart sends the prompt and the encoded chart screenshot to the
// Gemini API and returns the raw reply text.
func (r *geminiAIRepository) AnalyzeChart(ctx context.Context, prompt string, image *dto.EncodedImage) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Model.Name, contents, nil)
	if err != nil {
		return "", classifyGatewayErr(err, "failed to count tokens")
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return "", classifyGatewayErr(err, "failed to wait for token limit")
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", classifyGatewayErr(err, "failed to wait for request limit")
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{
			{Text: prompt},
			{InlineData: &dto.InlineData{MimeType: image.MimeType, Data: image.Base64()}},
		}}},
		GenerationConfig: &dto.GenerationConfig{Temperature: r.cfg.Model.Temperature},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Model.BaseURL, r.cfg.Model.Name, r.cfg.Model.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return "", classifyGatewayErr(err, "failed to send request to Gemini API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return "", dto.NewError(dto.ErrGatewayError, fmt.Sprintf("received non-OK response from Gemini API: %d", resp.StatusCode))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return "", dto.WrapError(dto.ErrGatewayError, "failed to decode Gemini response body", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", dto.NewError(dto.ErrGatewayError, "invalid response from Gemini API: no content found")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
