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
)

type openaiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates an AIRepository backed by the OpenAI chat
// completions API, with the chart passed as a base64 data URI.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Model.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Model.MaxTokenPerMinute)

	return &openaiAIRepository{
		client: &http.Client{
			Timeout: cfg.Model.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}
}

func (r *openaiAIRepository) AnalyzeChart(ctx context.Context, prompt string, image *dto.EncodedImage) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", classifyGatewayErr(err, "failed to wait for request limit")
	}

	payload := dto.OpenAPIReq{
		Model: r.cfg.Model.Name,
		Messages: []dto.Message{
			{
				Role: "user",
				Content: []dto.ContentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &dto.ImageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", image.MimeType, image.Base64()),
					}},
				},
			},
		},
		Temperature: r.cfg.Model.Temperature,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.cfg.Model.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.Model.APIKey))

	r.logger.Debug("Sending request to OpenAI API", logger.StringField("url", r.cfg.Model.BaseURL), logger.StringField("model", r.cfg.Model.Name))

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to OpenAI API", logger.ErrorField(err))
		return "", classifyGatewayErr(err, "failed to send request to OpenAI API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from OpenAI API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(body)),
		)
		return "", dto.NewError(dto.ErrGatewayError, fmt.Sprintf("received non-OK response from OpenAI API: %d", resp.StatusCode))
	}

	var openaiResp dto.OpenAPIRes
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return "", dto.WrapError(dto.ErrGatewayError, "failed to decode OpenAI response body", err)
	}

	if openaiResp.Usage.TotalTokens > r.cfg.Model.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	if err := r.tokenLimiter.Wait(ctx, openaiResp.Usage.TotalTokens); err != nil {
		return "", classifyGatewayErr(err, "failed to wait for token limit")
	}

	if len(openaiResp.Choices) == 0 || len(openaiResp.Choices[0].Message.Content) == 0 {
		return "", dto.NewError(dto.ErrGatewayError, "invalid response from OpenAI API: no content found")
	}

	return openaiResp.Choices[0].Message.Content, nil
}
