package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenLimiter enforces a per-minute token budget for AI API calls.
type TokenLimiter struct {
	limiter *rate.Limiter
	max     int
}

// NewTokenLimiter creates a limiter that refills maxPerMinute tokens per minute.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(maxPerMinute)/60.0), maxPerMinute),
		max:     maxPerMinute,
	}
}

// Wait blocks until the given number of tokens is available or ctx is done.
// Requests larger than the burst are capped so they remain satisfiable.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if tokens > t.max {
		tokens = t.max
	}
	return t.limiter.WaitN(ctx, tokens)
}

// GetRemaining reports the tokens currently available.
func (t *TokenLimiter) GetRemaining() int {
	return int(t.limiter.Tokens())
}
