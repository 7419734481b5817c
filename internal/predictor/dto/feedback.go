package dto

// FeedbackRequest is one outcome report submitted by a caller.
type FeedbackRequest struct {
	Timestamp       int64   `json:"timestamp"`
	Page            *string `json:"page,omitempty"`
	Outcome         string  `json:"outcome"`
	Signal          *string `json:"signal,omitempty"`
	Confidence      *int    `json:"confidence,omitempty"`
	Reason          *string `json:"reason,omitempty"`
	Asset           *string `json:"asset,omitempty"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
}

// FeedbackResetRequest carries the shared secret when it is sent in the body
// instead of the X-Reset-Secret header.
type FeedbackResetRequest struct {
	Secret string `json:"secret"`
}

// FeedbackStats holds the aggregate counters of the ledger.
type FeedbackStats struct {
	Total int64 `json:"total"`
	Win   int64 `json:"win"`
	Lose  int64 `json:"lose"`
}

// FeedbackStatsResponse is the stats endpoint response body.
type FeedbackStatsResponse struct {
	OK    bool  `json:"ok"`
	Total int64 `json:"total"`
	Win   int64 `json:"win"`
	Lose  int64 `json:"lose"`
}

// StatusResponse is the generic ok/error response body.
type StatusResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
