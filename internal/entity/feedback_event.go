package entity

import "time"

// Outcome values accepted by the feedback ledger.
const (
	OutcomeWin  = "WIN"
	OutcomeLose = "LOSE"
)

// FeedbackEvent is a single outcome report submitted by a caller. Events are
// immutable once stored; the only destructive operation is a full ledger purge.
type FeedbackEvent struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Timestamp       int64     `json:"timestamp"`
	Page            *string   `json:"page,omitempty"`
	Outcome         string    `json:"outcome"`
	Signal          *string   `json:"signal,omitempty"`
	Confidence      *int      `json:"confidence,omitempty"`
	Reason          *string   `json:"reason,omitempty"`
	Asset           *string   `json:"asset,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (FeedbackEvent) TableName() string {
	return "feedback_events"
}
