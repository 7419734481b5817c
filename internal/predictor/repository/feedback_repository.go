package repository

import (
	"context"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/entity"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"

	"gorm.io/gorm"
)

// FeedbackRepository defines the interface for the append-only feedback
// event store.
type FeedbackRepository interface {
	Create(ctx context.Context, event *entity.FeedbackEvent) error
	Stats(ctx context.Context) (*dto.FeedbackStats, error)
	DeleteAll(ctx context.Context) error
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{
		db: db,
	}
}

type feedbackRepository struct {
	db *gorm.DB
}

// Create appends a new feedback event. The store assigns the identifier.
func (r *feedbackRepository) Create(ctx context.Context, event *entity.FeedbackEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Stats aggregates all counters in a single query so readers always observe
// a consistent snapshot, even while writes are in flight.
func (r *feedbackRepository) Stats(ctx context.Context) (*dto.FeedbackStats, error) {
	var stats dto.FeedbackStats
	err := r.db.WithContext(ctx).Raw(`
	SELECT
		COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) AS win,
		COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) AS lose
	FROM feedback_events
`, entity.OutcomeWin, entity.OutcomeLose).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// DeleteAll purges every event inside a transaction: either all rows are
// removed or none are.
func (r *feedbackRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM feedback_events").Error
	})
}
