package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/entity"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/config"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/dto"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/internal/predictor/repository"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/logger"
	"github.com/miguelsilvamatos98-commits/msm-ia-api/pkg/telegram"
)

// FeedbackService owns the feedback ledger: append, aggregate stats and the
// password-gated purge.
type FeedbackService interface {
	Append(ctx context.Context, req *dto.FeedbackRequest) error
	Stats(ctx context.Context) (*dto.FeedbackStats, error)
	Reset(ctx context.Context, secret string) error
}

type feedbackService struct {
	cfg         *config.Config
	log         *logger.Logger
	repo        repository.FeedbackRepository
	telegramBot telegram.Notifier

	// writeMu serializes append and reset so a reset can never interleave
	// with an in-flight append. Stats reads a single-query snapshot and may
	// run concurrently with writes.
	writeMu sync.Mutex
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(cfg *config.Config, log *logger.Logger, repo repository.FeedbackRepository, telegramBot telegram.Notifier) FeedbackService {
	return &feedbackService{
		cfg:         cfg,
		log:         log,
		repo:        repo,
		telegramBot: telegramBot,
	}
}

// Append validates the outcome and durably stores the event. All other
// fields are stored as provided.
func (s *feedbackService) Append(ctx context.Context, req *dto.FeedbackRequest) error {
	outcome := strings.ToUpper(strings.TrimSpace(req.Outcome))
	if outcome != entity.OutcomeWin && outcome != entity.OutcomeLose {
		return dto.NewError(dto.ErrInvalidOutcome, "outcome must be WIN or LOSE")
	}

	event := &entity.FeedbackEvent{
		Timestamp:       req.Timestamp,
		Page:            req.Page,
		Outcome:         outcome,
		Signal:          req.Signal,
		Confidence:      req.Confidence,
		Reason:          req.Reason,
		Asset:           req.Asset,
		DurationSeconds: req.DurationSeconds,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Create(ctx, event); err != nil {
		s.log.Error("failed to append feedback event", logger.ErrorField(err))
		return fmt.Errorf("failed to append feedback event: %w", err)
	}
	return nil
}

// Stats returns the aggregate counters over all stored events.
func (s *feedbackService) Stats(ctx context.Context) (*dto.FeedbackStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.log.Error("failed to read feedback stats", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to read feedback stats: %w", err)
	}
	return stats, nil
}

// Reset purges the ledger when the credential matches the configured secret.
// An unset secret fails closed: the endpoint is permanently unauthorized.
func (s *feedbackService) Reset(ctx context.Context, secret string) error {
	if s.cfg.Reset.Secret == "" || secret != s.cfg.Reset.Secret {
		return dto.NewError(dto.ErrUnauthorized, "unauthorized")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.DeleteAll(ctx); err != nil {
		s.log.Error("failed to purge feedback ledger", logger.ErrorField(err))
		return fmt.Errorf("failed to purge feedback ledger: %w", err)
	}

	s.log.Info("feedback ledger purged")
	_ = s.telegramBot.SendMessage("msm-ia-api: feedback ledger purged")
	return nil
}
