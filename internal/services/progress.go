package services

import (
	"context"
	"errors"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/sirupsen/logrus"
)

// ProgressCache stores serialized progress summaries per user.
// *database.Cache satisfies it.
type ProgressCache interface {
	CacheProgress(ctx context.Context, userID uint, summary interface{}, expiration time.Duration) error
	GetCachedProgress(ctx context.Context, userID uint, out interface{}) error
	InvalidateProgress(ctx context.Context, userID uint) error
}

type ProgressService struct {
	interactions models.InteractionRepository
	analyzer     *tutor.Analyzer
	cache        ProgressCache
	ttl          time.Duration
	logger       *logrus.Logger
}

// NewProgressService builds the service. A nil cache disables caching.
func NewProgressService(
	interactions models.InteractionRepository,
	analyzer *tutor.Analyzer,
	cache ProgressCache,
	ttl time.Duration,
	logger *logrus.Logger,
) *ProgressService {
	return &ProgressService{
		interactions: interactions,
		analyzer:     analyzer,
		cache:        cache,
		ttl:          ttl,
		logger:       logger,
	}
}

// Summary returns the user's progress summary, reading through the cache.
// Cache failures are logged and never fail the request.
func (s *ProgressService) Summary(ctx context.Context, userID uint) (tutor.ProgressSummary, error) {
	if s.cache != nil {
		var cached tutor.ProgressSummary
		err := s.cache.GetCachedProgress(ctx, userID, &cached)
		if err == nil {
			return withDefaults(cached), nil
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to read cached progress")
		}
	}

	recent, err := s.interactions.RecentByUser(ctx, userID, s.analyzer.Window())
	if err != nil {
		return tutor.ProgressSummary{}, apperr.Persistence("failed to load interaction history", err)
	}
	summary := s.analyzer.Analyze(toRecords(recent))

	if s.cache != nil {
		if err := s.cache.CacheProgress(ctx, userID, summary, s.ttl); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to cache progress")
		}
	}

	return summary, nil
}

// Invalidate drops the cached summary after the user's history changed.
func (s *ProgressService) Invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProgress(ctx, userID); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate cached progress")
	}
}

// withDefaults restores empty collections that JSON may have dropped.
func withDefaults(summary tutor.ProgressSummary) tutor.ProgressSummary {
	if summary.MasteryScores == nil {
		summary.MasteryScores = map[string]float64{}
	}
	if summary.PreferredTopics == nil {
		summary.PreferredTopics = []string{}
	}
	return summary
}
