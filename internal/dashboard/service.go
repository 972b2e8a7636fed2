package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/HaroldK3/Student-Tracker/internal/cache"
)

const cacheKey = "dashboard:metrics"

type Service interface {
	Metrics(ctx context.Context) (*Metrics, error)
}

type service struct {
	repo   Repository
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds the dashboard service. A nil cache or a non-positive ttl
// disables caching.
func NewService(repo Repository, c cache.Cache, ttl time.Duration, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		cache:  c,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Metrics(ctx context.Context) (*Metrics, error) {
	if s.cachingEnabled() {
		var cached Metrics
		err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.WarnContext(ctx, "dashboard cache read failed", "error", err)
		}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	m, err := s.repo.Collect(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	m.GeneratedAtUtc = now

	if s.cachingEnabled() {
		if err := s.cache.SetJSON(ctx, cacheKey, m, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "dashboard cache write failed", "error", err)
		}
	}
	return m, nil
}

func (s *service) cachingEnabled() bool {
	return s.cache != nil && s.ttl > 0
}
