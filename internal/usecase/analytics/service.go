// Package analytics renders search usage reports from the persisted
// query audit trail.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glowcast/searchd/internal/domain/analytics"
)

const (
	// DefaultWindowDays is the report window when none is requested.
	DefaultWindowDays = 30
	// MaxWindowDays bounds the report window.
	MaxWindowDays = 365
	// topN is how many top queries / documents the report lists.
	topN = 10
)

// Service aggregates the audit trail into reports, caching rendered
// reports for a short TTL. Reporting is best-effort: aggregation or
// cache failures yield an empty report, never an error to the caller.
type Service struct {
	reader    Reader
	cache     ReportCache
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an analytics service. cache may be nil to disable caching.
func New(reader Reader, cache ReportCache, keyPrefix string, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		reader:    reader,
		cache:     cache,
		keyPrefix: keyPrefix + "analytics:",
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// Report renders the usage report for the trailing window. days <= 0
// falls back to the default window; userID "" aggregates all users.
func (s *Service) Report(ctx context.Context, userID string, days int) analytics.Report {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if days > MaxWindowDays {
		days = MaxWindowDays
	}

	key := s.cacheKey(userID, days)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached
	}

	report, err := s.aggregate(ctx, userID, days)
	if err != nil {
		s.logger.Warn("analytics aggregation failed",
			zap.String("user_id", userID), zap.Int("days", days), zap.Error(err))
		return analytics.Empty(userID, days)
	}

	s.toCache(ctx, key, report)
	return report
}

func (s *Service) aggregate(ctx context.Context, userID string, days int) (analytics.Report, error) {
	since := s.now().AddDate(0, 0, -days)

	total, err := s.reader.CountQueries(ctx, userID, since)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("count queries: %w", err)
	}

	avg, err := s.reader.AvgResponseTimeMs(ctx, userID, since)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("avg response time: %w", err)
	}

	top, err := s.reader.TopQueries(ctx, userID, since, topN)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("top queries: %w", err)
	}

	daily, err := s.reader.DailyVolume(ctx, userID, since)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("daily volume: %w", err)
	}

	docs, err := s.reader.TopDocuments(ctx, userID, since, topN)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("top documents: %w", err)
	}

	return analytics.Report{
		TotalQueries:      total,
		AvgResponseTimeMs: avg,
		TopQueries:        top,
		DailyVolume:       daily,
		TopDocuments:      docs,
		Days:              days,
		UserID:            userID,
	}, nil
}

func (s *Service) cacheKey(userID string, days int) string {
	if userID == "" {
		userID = "_all"
	}
	return fmt.Sprintf("%s%s:%d", s.keyPrefix, userID, days)
}

func (s *Service) fromCache(ctx context.Context, key string) (analytics.Report, bool) {
	if s.cache == nil {
		return analytics.Report{}, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return analytics.Report{}, false
	}
	var report analytics.Report
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.Warn("corrupt cached report", zap.String("key", key), zap.Error(err))
		return analytics.Report{}, false
	}
	return report, true
}

func (s *Service) toCache(ctx context.Context, key string, report analytics.Report) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
