package analytics

import (
	"context"
	"time"

	"github.com/glowcast/searchd/internal/domain/analytics"
)

// Reader aggregates the persisted query audit trail.
type Reader interface {
	CountQueries(ctx context.Context, userID string, since time.Time) (int, error)
	AvgResponseTimeMs(ctx context.Context, userID string, since time.Time) (float64, error)
	TopQueries(ctx context.Context, userID string, since time.Time, n int) ([]analytics.QueryCount, error)
	DailyVolume(ctx context.Context, userID string, since time.Time) ([]analytics.DayCount, error)
	TopDocuments(ctx context.Context, userID string, since time.Time, n int) ([]analytics.DocumentCount, error)
}

// ReportCache stores rendered reports for their TTL.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
