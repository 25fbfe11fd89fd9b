// Package querylog persists the search audit trail in Postgres: one row per
// query, one row per scored result. Rows are append-only; the only update is
// the single count/time finalization of a query row. All SQL uses bound
// parameters.
package querylog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowcast/searchd/internal/domain"
	"github.com/glowcast/searchd/internal/domain/analytics"
	"github.com/glowcast/searchd/internal/domain/search/query"
	"github.com/glowcast/searchd/internal/domain/search/result"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_queries (
	id               UUID PRIMARY KEY,
	user_id          TEXT NOT NULL DEFAULT '',
	query_text       TEXT NOT NULL,
	query_type       TEXT NOT NULL,
	filters          JSONB,
	results_count    INT NOT NULL DEFAULT 0,
	response_time_ms BIGINT,
	created_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS search_results (
	id              UUID PRIMARY KEY,
	query_id        UUID NOT NULL REFERENCES search_queries(id) ON DELETE CASCADE,
	document_id     TEXT NOT NULL,
	document        JSONB NOT NULL,
	relevance_score DOUBLE PRECISION NOT NULL,
	rank_position   INT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	UNIQUE (query_id, rank_position)
);

CREATE INDEX IF NOT EXISTS idx_search_queries_created_at ON search_queries (created_at);
CREATE INDEX IF NOT EXISTS idx_search_queries_user ON search_queries (user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_search_results_document ON search_results (document_id);
`

// Repo implements the search audit log and analytics reads over pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a query-log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Connect opens a pgx pool and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the audit tables if they do not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// CreateQuery writes the audit row at the start of a search call.
func (r *Repo) CreateQuery(ctx context.Context, q *query.Query) error {
	filters, err := marshalFilter(q.Filters())
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO search_queries (id, user_id, query_text, query_type, filters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID(), q.UserID(), q.Text(), string(q.Mode()), filters,
		time.UnixMilli(q.CreatedAt()).UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert query %s: %w", q.ID(), err)
	}
	return nil
}

// FinishQuery records the final count and elapsed time. It is the single
// permitted update to a query row.
func (r *Repo) FinishQuery(ctx context.Context, id string, resultsCount int, responseTimeMs int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE search_queries
		SET results_count = $2, response_time_ms = $3
		WHERE id = $1 AND response_time_ms IS NULL`,
		id, resultsCount, responseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("finish query %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQueryNotFound
	}
	return nil
}

// InsertResults writes one row per scored result in a single batch.
func (r *Repo) InsertResults(ctx context.Context, results []result.Result) error {
	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range results {
		res := &results[i]
		doc, err := marshalDocument(res.Document())
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", res.DocumentID(), err)
		}
		batch.Queue(`
			INSERT INTO search_results
				(id, query_id, document_id, document, relevance_score, rank_position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			res.ID(), res.QueryID(), res.DocumentID(), doc,
			res.Score(), res.RankPosition(), time.UnixMilli(res.CreatedAt()).UTC(),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert results: %w", err)
		}
	}
	return nil
}

// DeleteQuery removes a query row; its results cascade.
func (r *Repo) DeleteQuery(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM search_queries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQueryNotFound
	}
	return nil
}

// --- Analytics reads ---
// userID = "" means all users; since bounds the trailing window.

// CountQueries returns the query volume inside the window.
func (r *Repo) CountQueries(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM search_queries
		WHERE created_at >= $1 AND ($2 = '' OR user_id = $2)`,
		since, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count queries: %w", err)
	}
	return count, nil
}

// AvgResponseTimeMs averages recorded response times inside the window.
func (r *Repo) AvgResponseTimeMs(ctx context.Context, userID string, since time.Time) (float64, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx, `
		SELECT avg(response_time_ms) FROM search_queries
		WHERE created_at >= $1 AND ($2 = '' OR user_id = $2)
		  AND response_time_ms IS NOT NULL`,
		since, userID,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("avg response time: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// TopQueries returns the n most frequent query texts inside the window.
func (r *Repo) TopQueries(ctx context.Context, userID string, since time.Time, n int) ([]analytics.QueryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT query_text, count(*) AS freq FROM search_queries
		WHERE created_at >= $1 AND ($2 = '' OR user_id = $2)
		GROUP BY query_text
		ORDER BY freq DESC, query_text
		LIMIT $3`,
		since, userID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	defer rows.Close()

	var out []analytics.QueryCount
	for rows.Next() {
		var qc analytics.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scan top query: %w", err)
		}
		out = append(out, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top queries rows: %w", err)
	}
	return out, nil
}

// DailyVolume returns per-day query counts inside the window, newest first.
func (r *Repo) DailyVolume(ctx context.Context, userID string, since time.Time) ([]analytics.DayCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, count(*)
		FROM search_queries
		WHERE created_at >= $1 AND ($2 = '' OR user_id = $2)
		GROUP BY day
		ORDER BY day DESC`,
		since, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("daily volume: %w", err)
	}
	defer rows.Close()

	var out []analytics.DayCount
	for rows.Next() {
		var dc analytics.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily volume rows: %w", err)
	}
	return out, nil
}

// TopDocuments returns the n documents with the most result rows inside the
// window (a click/impression proxy).
func (r *Repo) TopDocuments(ctx context.Context, userID string, since time.Time, n int) ([]analytics.DocumentCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sr.document_id, coalesce(max(sr.document->>'title'), ''), count(*) AS hits
		FROM search_results sr
		JOIN search_queries sq ON sq.id = sr.query_id
		WHERE sr.created_at >= $1 AND ($2 = '' OR sq.user_id = $2)
		GROUP BY sr.document_id
		ORDER BY hits DESC, sr.document_id
		LIMIT $3`,
		since, userID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("top documents: %w", err)
	}
	defer rows.Close()

	var out []analytics.DocumentCount
	for rows.Next() {
		var dc analytics.DocumentCount
		if err := rows.Scan(&dc.DocumentID, &dc.Title, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan document count: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top documents rows: %w", err)
	}
	return out, nil
}
