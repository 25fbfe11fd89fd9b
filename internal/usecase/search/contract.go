package search

import (
	"context"

	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/search/query"
	"github.com/glowcast/searchd/internal/domain/search/result"
)

// DocumentReader enumerates search candidates.
type DocumentReader interface {
	List(ctx context.Context) ([]domdoc.Document, error)
}

// QueryLog persists the search audit trail.
type QueryLog interface {
	CreateQuery(ctx context.Context, q *query.Query) error
	FinishQuery(ctx context.Context, id string, resultsCount int, responseTimeMs int64) error
	InsertResults(ctx context.Context, results []result.Result) error
}

// Suggester proposes related query strings (an external LLM collaborator).
type Suggester interface {
	Suggest(ctx context.Context, queryText string, n int) ([]string, error)
}
