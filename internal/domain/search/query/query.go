// Package query holds the immutable search audit record. A row is written
// when a search starts and updated exactly once with its final result count
// and elapsed time; it is never mutated again.
package query

import (
	"github.com/glowcast/searchd/internal/domain/search/filter"
	"github.com/glowcast/searchd/internal/domain/search/mode"
)

// Query is one user search event.
type Query struct {
	id             string
	userID         string
	queryText      string
	mode           mode.Mode
	filters        filter.Filter
	resultsCount   int
	responseTimeMs int64
	createdAt      int64 // unix millis
}

// New creates a Query at the start of a search call, before retrieval.
func New(id, userID, queryText string, m mode.Mode, filters filter.Filter, createdAt int64) Query {
	return Query{
		id: id, userID: userID, queryText: queryText,
		mode: m, filters: filters, createdAt: createdAt,
	}
}

// Reconstruct creates a Query from storage.
func Reconstruct(
	id, userID, queryText string, m mode.Mode, filters filter.Filter,
	resultsCount int, responseTimeMs, createdAt int64,
) Query {
	return Query{
		id: id, userID: userID, queryText: queryText, mode: m, filters: filters,
		resultsCount: resultsCount, responseTimeMs: responseTimeMs, createdAt: createdAt,
	}
}

// ID returns the query identifier.
func (q *Query) ID() string { return q.id }

// UserID returns the issuing user, empty for anonymous searches.
func (q *Query) UserID() string { return q.userID }

// Text returns the query text.
func (q *Query) Text() string { return q.queryText }

// Mode returns the strategy used.
func (q *Query) Mode() mode.Mode { return q.mode }

// Filters returns the structured predicate.
func (q *Query) Filters() filter.Filter { return q.filters }

// ResultsCount returns the final result count.
func (q *Query) ResultsCount() int { return q.resultsCount }

// ResponseTimeMs returns the elapsed wall-clock time.
func (q *Query) ResponseTimeMs() int64 { return q.responseTimeMs }

// CreatedAt returns the creation time in unix millis.
func (q *Query) CreatedAt() int64 { return q.createdAt }
