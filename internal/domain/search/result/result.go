package result

import "github.com/glowcast/searchd/internal/domain/document"

// Result is a single scored pairing of a query to a document. Rows are
// created once at retrieval time and never updated; they belong to their
// query and are removed with it.
type Result struct {
	id           string
	queryID      string
	documentID   string
	document     document.Document
	score        float64
	rankPosition int // 1-based, unique per query
	createdAt    int64
}

// New creates a search result.
func New(
	id, queryID string, doc document.Document,
	score float64, rankPosition int, createdAt int64,
) Result {
	return Result{
		id: id, queryID: queryID, documentID: doc.ID(), document: doc,
		score: score, rankPosition: rankPosition, createdAt: createdAt,
	}
}

// ID returns the result row identifier.
func (r *Result) ID() string { return r.id }

// QueryID returns the owning query.
func (r *Result) QueryID() string { return r.queryID }

// DocumentID returns the matched document identifier.
func (r *Result) DocumentID() string { return r.documentID }

// Document returns the denormalized document snapshot.
func (r *Result) Document() *document.Document { return &r.document }

// Score returns the relevance score (strategy-dependent scale).
func (r *Result) Score() float64 { return r.score }

// RankPosition returns the 1-based position in the final ordered list.
func (r *Result) RankPosition() int { return r.rankPosition }

// CreatedAt returns the creation time in unix millis.
func (r *Result) CreatedAt() int64 { return r.createdAt }
