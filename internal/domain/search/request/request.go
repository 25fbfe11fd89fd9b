package request

import (
	"fmt"
	"strings"

	"github.com/glowcast/searchd/internal/domain/search/filter"
	"github.com/glowcast/searchd/internal/domain/search/mode"
)

// Request is a validated search request.
type Request struct {
	query   string
	mode    mode.Mode
	filters filter.Filter
	limit   int
	offset  int
}

// New validates and creates a Request.
// An empty mode defaults to semantic; limit defaults to 20, capped at maxLimit.
func New(query string, m mode.Mode, filters filter.Filter, limit, offset, maxLimit int) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if m == "" {
		m = mode.Default
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("unsupported search mode %q", m)
	}
	if limit <= 0 {
		limit = 20
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("offset must not be negative")
	}

	return Request{query: query, mode: m, filters: filters, limit: limit, offset: offset}, nil
}

// Query returns the query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.mode }

// Filters returns the structured predicate.
func (r *Request) Filters() filter.Filter { return r.filters }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the pagination offset.
func (r *Request) Offset() int { return r.offset }
