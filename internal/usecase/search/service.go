// Package search implements the query executor: strategy dispatch over the
// document store, hybrid rank fusion, facet and suggestion generation, and
// the per-call audit trail.
//
// "Semantic" scoring is a tiered lexical heuristic standing in for vector
// similarity until a real embedding backend lands; the tiers are documented
// in score.go.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glowcast/searchd/internal/domain"
	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/search/facet"
	"github.com/glowcast/searchd/internal/domain/search/mode"
	"github.com/glowcast/searchd/internal/domain/search/query"
	"github.com/glowcast/searchd/internal/domain/search/request"
	"github.com/glowcast/searchd/internal/domain/search/result"
	"github.com/glowcast/searchd/internal/metrics"
)

// Response is the outcome of one search call.
type Response struct {
	Results        []result.Result
	Total          int
	QueryID        string
	ResponseTimeMs int64
	Suggestions    []string
	Facets         facet.Facets
}

// Service handles document search across semantic, keyword, and hybrid modes.
type Service struct {
	docs      DocumentReader
	log       QueryLog
	weights   FusionWeights
	suggester Suggester
	logger    *zap.Logger
}

// New creates a search service with the default fusion policy.
func New(docs DocumentReader, qlog QueryLog, logger *zap.Logger) *Service {
	return &Service{
		docs:    docs,
		log:     qlog,
		weights: DefaultFusionWeights,
		logger:  logger,
	}
}

// WithFusionWeights overrides the hybrid fusion policy.
func (s *Service) WithFusionWeights(w FusionWeights) *Service {
	if w.IsValid() {
		s.weights = w
	}
	return s
}

// WithSuggester attaches the LLM collaborator for smart suggestions.
func (s *Service) WithSuggester(sg Suggester) *Service {
	s.suggester = sg
	return s
}

// Search executes one search call: the audit row is written before
// retrieval so failed searches stay auditable, then the strategy runs,
// the page of results is persisted with contiguous rank positions, and
// the audit row is finalized with count and elapsed time. Facets and
// suggestions are derived from the returned page.
//
// Any failure inside the retrieval/audit core surfaces as
// domain.ErrSearchFailed; enhancement failures degrade instead.
func (s *Service) Search(ctx context.Context, req *request.Request, userID string) (*Response, error) {
	start := time.Now()
	queryID := uuid.NewString()

	q := query.New(queryID, userID, req.Query(), req.Mode(), req.Filters(), start.UnixMilli())
	if err := s.log.CreateQuery(ctx, &q); err != nil {
		return nil, s.searchFailed(req.Mode(), start, "persist query", err)
	}

	scored, err := s.retrieve(ctx, req)
	if err != nil {
		return nil, s.searchFailed(req.Mode(), start, "retrieve", err)
	}

	total := len(scored)
	page := paginate(scored, req.Offset(), req.Limit())

	results := make([]result.Result, len(page))
	for i, sd := range page {
		results[i] = result.New(
			uuid.NewString(), queryID, sd.doc, sd.score, i+1, time.Now().UnixMilli(),
		)
	}
	if err := s.log.InsertResults(ctx, results); err != nil {
		return nil, s.searchFailed(req.Mode(), start, "persist results", err)
	}

	elapsed := time.Since(start).Milliseconds()
	if err := s.log.FinishQuery(ctx, queryID, len(results), elapsed); err != nil {
		return nil, s.searchFailed(req.Mode(), start, "finalize query", err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "success").Inc()
	metrics.SearchDuration.WithLabelValues(string(req.Mode())).Observe(time.Since(start).Seconds())

	return &Response{
		Results:        results,
		Total:          total,
		QueryID:        queryID,
		ResponseTimeMs: elapsed,
		Suggestions:    buildSuggestions(req.Query(), results),
		Facets:         buildFacets(results),
	}, nil
}

// SmartSuggestions asks the LLM collaborator for related query strings.
// Failures (or a missing collaborator) degrade to an empty list; this path
// never influences Search itself.
func (s *Service) SmartSuggestions(ctx context.Context, queryText string) []string {
	if s.suggester == nil {
		return []string{}
	}
	suggestions, err := s.suggester.Suggest(ctx, queryText, maxSuggestions)
	if err != nil {
		s.logger.Warn("smart suggestions failed",
			zap.String("query", queryText), zap.Error(err))
		return []string{}
	}
	return suggestions
}

// retrieve dispatches to the strategy named by the request.
func (s *Service) retrieve(ctx context.Context, req *request.Request) ([]scoredDoc, error) {
	switch req.Mode() {
	case mode.Semantic:
		return s.evaluate(ctx, req, scoreSemantic)
	case mode.Keyword:
		return s.evaluate(ctx, req, scoreKeyword)
	case mode.Hybrid:
		return s.retrieveHybrid(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported search mode: %s", req.Mode())
	}
}

// evaluate runs one strategy: enumerate candidates, filter, score, order.
func (s *Service) evaluate(
	ctx context.Context, req *request.Request,
	score func(string, []domdoc.Document) []scoredDoc,
) ([]scoredDoc, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	// Filtering copies into a fresh slice: hybrid mode evaluates both
	// strategies concurrently and the reader may hand out shared slices.
	filters := req.Filters()
	candidates := make([]domdoc.Document, 0, len(docs))
	for i := range docs {
		if filters.Matches(&docs[i]) {
			candidates = append(candidates, docs[i])
		}
	}

	scored := score(req.Query(), candidates)
	sortByScore(scored)
	return scored, nil
}

// retrieveHybrid runs both sub-strategies concurrently and fuses them.
// The evaluations share only read access to the document store; fusion
// happens after both complete.
func (s *Service) retrieveHybrid(ctx context.Context, req *request.Request) ([]scoredDoc, error) {
	var semantic, keyword []scoredDoc

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		semantic, err = s.evaluate(gctx, req, scoreSemantic)
		return err
	})
	g.Go(func() error {
		var err error
		keyword, err = s.evaluate(gctx, req, scoreKeyword)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fuseWeighted(semantic, keyword, s.weights), nil
}

// searchFailed logs the underlying cause and returns the generic
// caller-facing error.
func (s *Service) searchFailed(m mode.Mode, start time.Time, stage string, err error) error {
	s.logger.Error("search failed",
		zap.String("mode", string(m)),
		zap.String("stage", stage),
		zap.Error(err),
	)
	metrics.SearchRequestsTotal.WithLabelValues(string(m), "error").Inc()
	metrics.SearchDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
	return fmt.Errorf("%s: %w", stage, domain.ErrSearchFailed)
}

// paginate slices the ordered candidate list by offset/limit.
func paginate(scored []scoredDoc, offset, limit int) []scoredDoc {
	if offset >= len(scored) {
		return nil
	}
	page := scored[offset:]
	if len(page) > limit {
		page = page[:limit]
	}
	return page
}
