// Package searchd is the embedded entry point to the search service:
// document indexing, hybrid search with rank fusion, and query analytics
// for in-process consumers.
package searchd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/glowcast/searchd/internal/db"
	dbredis "github.com/glowcast/searchd/internal/db/redis"
	"github.com/glowcast/searchd/internal/domain"
	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/document/patch"
	domfilter "github.com/glowcast/searchd/internal/domain/search/filter"
	"github.com/glowcast/searchd/internal/domain/search/mode"
	"github.com/glowcast/searchd/internal/domain/search/request"
	"github.com/glowcast/searchd/internal/metrics"
	documentrepo "github.com/glowcast/searchd/internal/repository/document"
	"github.com/glowcast/searchd/internal/repository/embcache"
	"github.com/glowcast/searchd/internal/repository/querylog"
	analyticsuc "github.com/glowcast/searchd/internal/usecase/analytics"
	documentuc "github.com/glowcast/searchd/internal/usecase/document"
	searchuc "github.com/glowcast/searchd/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "searchd:"
	defaultVectorDim        = 256
	defaultMaxPageSize      = 100
	defaultAnalyticsTTL     = time.Minute
)

// Embedder vectorizes text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries an embedding and its token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Suggester proposes related query strings.
type Suggester interface {
	Suggest(ctx context.Context, queryText string, n int) ([]string, error)
}

// Client is the searchd SDK entry point.
type Client struct {
	store     db.Store
	pool      *pgxpool.Pool
	queryLog  *querylog.Repo
	documents *documentuc.Service
	search    *searchuc.Service
	analytics *analyticsuc.Service

	maxPageSize int
}

// New creates a Client and connects to both backing stores. Redis holds
// the indexed documents; Postgres holds the query audit trail.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        defaultKeyPrefix,
		vectorDimensions: defaultVectorDim,
		fusionSemantic:   searchuc.DefaultFusionWeights.Semantic,
		fusionKeyword:    searchuc.DefaultFusionWeights.Keyword,
		analyticsTTL:     defaultAnalyticsTTL,
		maxPageSize:      defaultMaxPageSize,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.redisAddrs) == 0 {
		return nil, errors.New("searchd: redis address required (use WithRedis)")
	}
	if cfg.postgresDSN == "" {
		return nil, errors.New("searchd: postgres DSN required (use WithPostgres)")
	}

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.redisAddrs,
		Password: cfg.redisPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("searchd: create document store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchd: document store not ready: %w", err)
	}

	pool, err := querylog.Connect(ctx, cfg.postgresDSN)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("searchd: connect audit log: %w", err)
	}
	queryLog := querylog.New(pool)
	if err := queryLog.EnsureSchema(ctx); err != nil {
		store.Close()
		pool.Close()
		return nil, fmt.Errorf("searchd: ensure audit schema: %w", err)
	}

	c := wireClient(store, queryLog, cfg)
	c.pool = pool
	return c, nil
}

func wireClient(store db.Store, queryLog *querylog.Repo, cfg *clientConfig) *Client {
	metrics.RegisterEmbeddingMetrics()

	var embedder domain.Embedder = domain.NewLocalEmbedder(cfg.vectorDimensions)
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}
	embedder = embcache.New(
		embedder, store, cfg.keyPrefix, 24*time.Hour,
		metrics.EmbeddingCacheTotal, cfg.logger,
	)

	docRepo := documentrepo.New(store, cfg.keyPrefix)
	docSvc := documentuc.New(docRepo, embedder, cfg.vectorDimensions, cfg.logger)

	searchSvc := searchuc.New(docRepo, queryLog, cfg.logger).
		WithFusionWeights(searchuc.FusionWeights{
			Semantic: cfg.fusionSemantic,
			Keyword:  cfg.fusionKeyword,
		})
	if cfg.suggester != nil {
		searchSvc = searchSvc.WithSuggester(cfg.suggester)
	}

	analyticsSvc := analyticsuc.New(queryLog, store, cfg.keyPrefix, cfg.analyticsTTL, cfg.logger)

	return &Client{
		store:       store,
		queryLog:    queryLog,
		documents:   docSvc,
		search:      searchSvc,
		analytics:   analyticsSvc,
		maxPageSize: cfg.maxPageSize,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks connectivity to both backing stores.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping document store: %w", err)
	}
	if err := c.queryLog.Ping(ctx); err != nil {
		return fmt.Errorf("ping audit log: %w", err)
	}
	return nil
}

// Document is an indexable item.
type Document struct {
	ID        string
	Type      string // "user", "file", "stream", "content"
	Title     string
	Content   string
	Keywords  []string
	Tags      []string
	Metadata  map[string]string
	UserID    string
	IsPublic  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentPatch is a partial document update. Nil fields are unchanged.
type DocumentPatch struct {
	Title    *string
	Content  *string
	Keywords *[]string
	Tags     *[]string
	Metadata *map[string]string
	IsPublic *bool
}

// IndexDocument creates or replaces a document. Returns true if created.
func (c *Client) IndexDocument(ctx context.Context, d Document) (bool, error) {
	doc, err := domdoc.New(
		d.ID, domdoc.Type(d.Type), d.Title, d.Content,
		d.Keywords, d.Tags, d.Metadata, d.UserID, d.IsPublic,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("index document: %w", err)
	}
	created, err := c.documents.Index(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("index document: %w", err)
	}
	return created, nil
}

// UpdateDocument applies a partial update and returns the stored document.
func (c *Client) UpdateDocument(ctx context.Context, id string, p DocumentPatch) (Document, error) {
	dp, err := patch.New(p.Title, p.Content, p.Keywords, p.Tags, p.Metadata, p.IsPublic)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	doc, err := c.documents.Update(ctx, id, dp)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	return fromDomainDocument(&doc), nil
}

// GetDocument retrieves a document by ID.
func (c *Client) GetDocument(ctx context.Context, id string) (Document, error) {
	doc, err := c.documents.Get(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromDomainDocument(&doc), nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if err := c.documents.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// SearchMode names a retrieval strategy.
type SearchMode string

// Retrieval strategies.
const (
	ModeHybrid   SearchMode = "hybrid"
	ModeSemantic SearchMode = "semantic"
	ModeKeyword  SearchMode = "keyword"
)

// SearchFilters restricts the candidate set. Zero values impose nothing.
type SearchFilters struct {
	Types    []string
	Tags     []string
	UserID   string
	IsPublic *bool
	DateFrom int64 // unix millis, inclusive
	DateTo   int64
}

// SearchOptions configures a search call.
type SearchOptions struct {
	Mode    SearchMode
	Filters SearchFilters
	Limit   int
	Offset  int
	UserID  string // attributed in the audit trail
}

// FacetCount is one facet value with its result count.
type FacetCount struct {
	Value string
	Count int
}

// Facets summarizes the returned page by document type and tag.
type Facets struct {
	DocumentTypes []FacetCount
	Tags          []FacetCount
}

// SearchResult is one scored hit with its document snapshot.
type SearchResult struct {
	DocumentID   string
	Score        float64
	RankPosition int
	Document     Document
}

// SearchResponse is the outcome of one search call.
type SearchResponse struct {
	Results        []SearchResult
	Total          int
	QueryID        string
	ResponseTimeMs int64
	Suggestions    []string
	Facets         Facets
}

// Search executes a search query.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*SearchResponse, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	filters, err := toDomainFilters(opts.Filters)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	req, err := request.New(
		query, mode.Mode(opts.Mode), filters,
		opts.Limit, opts.Offset, c.maxPageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	resp, err := c.search.Search(ctx, &req, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromSearchResponse(resp), nil
}

// Suggestions asks the configured suggester for related queries.
// Returns an empty list when no suggester is configured or it fails.
func (c *Client) Suggestions(ctx context.Context, query string) []string {
	return c.search.SmartSuggestions(ctx, query)
}

// AnalyticsReport summarizes search activity over a trailing window.
type AnalyticsReport struct {
	TotalQueries      int
	AvgResponseTimeMs float64
	TopQueries        []QueryCount
	DailyVolume       []DayCount
	TopDocuments      []DocumentCount
	Days              int
	UserID            string
}

// QueryCount is a query string with its frequency.
type QueryCount struct {
	Query string
	Count int
}

// DayCount is a day ("YYYY-MM-DD") with its query volume.
type DayCount struct {
	Day   string
	Count int
}

// DocumentCount is a document with how often it appeared in results.
type DocumentCount struct {
	DocumentID string
	Title      string
	Count      int
}

// Analytics renders the usage report. Best-effort: failures yield an
// empty report.
func (c *Client) Analytics(ctx context.Context, userID string, days int) AnalyticsReport {
	r := c.analytics.Report(ctx, userID, days)

	report := AnalyticsReport{
		TotalQueries:      r.TotalQueries,
		AvgResponseTimeMs: r.AvgResponseTimeMs,
		Days:              r.Days,
		UserID:            r.UserID,
	}
	for _, q := range r.TopQueries {
		report.TopQueries = append(report.TopQueries, QueryCount{Query: q.Query, Count: q.Count})
	}
	for _, d := range r.DailyVolume {
		report.DailyVolume = append(report.DailyVolume, DayCount{Day: d.Day, Count: d.Count})
	}
	for _, d := range r.TopDocuments {
		report.TopDocuments = append(report.TopDocuments,
			DocumentCount{DocumentID: d.DocumentID, Title: d.Title, Count: d.Count})
	}
	return report
}

// DeleteQuery removes an audit row and its persisted results.
func (c *Client) DeleteQuery(ctx context.Context, id string) error {
	if err := c.queryLog.DeleteQuery(ctx, id); err != nil {
		return fmt.Errorf("delete query: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func toDomainFilters(f SearchFilters) (domfilter.Filter, error) {
	types := make([]domdoc.Type, 0, len(f.Types))
	for _, t := range f.Types {
		types = append(types, domdoc.Type(t))
	}
	return domfilter.New(types, f.Tags, f.UserID, f.IsPublic, f.DateFrom, f.DateTo)
}

func fromDomainDocument(doc *domdoc.Document) Document {
	return Document{
		ID:        doc.ID(),
		Type:      string(doc.DocType()),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Keywords:  doc.Keywords(),
		Tags:      doc.Tags(),
		Metadata:  doc.Metadata(),
		UserID:    doc.UserID(),
		IsPublic:  doc.IsPublic(),
		CreatedAt: time.UnixMilli(doc.CreatedAt()).UTC(),
		UpdatedAt: time.UnixMilli(doc.UpdatedAt()).UTC(),
	}
}

func fromSearchResponse(resp *searchuc.Response) *SearchResponse {
	out := &SearchResponse{
		Total:          resp.Total,
		QueryID:        resp.QueryID,
		ResponseTimeMs: resp.ResponseTimeMs,
		Suggestions:    resp.Suggestions,
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		out.Results = append(out.Results, SearchResult{
			DocumentID:   r.DocumentID(),
			Score:        r.Score(),
			RankPosition: r.RankPosition(),
			Document:     fromDomainDocument(r.Document()),
		})
	}
	for _, fc := range resp.Facets.DocumentTypes() {
		out.Facets.DocumentTypes = append(out.Facets.DocumentTypes,
			FacetCount{Value: fc.Value(), Count: fc.Count()})
	}
	for _, fc := range resp.Facets.Tags() {
		out.Facets.Tags = append(out.Facets.Tags,
			FacetCount{Value: fc.Value(), Count: fc.Count()})
	}
	return out
}
