package search

import (
	"context"

	"go.uber.org/zap"

	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/search/filter"
	"github.com/glowcast/searchd/internal/domain/search/mode"
	"github.com/glowcast/searchd/internal/domain/search/query"
	"github.com/glowcast/searchd/internal/domain/search/request"
	"github.com/glowcast/searchd/internal/domain/search/result"
)

type mockDocs struct {
	listFn func(ctx context.Context) ([]domdoc.Document, error)
}

func (m *mockDocs) List(ctx context.Context) ([]domdoc.Document, error) {
	return m.listFn(ctx)
}

type mockQueryLog struct {
	createFn func(ctx context.Context, q *query.Query) error
	finishFn func(ctx context.Context, id string, resultsCount int, responseTimeMs int64) error
	insertFn func(ctx context.Context, results []result.Result) error
}

func (m *mockQueryLog) CreateQuery(ctx context.Context, q *query.Query) error {
	if m.createFn != nil {
		return m.createFn(ctx, q)
	}
	return nil
}

func (m *mockQueryLog) FinishQuery(ctx context.Context, id string, resultsCount int, responseTimeMs int64) error {
	if m.finishFn != nil {
		return m.finishFn(ctx, id, resultsCount, responseTimeMs)
	}
	return nil
}

func (m *mockQueryLog) InsertResults(ctx context.Context, results []result.Result) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, results)
	}
	return nil
}

type mockSuggester struct {
	suggestFn func(ctx context.Context, queryText string, n int) ([]string, error)
}

func (m *mockSuggester) Suggest(ctx context.Context, queryText string, n int) ([]string, error) {
	return m.suggestFn(ctx, queryText, n)
}

func newTestService(docs []domdoc.Document) *Service {
	reader := &mockDocs{listFn: func(context.Context) ([]domdoc.Document, error) {
		out := make([]domdoc.Document, len(docs))
		copy(out, docs)
		return out, nil
	}}
	return New(reader, &mockQueryLog{}, zap.NewNop())
}

func testDoc(id string, dt domdoc.Type, title, content string, keywords, tags []string) domdoc.Document {
	return domdoc.Reconstruct(
		id, dt, title, content, keywords, tags, nil, nil, "user-1", true, 1000, 1000,
	)
}

// demoDocs is the three-document corpus used by the keyword and hybrid
// ranking scenarios.
func demoDocs() []domdoc.Document {
	return []domdoc.Document{
		testDoc("doc-1", domdoc.TypeStream, "Live Demo Setup", "how to set up a live demo", []string{"demo", "setup"}, nil),
		testDoc("doc-2", domdoc.TypeContent, "Organic Farming", "growing vegetables", []string{"organic"}, nil),
		testDoc("doc-3", domdoc.TypeContent, "Demo Day Recap", "recap of demo day", []string{"demo", "recap"}, nil),
	}
}

func mustRequest(queryText string, m mode.Mode, limit, offset int) *request.Request {
	req, err := request.New(queryText, m, filter.Filter{}, limit, offset, 100)
	if err != nil {
		panic(err)
	}
	return &req
}
