package document

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/glowcast/searchd/internal/domain"
	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/document/patch"
)

type mockRepo struct {
	saveFn   func(ctx context.Context, doc *domdoc.Document) (bool, error)
	getFn    func(ctx context.Context, id string) (domdoc.Document, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockRepo) Save(ctx context.Context, doc *domdoc.Document) (bool, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, doc)
	}
	return true, nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domdoc.Document{}, domain.ErrDocumentNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

func mustDoc(t *testing.T, id string, dt domdoc.Type, title string) domdoc.Document {
	t.Helper()
	doc, err := domdoc.New(id, dt, title, "body", []string{"kw"}, nil, nil, "user-1", true, 1000)
	if err != nil {
		t.Fatalf("document.New() error = %v", err)
	}
	return doc
}

func TestIndex_CreatesWithEmbedding(t *testing.T) {
	var saved *domdoc.Document
	repo := &mockRepo{saveFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
		saved = doc
		return true, nil
	}}
	svc := New(repo, &mockEmbedder{}, 3, zap.NewNop())

	created, err := svc.Index(context.Background(), mustDoc(t, "d1", domdoc.TypeContent, "Title"))
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if !created {
		t.Error("expected created = true for a new document")
	}
	if saved == nil || len(saved.Embedding()) != 3 {
		t.Fatalf("expected a 3-dim embedding on the stored document")
	}
	if saved.CreatedAt() == 0 || saved.UpdatedAt() == 0 {
		t.Error("expected timestamps to be set")
	}
}

func TestIndex_EmbeddingFailureDegrades(t *testing.T) {
	var saved *domdoc.Document
	repo := &mockRepo{saveFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
		saved = doc
		return true, nil
	}}
	embedder := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}}
	svc := New(repo, embedder, 3, zap.NewNop())

	if _, err := svc.Index(context.Background(), mustDoc(t, "d1", domdoc.TypeContent, "Title")); err != nil {
		t.Fatalf("embedding failure must not fail indexing, got %v", err)
	}
	if saved == nil {
		t.Fatal("document was not stored")
	}
	if len(saved.Embedding()) != 0 {
		t.Error("expected no embedding on degraded ingest")
	}
}

func TestIndex_ReplaceEmbedFailureDropsOldVector(t *testing.T) {
	existing := mustDoc(t, "d1", domdoc.TypeContent, "Title").
		WithEmbedding([]float32{0.5, 0.5, 0.5})

	var saved *domdoc.Document
	repo := &mockRepo{
		getFn: func(context.Context, string) (domdoc.Document, error) {
			return existing, nil
		},
		saveFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
			saved = doc
			return false, nil
		},
	}
	embedder := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}}
	svc := New(repo, embedder, 3, zap.NewNop())

	if _, err := svc.Index(context.Background(), mustDoc(t, "d1", domdoc.TypeContent, "Title")); err != nil {
		t.Fatalf("embedding failure must not fail re-indexing, got %v", err)
	}
	if saved == nil {
		t.Fatal("document was not stored")
	}
	if len(saved.Embedding()) != 0 {
		t.Errorf("stale vector carried into the replacement: %v", saved.Embedding())
	}
}

func TestIndex_DimensionMismatch(t *testing.T) {
	embedder := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
	}}
	svc := New(&mockRepo{}, embedder, 3, zap.NewNop())

	_, err := svc.Index(context.Background(), mustDoc(t, "d1", domdoc.TypeContent, "Title"))
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestIndex_ReplacePreservesCreatedAt(t *testing.T) {
	existing := domdoc.Reconstruct(
		"d1", domdoc.TypeContent, "Old", "old body", nil, nil, nil, nil, "user-1", true, 500, 500,
	)
	var saved *domdoc.Document
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (domdoc.Document, error) {
			return existing, nil
		},
		saveFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
			saved = doc
			return false, nil
		},
	}
	svc := New(repo, &mockEmbedder{}, 3, zap.NewNop())

	created, err := svc.Index(context.Background(), mustDoc(t, "d1", domdoc.TypeContent, "New Title"))
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if created {
		t.Error("expected created = false for a replace")
	}
	if saved.CreatedAt() != 500 {
		t.Errorf("replace must preserve created_at, got %d", saved.CreatedAt())
	}
	if saved.UpdatedAt() == 500 {
		t.Error("replace must bump updated_at")
	}
}

func TestIndex_TypeImmutable(t *testing.T) {
	repo := &mockRepo{getFn: func(_ context.Context, id string) (domdoc.Document, error) {
		return domdoc.Reconstruct(
			"d1", domdoc.TypeStream, "Old", "", nil, nil, nil, nil, "user-1", true, 500, 500,
		), nil
	}}
	svc := New(repo, &mockEmbedder{}, 3, zap.NewNop())

	_, err := svc.Index(context.Background(), mustDoc(t, "d1", domdoc.TypeContent, "New"))
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument for a type change, got %v", err)
	}
}

func TestUpdate_AppliesPatchAndRevectorizes(t *testing.T) {
	existing := domdoc.Reconstruct(
		"d1", domdoc.TypeContent, "Old Title", "old body", []string{"old"}, []string{"tag"},
		nil, []float32{0.9, 0.9, 0.9}, "user-1", true, 500, 500,
	)
	var saved *domdoc.Document
	var embedded string
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (domdoc.Document, error) {
			return existing, nil
		},
		saveFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
			saved = doc
			return false, nil
		},
	}
	embedder := &mockEmbedder{embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
		embedded = text
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
	}}
	svc := New(repo, embedder, 3, zap.NewNop())

	title := "New Title"
	p, err := patch.New(&title, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("patch.New() error = %v", err)
	}

	updated, err := svc.Update(context.Background(), "d1", p)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title() != "New Title" || updated.Content() != "old body" {
		t.Errorf("patched fields wrong: %s / %s", updated.Title(), updated.Content())
	}
	if updated.CreatedAt() != 500 {
		t.Errorf("update must preserve created_at, got %d", updated.CreatedAt())
	}
	if embedded == "" {
		t.Error("title change must trigger re-vectorization")
	}
	if saved == nil || saved.Embedding()[0] != 0.1 {
		t.Error("expected the fresh embedding on the stored document")
	}
}

func TestUpdate_NonTextPatchKeepsEmbedding(t *testing.T) {
	existing := domdoc.Reconstruct(
		"d1", domdoc.TypeContent, "Title", "body", nil, nil,
		nil, []float32{0.9, 0.8, 0.7}, "user-1", true, 500, 500,
	)
	embedCalled := false
	repo := &mockRepo{getFn: func(_ context.Context, id string) (domdoc.Document, error) {
		return existing, nil
	}}
	embedder := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		embedCalled = true
		return domain.EmbeddingResult{}, nil
	}}
	svc := New(repo, embedder, 3, zap.NewNop())

	public := false
	p, _ := patch.New(nil, nil, nil, nil, nil, &public)

	updated, err := svc.Update(context.Background(), "d1", p)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if embedCalled {
		t.Error("visibility change must not re-vectorize")
	}
	if updated.IsPublic() {
		t.Error("expected is_public = false")
	}
	if len(updated.Embedding()) != 3 || updated.Embedding()[0] != 0.9 {
		t.Error("expected the previous embedding to be kept")
	}
}

func TestUpdate_EmbeddingFailureKeepsPreviousVector(t *testing.T) {
	existing := domdoc.Reconstruct(
		"d1", domdoc.TypeContent, "Title", "body", nil, nil,
		nil, []float32{0.9, 0.8, 0.7}, "user-1", true, 500, 500,
	)
	repo := &mockRepo{getFn: func(_ context.Context, id string) (domdoc.Document, error) {
		return existing, nil
	}}
	embedder := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, errors.New("provider down")
	}}
	svc := New(repo, embedder, 3, zap.NewNop())

	content := "new body"
	p, _ := patch.New(nil, &content, nil, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "d1", p)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.Embedding()) != 3 || updated.Embedding()[0] != 0.9 {
		t.Error("expected the previous embedding on a degraded re-vectorization")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{}, 3, zap.NewNop())
	title := "x"
	p, _ := patch.New(&title, nil, nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), "missing", p)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestGetAndDelete_Passthrough(t *testing.T) {
	existing := domdoc.Reconstruct(
		"d1", domdoc.TypeContent, "Title", "", nil, nil, nil, nil, "user-1", true, 500, 500,
	)
	deleted := ""
	repo := &mockRepo{
		getFn: func(_ context.Context, id string) (domdoc.Document, error) {
			if id == "d1" {
				return existing, nil
			}
			return domdoc.Document{}, domain.ErrDocumentNotFound
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := New(repo, &mockEmbedder{}, 3, zap.NewNop())

	doc, err := svc.Get(context.Background(), "d1")
	if err != nil || doc.ID() != "d1" {
		t.Errorf("Get() = %v, %v", doc.ID(), err)
	}
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "d1"); err != nil || deleted != "d1" {
		t.Errorf("Delete() error = %v, deleted %q", err, deleted)
	}
}

func TestSearchableText(t *testing.T) {
	doc := domdoc.Reconstruct(
		"d1", domdoc.TypeContent, "Title", "Body", []string{"a", "b"}, nil,
		nil, nil, "u", true, 0, 0,
	)
	got := searchableText(&doc)
	want := "Title\nBody\na b"
	if got != want {
		t.Errorf("searchableText() = %q, want %q", got, want)
	}
}
