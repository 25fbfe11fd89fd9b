package document

import (
	"context"
	"errors"
	"testing"

	"github.com/glowcast/searchd/internal/domain"
	domdoc "github.com/glowcast/searchd/internal/domain/document"
)

// --- Save ---

func TestSave_Create(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	doc := testDocument(t)

	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		if key != "searchd:doc:doc-1" {
			t.Errorf("unexpected key: %s", key)
		}
		return false, nil
	}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "searchd:doc:doc-1" {
			t.Errorf("unexpected key: %s", key)
		}
		if fields[fieldType] != "stream" {
			t.Errorf("unexpected type field: %s", fields[fieldType])
		}
		return nil
	}

	created, err := repo.Save(ctx, &doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for new doc")
	}
}

func TestSave_Replace(t *testing.T) {
	repo, ms := newTestRepo(t)
	doc := testDocument(t)

	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	var deleted bool
	ms.delFn = func(_ context.Context, _ string) error {
		deleted = true
		return nil
	}
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		if !deleted {
			t.Error("HSET issued before the old hash was dropped")
		}
		return nil
	}

	created, err := repo.Save(context.Background(), &doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false for existing doc")
	}
}

func TestSave_ReplaceClearsOptionalFields(t *testing.T) {
	ms := newMemStore()
	repo := New(ms, "searchd:")
	ctx := context.Background()

	full := testDocument(t)
	if _, err := repo.Save(ctx, &full); err != nil {
		t.Fatalf("save full document: %v", err)
	}

	bare, err := domdoc.New(
		"doc-1", domdoc.TypeStream, "Live Demo Setup", "re-recorded walkthrough",
		nil, nil, nil, "user-1", true, 1700000000000,
	)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}

	created, err := repo.Save(ctx, &bare)
	if err != nil {
		t.Fatalf("save bare document: %v", err)
	}
	if created {
		t.Fatal("expected created=false for existing doc")
	}

	got, err := repo.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if got.Content() != "re-recorded walkthrough" {
		t.Errorf("content not replaced: %q", got.Content())
	}
	if len(got.Keywords()) != 0 {
		t.Errorf("stale keywords survived replace: %v", got.Keywords())
	}
	if len(got.Tags()) != 0 {
		t.Errorf("stale tags survived replace: %v", got.Tags())
	}
	if len(got.Metadata()) != 0 {
		t.Errorf("stale metadata survived replace: %v", got.Metadata())
	}
	if len(got.Embedding()) != 0 {
		t.Errorf("stale embedding survived replace: %v", got.Embedding())
	}
}

// --- Get ---

func TestGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	doc := testDocument(t)
	fields := buildHashFields(&doc)

	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return fields, nil
	}

	got, err := repo.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title() != doc.Title() || got.DocType() != doc.DocType() {
		t.Errorf("round trip lost identity: %s/%s", got.Title(), got.DocType())
	}
	if len(got.Keywords()) != 2 || got.Keywords()[0] != "demo" {
		t.Errorf("round trip lost keywords: %v", got.Keywords())
	}
	if got.Metadata()["lang"] != "en" {
		t.Errorf("round trip lost metadata: %v", got.Metadata())
	}
	if len(got.Embedding()) != 3 || got.Embedding()[2] != 3.5 {
		t.Errorf("round trip lost embedding: %v", got.Embedding())
	}
	if !got.IsPublic() || got.UserID() != "user-1" {
		t.Error("round trip lost ownership flags")
	}
	if got.CreatedAt() != 1700000000000 {
		t.Errorf("round trip lost created_at: %d", got.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDelete_OK(t *testing.T) {
	repo, ms := newTestRepo(t)
	deleted := ""
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := repo.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "searchd:doc:doc-1" {
		t.Errorf("unexpected deleted key: %s", deleted)
	}
}

// --- List ---

func TestList(t *testing.T) {
	repo, ms := newTestRepo(t)
	doc := testDocument(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "searchd:doc:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"searchd:doc:doc-1", "searchd:doc:doc-2"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		return []map[string]string{
			buildHashFields(&doc),
			{}, // deleted between scan and fetch
		}, nil
	}

	docs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].ID() != "doc-1" {
		t.Errorf("key not mapped back to ID: %s", docs[0].ID())
	}
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e7}
	out := bytesToVector(vectorToBytes(in))
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %d != %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("element %d: %f != %f", i, in[i], out[i])
		}
	}
}

func TestParseHashFields_EmptyOptionalFields(t *testing.T) {
	doc := parseHashFields("x", map[string]string{
		fieldType:  string(domdoc.TypeUser),
		fieldTitle: "someone",
	})
	if doc.Keywords() != nil || doc.Tags() != nil || doc.Embedding() != nil {
		t.Error("absent optional fields should stay nil")
	}
}
