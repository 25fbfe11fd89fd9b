// Package document handles the indexing lifecycle: create/replace,
// partial update, retrieval, and deletion, with automatic vectorization
// at ingest.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/glowcast/searchd/internal/domain"
	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/document/patch"
)

// Service handles document CRUD with automatic vectorization.
type Service struct {
	repo      Repository
	embedder  domain.Embedder
	vectorDim int
	logger    *zap.Logger
	now       func() int64
}

// New creates a document service. vectorDim > 0 enforces the embedding
// dimensionality configured for the index.
func New(repo Repository, embedder domain.Embedder, vectorDim int, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		embedder:  embedder,
		vectorDim: vectorDim,
		logger:    logger,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Index creates or replaces a document, computing its embedding from the
// searchable text. An embedding provider failure degrades: the document
// is stored without a vector and stays findable by the lexical
// strategies. Returns true if the document was created, false if replaced.
func (s *Service) Index(ctx context.Context, doc domdoc.Document) (bool, error) {
	existing, err := s.repo.Get(ctx, doc.ID())
	switch {
	case err == nil:
		if existing.DocType() != doc.DocType() {
			return false, fmt.Errorf(
				"document type is immutable (%s -> %s): %w",
				existing.DocType(), doc.DocType(), domain.ErrInvalidDocument,
			)
		}
		doc = doc.WithTimestamps(existing.CreatedAt(), s.now())
	case isNotFound(err):
		now := s.now()
		doc = doc.WithTimestamps(now, now)
	default:
		return false, fmt.Errorf("check existing document: %w", err)
	}

	doc, err = s.vectorize(ctx, doc)
	if err != nil {
		return false, err
	}

	created, err := s.repo.Save(ctx, &doc)
	if err != nil {
		return false, fmt.Errorf("save document: %w", err)
	}
	return created, nil
}

// Update applies a partial update. The document type and owner are
// immutable. Text-affecting changes trigger re-vectorization; on provider
// failure the previous embedding is kept.
func (s *Service) Update(ctx context.Context, id string, p patch.Patch) (domdoc.Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}

	updated, err := applyPatch(existing, p)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("%s: %w", err, domain.ErrInvalidDocument)
	}
	updated = updated.WithTimestamps(existing.CreatedAt(), s.now())

	if p.AffectsText() {
		revectorized, embedErr := s.vectorize(ctx, updated)
		if embedErr != nil {
			return domdoc.Document{}, embedErr
		}
		if len(revectorized.Embedding()) > 0 {
			updated = revectorized
		} else {
			updated = updated.WithEmbedding(existing.Embedding())
		}
	} else {
		updated = updated.WithEmbedding(existing.Embedding())
	}

	if _, err := s.repo.Save(ctx, &updated); err != nil {
		return domdoc.Document{}, fmt.Errorf("save document: %w", err)
	}
	return updated, nil
}

// Get retrieves a document by ID.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document. Persisted search results keep their
// denormalized snapshot of it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// vectorize computes the embedding for the document's searchable text.
// Provider failures are logged and leave the document without a vector;
// a dimension mismatch is a configuration error and fails the call.
func (s *Service) vectorize(ctx context.Context, doc domdoc.Document) (domdoc.Document, error) {
	res, err := s.embedder.Embed(ctx, searchableText(&doc))
	if err != nil {
		s.logger.Warn("embedding failed, indexing without vector",
			zap.String("document_id", doc.ID()), zap.Error(err))
		return doc.WithEmbedding(nil), nil
	}
	if s.vectorDim > 0 && len(res.Embedding) != s.vectorDim {
		return domdoc.Document{}, fmt.Errorf(
			"got %d dimensions, want %d: %w",
			len(res.Embedding), s.vectorDim, domain.ErrVectorDimMismatch,
		)
	}
	return doc.WithEmbedding(res.Embedding), nil
}

// searchableText is the vectorization input: title, content, keywords.
func searchableText(doc *domdoc.Document) string {
	parts := []string{doc.Title()}
	if doc.Content() != "" {
		parts = append(parts, doc.Content())
	}
	if len(doc.Keywords()) > 0 {
		parts = append(parts, strings.Join(doc.Keywords(), " "))
	}
	return strings.Join(parts, "\n")
}

// applyPatch folds the patch into a validated replacement document.
func applyPatch(existing domdoc.Document, p patch.Patch) (domdoc.Document, error) {
	title := existing.Title()
	if p.Title() != nil {
		title = *p.Title()
	}
	content := existing.Content()
	if p.Content() != nil {
		content = *p.Content()
	}
	keywords := existing.Keywords()
	if p.Keywords() != nil {
		keywords = *p.Keywords()
	}
	tags := existing.Tags()
	if p.Tags() != nil {
		tags = *p.Tags()
	}
	metadata := existing.Metadata()
	if p.Metadata() != nil {
		metadata = *p.Metadata()
	}
	isPublic := existing.IsPublic()
	if p.IsPublic() != nil {
		isPublic = *p.IsPublic()
	}

	return domdoc.New(
		existing.ID(), existing.DocType(), title, content,
		keywords, tags, metadata, existing.UserID(), isPublic, existing.CreatedAt(),
	)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrDocumentNotFound)
}
