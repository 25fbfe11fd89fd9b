package document

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Type classifies an indexed item.
type Type string

// Document type constants.
const (
	TypeUser    Type = "user"
	TypeFile    Type = "file"
	TypeStream  Type = "stream"
	TypeContent Type = "content"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == TypeUser || t == TypeFile || t == TypeStream || t == TypeContent
}

// Document is an indexed item (immutable value object).
// The type is fixed once indexed; the embedding dimensionality is fixed per
// index configuration and must match all documents in the index.
type Document struct {
	id        string
	docType   Type
	title     string
	content   string
	keywords  []string
	tags      []string
	metadata  map[string]string
	embedding []float32
	userID    string
	isPublic  bool
	createdAt int64 // unix millis
	updatedAt int64
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Title is required; content may be empty.
func New(
	id string, docType Type, title, content string,
	keywords, tags []string, metadata map[string]string,
	userID string, isPublic bool, now int64,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if !docType.IsValid() {
		return Document{}, fmt.Errorf("unknown document type %q", docType)
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}

	return Document{
		id:        id,
		docType:   docType,
		title:     title,
		content:   content,
		keywords:  cloneSlice(keywords),
		tags:      cloneSlice(tags),
		metadata:  cloneMap(metadata),
		userID:    userID,
		isPublic:  isPublic,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id string, docType Type, title, content string,
	keywords, tags []string, metadata map[string]string,
	embedding []float32, userID string, isPublic bool,
	createdAt, updatedAt int64,
) Document {
	return Document{
		id: id, docType: docType, title: title, content: content,
		keywords: keywords, tags: tags, metadata: metadata,
		embedding: embedding, userID: userID, isPublic: isPublic,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// DocType returns the document type.
func (d *Document) DocType() Type { return d.docType }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Content returns the free-text body.
func (d *Document) Content() string { return d.content }

// Keywords returns the keyword set.
func (d *Document) Keywords() []string { return d.keywords }

// Tags returns the tag set.
func (d *Document) Tags() []string { return d.tags }

// Metadata returns the open key-value map.
func (d *Document) Metadata() map[string]string { return d.metadata }

// Embedding returns the embedding vector (nil if not computed).
func (d *Document) Embedding() []float32 { return d.embedding }

// UserID returns the owner.
func (d *Document) UserID() string { return d.userID }

// IsPublic reports whether the document is publicly searchable.
func (d *Document) IsPublic() bool { return d.isPublic }

// CreatedAt returns the creation time in unix millis.
func (d *Document) CreatedAt() int64 { return d.createdAt }

// UpdatedAt returns the last update time in unix millis.
func (d *Document) UpdatedAt() int64 { return d.updatedAt }

// WithEmbedding returns a copy carrying the given vector.
func (d Document) WithEmbedding(vec []float32) Document {
	d.embedding = vec
	return d
}

// WithTimestamps returns a copy carrying the given timestamps.
func (d Document) WithTimestamps(createdAt, updatedAt int64) Document {
	d.createdAt = createdAt
	d.updatedAt = updatedAt
	return d
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
