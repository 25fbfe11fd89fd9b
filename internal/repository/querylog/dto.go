package querylog

import (
	"encoding/json"

	domdoc "github.com/glowcast/searchd/internal/domain/document"
	"github.com/glowcast/searchd/internal/domain/search/filter"
)

// filterRow is the JSONB shape of a stored filter predicate.
type filterRow struct {
	DocumentTypes []string `json:"document_types,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
	IsPublic      *bool    `json:"is_public,omitempty"`
	DateFrom      int64    `json:"date_from,omitempty"`
	DateTo        int64    `json:"date_to,omitempty"`
}

// marshalFilter serializes a filter for the audit row. An empty filter is
// stored as SQL NULL (nil slice).
func marshalFilter(f filter.Filter) ([]byte, error) {
	if f.IsEmpty() {
		return nil, nil
	}
	row := filterRow{
		Tags:     f.Tags(),
		UserID:   f.UserID(),
		IsPublic: f.IsPublic(),
		DateFrom: f.DateFrom(),
		DateTo:   f.DateTo(),
	}
	for _, dt := range f.DocumentTypes() {
		row.DocumentTypes = append(row.DocumentTypes, string(dt))
	}
	return json.Marshal(row)
}

// docSnapshot is the JSONB shape of the denormalized document stored with
// each result row.
type docSnapshot struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Content  string            `json:"content,omitempty"`
	Keywords []string          `json:"keywords,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	UserID   string            `json:"user_id,omitempty"`
	IsPublic bool              `json:"is_public"`
}

func marshalDocument(doc *domdoc.Document) ([]byte, error) {
	return json.Marshal(docSnapshot{
		ID:       doc.ID(),
		Type:     string(doc.DocType()),
		Title:    doc.Title(),
		Content:  doc.Content(),
		Keywords: doc.Keywords(),
		Tags:     doc.Tags(),
		Metadata: doc.Metadata(),
		UserID:   doc.UserID(),
		IsPublic: doc.IsPublic(),
	})
}
