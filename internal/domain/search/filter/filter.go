// Package filter implements the structured search predicate.
// All populated fields combine with logical AND; absent fields impose no
// constraint.
package filter

import (
	"fmt"

	"github.com/glowcast/searchd/internal/domain/document"
)

// Filter narrows search candidates. The zero value matches everything.
type Filter struct {
	documentTypes []document.Type
	tags          []string
	userID        string
	isPublic      *bool
	dateFrom      int64 // unix millis, inclusive; 0 = unbounded
	dateTo        int64 // unix millis, inclusive; 0 = unbounded
}

// New validates and creates a Filter.
func New(
	documentTypes []document.Type, tags []string,
	userID string, isPublic *bool, dateFrom, dateTo int64,
) (Filter, error) {
	for _, dt := range documentTypes {
		if !dt.IsValid() {
			return Filter{}, fmt.Errorf("unknown document type %q", dt)
		}
	}
	if dateFrom > 0 && dateTo > 0 && dateFrom > dateTo {
		return Filter{}, fmt.Errorf("date range start %d after end %d", dateFrom, dateTo)
	}
	return Filter{
		documentTypes: documentTypes,
		tags:          tags,
		userID:        userID,
		isPublic:      isPublic,
		dateFrom:      dateFrom,
		dateTo:        dateTo,
	}, nil
}

// IsEmpty reports whether the filter imposes no constraints.
func (f Filter) IsEmpty() bool {
	return len(f.documentTypes) == 0 && len(f.tags) == 0 &&
		f.userID == "" && f.isPublic == nil && f.dateFrom == 0 && f.dateTo == 0
}

// DocumentTypes returns the type membership constraint.
func (f Filter) DocumentTypes() []document.Type { return f.documentTypes }

// Tags returns the tag overlap constraint.
func (f Filter) Tags() []string { return f.tags }

// UserID returns the exact owner constraint.
func (f Filter) UserID() string { return f.userID }

// IsPublic returns the public-flag constraint (nil = no constraint).
func (f Filter) IsPublic() *bool { return f.isPublic }

// DateFrom returns the inclusive lower bound on creation time (millis).
func (f Filter) DateFrom() int64 { return f.dateFrom }

// DateTo returns the inclusive upper bound on creation time (millis).
func (f Filter) DateTo() int64 { return f.dateTo }

// Matches evaluates the predicate against a document.
func (f Filter) Matches(doc *document.Document) bool {
	if len(f.documentTypes) > 0 && !containsType(f.documentTypes, doc.DocType()) {
		return false
	}
	if len(f.tags) > 0 && !overlaps(f.tags, doc.Tags()) {
		return false
	}
	if f.userID != "" && doc.UserID() != f.userID {
		return false
	}
	if f.isPublic != nil && doc.IsPublic() != *f.isPublic {
		return false
	}
	if f.dateFrom > 0 && doc.CreatedAt() < f.dateFrom {
		return false
	}
	if f.dateTo > 0 && doc.CreatedAt() > f.dateTo {
		return false
	}
	return true
}

func containsType(types []document.Type, t document.Type) bool {
	for _, dt := range types {
		if dt == t {
			return true
		}
	}
	return false
}

func overlaps(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
