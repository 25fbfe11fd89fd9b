package patch

import (
	"fmt"

	"github.com/glowcast/searchd/internal/domain/document"
)

// Patch is a partial document update. Nil fields are unchanged; the
// document type and owner are immutable and have no patch field.
type Patch struct {
	title    *string
	content  *string
	keywords *[]string
	tags     *[]string
	metadata *map[string]string
	isPublic *bool
}

// New validates and creates a Patch. At least one field must be provided.
func New(
	title, content *string, keywords, tags *[]string,
	metadata *map[string]string, isPublic *bool,
) (Patch, error) {
	if title == nil && content == nil && keywords == nil &&
		tags == nil && metadata == nil && isPublic == nil {
		return Patch{}, fmt.Errorf("at least one field must be provided")
	}
	if title != nil && *title == "" {
		return Patch{}, fmt.Errorf("title must not be blank")
	}
	if content != nil && len(*content) > document.MaxContentSize {
		return Patch{}, fmt.Errorf("content too large (max %d bytes)", document.MaxContentSize)
	}
	return Patch{
		title: title, content: content, keywords: keywords,
		tags: tags, metadata: metadata, isPublic: isPublic,
	}, nil
}

// Title returns the new title, or nil if unchanged.
func (p Patch) Title() *string { return p.title }

// Content returns the new content, or nil if unchanged.
func (p Patch) Content() *string { return p.content }

// Keywords returns the replacement keyword list, or nil if unchanged.
func (p Patch) Keywords() *[]string { return p.keywords }

// Tags returns the replacement tag list, or nil if unchanged.
func (p Patch) Tags() *[]string { return p.tags }

// Metadata returns the replacement metadata map, or nil if unchanged.
func (p Patch) Metadata() *map[string]string { return p.metadata }

// IsPublic returns the new visibility flag, or nil if unchanged.
func (p Patch) IsPublic() *bool { return p.isPublic }

// AffectsText reports whether the patch changes any field the embedding
// is derived from.
func (p Patch) AffectsText() bool {
	return p.title != nil || p.content != nil || p.keywords != nil
}
