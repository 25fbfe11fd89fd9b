package document

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"strconv"

	domdoc "github.com/glowcast/searchd/internal/domain/document"
)

// Hash field names. Lists and maps are JSON-encoded; the embedding is a
// binary blob (4 bytes per float, little-endian).
const (
	fieldType      = "type"
	fieldTitle     = "title"
	fieldContent   = "content"
	fieldKeywords  = "keywords"
	fieldTags      = "tags"
	fieldMetadata  = "metadata"
	fieldEmbedding = "embedding"
	fieldUserID    = "user_id"
	fieldIsPublic  = "is_public"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *domdoc.Document) map[string]string {
	m := map[string]string{
		fieldType:      string(doc.DocType()),
		fieldTitle:     doc.Title(),
		fieldContent:   doc.Content(),
		fieldUserID:    doc.UserID(),
		fieldIsPublic:  strconv.FormatBool(doc.IsPublic()),
		fieldCreatedAt: strconv.FormatInt(doc.CreatedAt(), 10),
		fieldUpdatedAt: strconv.FormatInt(doc.UpdatedAt(), 10),
	}
	if len(doc.Keywords()) > 0 {
		m[fieldKeywords] = marshalList(doc.Keywords())
	}
	if len(doc.Tags()) > 0 {
		m[fieldTags] = marshalList(doc.Tags())
	}
	if len(doc.Metadata()) > 0 {
		if data, err := json.Marshal(doc.Metadata()); err == nil {
			m[fieldMetadata] = string(data)
		}
	}
	if len(doc.Embedding()) > 0 {
		m[fieldEmbedding] = vectorToBytes(doc.Embedding())
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(id string, m map[string]string) domdoc.Document {
	var keywords, tags []string
	var metadata map[string]string
	var embedding []float32

	if raw := m[fieldKeywords]; raw != "" {
		keywords = unmarshalList(raw)
	}
	if raw := m[fieldTags]; raw != "" {
		tags = unmarshalList(raw)
	}
	if raw := m[fieldMetadata]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &metadata)
	}
	if raw := m[fieldEmbedding]; raw != "" {
		embedding = bytesToVector(raw)
	}

	isPublic, _ := strconv.ParseBool(m[fieldIsPublic])
	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	updatedAt, _ := strconv.ParseInt(m[fieldUpdatedAt], 10, 64)

	return domdoc.Reconstruct(
		id, domdoc.Type(m[fieldType]), m[fieldTitle], m[fieldContent],
		keywords, tags, metadata, embedding,
		m[fieldUserID], isPublic, createdAt, updatedAt,
	)
}

func marshalList(list []string) string {
	data, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalList(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
