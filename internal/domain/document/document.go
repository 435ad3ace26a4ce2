// Package document defines the immutable unit of retrievable content.
package document

import "fmt"

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 163840 // 160KB

// Document is an immutable passage of text owned by a single owner.
// Documents are produced by the ingestion collaborator and read-only here.
type Document struct {
	id          string
	text        string
	owner       int64
	sourceLabel string
	tags        map[string]string
	numerics    map[string]float64
}

// New validates and creates a Document.
// Owner must be positive; text must be non-empty and within MaxTextSize.
func New(
	id, text string, owner int64, sourceLabel string,
	tags map[string]string, numerics map[string]float64,
) (Document, error) {
	if owner <= 0 {
		return Document{}, fmt.Errorf("owner must be positive, got %d", owner)
	}
	if text == "" {
		return Document{}, fmt.Errorf("text is required")
	}
	if len(text) > MaxTextSize {
		return Document{}, fmt.Errorf("text too large (max %d bytes)", MaxTextSize)
	}
	return Document{
		id:          id,
		text:        text,
		owner:       owner,
		sourceLabel: sourceLabel,
		tags:        cloneStringMap(tags),
		numerics:    cloneFloat64Map(numerics),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, text string, owner int64, sourceLabel string,
	tags map[string]string, numerics map[string]float64,
) Document {
	return Document{
		id: id, text: text, owner: owner, sourceLabel: sourceLabel,
		tags: tags, numerics: numerics,
	}
}

// ID returns the store-assigned document identifier. May be empty for
// documents that never passed through the store.
func (d Document) ID() string { return d.id }

// Text returns the passage text.
func (d Document) Text() string { return d.text }

// Owner returns the owner identifier.
func (d Document) Owner() int64 { return d.owner }

// SourceLabel returns the ingestion source label (e.g. a file name).
func (d Document) SourceLabel() string { return d.sourceLabel }

// Tags returns the string metadata fields.
func (d Document) Tags() map[string]string { return d.tags }

// Numerics returns the numeric metadata fields.
func (d Document) Numerics() map[string]float64 { return d.numerics }

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneFloat64Map(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
