// Package result defines the ranked search hit value type.
package result

import (
	"github.com/calyptra/retrievex/internal/domain/document"
	"github.com/calyptra/retrievex/internal/domain/search/source"
)

// IdentityPrefixLen is the number of leading text bytes used as a fallback
// identity key for documents without a store ID. A prefix is a heuristic:
// two distinct documents sharing their first 100 bytes will merge during
// fusion. Store IDs, when present, are exact.
const IdentityPrefixLen = 100

// Result is a single search hit. Immutable: fusion builds new Results
// rather than editing existing ones.
type Result struct {
	doc   document.Document
	score float64
	rank  int
	src   source.Source
}

// New creates a search result. Rank is 1-based within the originating list.
func New(doc document.Document, score float64, rank int, src source.Source) Result {
	return Result{doc: doc, score: score, rank: rank, src: src}
}

// Document returns the underlying document.
func (r *Result) Document() document.Document { return r.doc }

// Score returns the relevance score. Its semantics depend on Source:
// raw similarity for vector, BM25 weight for lexical, fused RRF score for hybrid.
func (r *Result) Score() float64 { return r.score }

// Rank returns the 1-based position within the originating list.
func (r *Result) Rank() int { return r.rank }

// Source returns the retrieval path that produced this result.
func (r *Result) Source() source.Source { return r.src }

// Identity returns the deduplication key used by rank fusion: the document's
// store ID when present, otherwise a fixed-length prefix of its text.
func (r *Result) Identity() string {
	doc := r.doc
	if id := doc.ID(); id != "" {
		return id
	}
	text := doc.Text()
	if len(text) > IdentityPrefixLen {
		return text[:IdentityPrefixLen]
	}
	return text
}
