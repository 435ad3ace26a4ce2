// Package source defines the retrieval path that produced a result.
package source

// Source identifies the retrieval path a result came from.
type Source string

// Retrieval path constants.
const (
	// Vector results carry the store's raw similarity score.
	Vector Source = "vector"
	// Lexical results carry a BM25 weight.
	Lexical Source = "lexical"
	// Hybrid results carry a fused reciprocal-rank score.
	Hybrid Source = "hybrid"
)

// IsValid checks if the source is one of the supported values.
func (s Source) IsValid() bool {
	return s == Vector || s == Lexical || s == Hybrid
}
