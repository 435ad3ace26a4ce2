package retrieval

import (
	"context"

	"github.com/calyptra/retrievex/internal/domain"
	"github.com/calyptra/retrievex/internal/domain/document"
	"github.com/calyptra/retrievex/internal/domain/search/filter"
	"github.com/calyptra/retrievex/internal/domain/search/result"
)

// VectorIndex is the vector store contract consumed by the orchestrator.
type VectorIndex interface {
	// Search returns up to k owner-scoped hits sorted by decreasing
	// similarity, with hits below threshold dropped.
	Search(
		ctx context.Context, vector []float32, owner filter.Owner, k int, threshold float64,
	) ([]result.Result, error)

	// ListAll fetches up to limit documents for an owner without a query
	// vector, to materialize a corpus for lexical indexing.
	ListAll(ctx context.Context, owner filter.Owner, limit int) ([]document.Document, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
