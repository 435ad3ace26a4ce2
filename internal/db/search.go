package db

import "github.com/calyptra/retrievex/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Owner        filter.Owner
	Vector       []float32
	K            int
	ReturnFields []string
}

// ScrollQuery is the input for an owner-scoped listing without a query
// vector, used to materialize a corpus for lexical indexing.
type ScrollQuery struct {
	IndexName    string
	Owner        filter.Owner
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search or scroll operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
