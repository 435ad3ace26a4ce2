package domain

import "errors"

var (
	// ErrMissingOwner signals a search request without an owner identifier.
	// This is a contract violation by the caller, not a retrieval condition.
	ErrMissingOwner = errors.New("owner id is required")
	// ErrEmptyQuery signals a search request with an empty query string.
	ErrEmptyQuery = errors.New("query is required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrStoreUnavailable signals that the vector store cannot be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)
