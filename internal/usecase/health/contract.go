package health

import "context"

// StoreChecker verifies vector store connectivity.
type StoreChecker interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker verifies embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
