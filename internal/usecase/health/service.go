// Package health checks the readiness of the engine's collaborators.
package health

import (
	"context"
	"fmt"
)

// Service aggregates readiness checks for the store and the embedder.
type Service struct {
	store StoreChecker
	embed EmbeddingChecker
}

// New creates a health service. embed may be nil when the provider exposes
// no health endpoint.
func New(store StoreChecker, embed EmbeddingChecker) *Service {
	return &Service{store: store, embed: embed}
}

// Check pings every collaborator and returns the first failure.
func (s *Service) Check(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("vector store: %w", err)
	}
	if s.embed != nil {
		if err := s.embed.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding provider: %w", err)
		}
	}
	return nil
}
