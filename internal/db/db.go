// Package db defines the storage contract consumed by the repositories.
package db

import (
	"context"
	"time"
)

// Store is the full storage contract implemented by database backends.
type Store interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	Scroll(ctx context.Context, q *ScrollQuery) (*SearchResult, error)

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}
