package search

import (
	"context"
	"testing"

	"github.com/calyptra/retrievex/internal/db"
	"github.com/calyptra/retrievex/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	scrollFn    func(ctx context.Context, q *db.ScrollQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Scroll(ctx context.Context, q *db.ScrollQuery) (*db.SearchResult, error) {
	if m.scrollFn != nil {
		return m.scrollFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func mustOwner(t *testing.T, id int64) filter.Owner {
	t.Helper()
	o, err := filter.NewOwner(id)
	if err != nil {
		t.Fatalf("filter.NewOwner: %v", err)
	}
	return o
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func entry(key, text string, score float64, extra map[string]string) db.SearchEntry {
	fields := map[string]string{
		"__content": text,
		"owner":     "7",
		"source":    "notes.txt",
	}
	for k, v := range extra {
		fields[k] = v
	}
	return db.SearchEntry{Key: key, Score: score, Fields: fields}
}
