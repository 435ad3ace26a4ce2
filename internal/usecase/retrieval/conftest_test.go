package retrieval

import (
	"context"
	"testing"

	"github.com/calyptra/retrievex/internal/domain"
	"github.com/calyptra/retrievex/internal/domain/document"
	"github.com/calyptra/retrievex/internal/domain/search/filter"
	"github.com/calyptra/retrievex/internal/domain/search/request"
	"github.com/calyptra/retrievex/internal/domain/search/result"
	"github.com/calyptra/retrievex/internal/domain/search/source"
)

// mockIndex implements VectorIndex for tests.
type mockIndex struct {
	searchResults []result.Result
	searchErr     error
	searchCalled  bool
	lastSearchK   int
	lastThreshold float64

	listDocs   []document.Document
	listErr    error
	listCalled bool
	lastLimit  int
}

func (m *mockIndex) Search(
	_ context.Context, _ []float32, _ filter.Owner, k int, threshold float64,
) ([]result.Result, error) {
	m.searchCalled = true
	m.lastSearchK = k
	m.lastThreshold = threshold
	return m.searchResults, m.searchErr
}

func (m *mockIndex) ListAll(
	_ context.Context, _ filter.Owner, limit int,
) ([]document.Document, error) {
	m.listCalled = true
	m.lastLimit = limit
	return m.listDocs, m.listErr
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func newTestService(t *testing.T) (*Service, *mockIndex, *mockEmbedder) {
	t.Helper()
	index := &mockIndex{}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	return New(index, embed), index, embed
}

func makeDoc(t *testing.T, id, text string) document.Document {
	t.Helper()
	doc, err := document.New(id, text, 7, "test", nil, nil)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

func vectorResults(t *testing.T, docs ...document.Document) []result.Result {
	t.Helper()
	results := make([]result.Result, len(docs))
	for i, doc := range docs {
		results[i] = result.New(doc, 0.9-0.1*float64(i), i+1, source.Vector)
	}
	return results
}

func makeRequest(t *testing.T, query string, k int, useHybrid bool) *request.Request {
	t.Helper()
	req, err := request.New(query, 7, k, useHybrid, 0)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}
