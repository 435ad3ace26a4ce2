package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/calyptra/retrievex/internal/db"
	"github.com/calyptra/retrievex/internal/domain"
)

type mockKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string][]byte)}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type countingEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 12}, nil
}

func TestEmbed_MissThenHit(t *testing.T) {
	kv := newMockKV()
	inner := &countingEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	cached := New(inner, kv, nil, zap.NewNop())

	first, err := cached.Embed(context.Background(), "what is a cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", inner.calls)
	}
	if first.TotalTokens != 12 {
		t.Errorf("miss should report provider token usage, got %d", first.TotalTokens)
	}

	second, err := cached.Embed(context.Background(), "what is a cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit, provider called %d times", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit should report zero tokens, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[1] != 0.2 {
		t.Errorf("cached vector mismatch: %v", second.Embedding)
	}
}

func TestEmbed_DistinctTextsDistinctKeys(t *testing.T) {
	kv := newMockKV()
	inner := &countingEmbedder{vec: []float32{1}}
	cached := New(inner, kv, nil, zap.NewNop())

	_, _ = cached.Embed(context.Background(), "alpha")
	_, _ = cached.Embed(context.Background(), "beta")
	if inner.calls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", inner.calls)
	}
	if len(kv.data) != 2 {
		t.Fatalf("expected 2 cache entries, got %d", len(kv.data))
	}
}

func TestEmbed_CacheGetFailureFallsThrough(t *testing.T) {
	kv := newMockKV()
	kv.getErr = errors.New("connection reset")
	inner := &countingEmbedder{vec: []float32{1}}
	cached := New(inner, kv, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "alpha"); err != nil {
		t.Fatalf("cache failure must not surface: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected provider call on cache failure, got %d", inner.calls)
	}
}

func TestEmbed_CacheSetFailureIsNonFatal(t *testing.T) {
	kv := newMockKV()
	kv.setErr = errors.New("readonly replica")
	inner := &countingEmbedder{vec: []float32{1}}
	cached := New(inner, kv, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "alpha"); err != nil {
		t.Fatalf("set failure must not surface: %v", err)
	}
}

func TestEmbed_ProviderErrorPropagates(t *testing.T) {
	kv := newMockKV()
	wantErr := errors.New("quota exceeded")
	inner := &countingEmbedder{err: wantErr}
	cached := New(inner, kv, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "alpha"); !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(kv.data) != 0 {
		t.Fatal("failed embedding must not be cached")
	}
}

func TestWithTTL(t *testing.T) {
	kv := newMockKV()
	inner := &countingEmbedder{vec: []float32{1}}
	cached := New(inner, kv, nil, zap.NewNop()).WithTTL(5 * time.Minute)

	_, _ = cached.Embed(context.Background(), "alpha")
	if kv.lastTTL != 5*time.Minute {
		t.Fatalf("expected ttl 5m, got %v", kv.lastTTL)
	}
}

func TestEmbed_CorruptCacheEntryIgnored(t *testing.T) {
	kv := newMockKV()
	inner := &countingEmbedder{vec: []float32{1}}
	cached := New(inner, kv, nil, zap.NewNop())

	kv.data[cached.cacheKey("alpha")] = []byte{1, 2, 3} // not a multiple of 4

	res, err := cached.Embed(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("corrupt entry should miss, provider calls: %d", inner.calls)
	}
	if len(res.Embedding) != 1 {
		t.Fatalf("unexpected embedding: %v", res.Embedding)
	}
}
