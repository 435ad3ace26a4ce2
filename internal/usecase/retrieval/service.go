// Package retrieval orchestrates hybrid search: semantic and lexical
// retrieval fan out against the vector store, survivors are fused via
// reciprocal rank fusion, and a single path outage degrades instead of
// failing the call.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/calyptra/retrievex/internal/domain/search/filter"
	"github.com/calyptra/retrievex/internal/domain/search/request"
	"github.com/calyptra/retrievex/internal/domain/search/result"
	"github.com/calyptra/retrievex/internal/fusion"
	"github.com/calyptra/retrievex/internal/lexical"
	"github.com/calyptra/retrievex/internal/logger"
	"github.com/calyptra/retrievex/internal/metrics"
)

// DefaultScrollLimit caps the corpus fetched for lexical indexing. Owners
// with more documents get an incomplete lexical corpus, not an error.
const DefaultScrollLimit = 1000

// Service coordinates the two retrieval paths. It holds no per-query state;
// every call is independent, and the lexical index lives only within one call.
// Timeouts are the caller's concern (ctx); the service adds none of its own.
type Service struct {
	index VectorIndex
	embed Embedder

	scrollLimit    int
	rrfConstant    int
	bm25K1         float64
	bm25B          float64
	scoreThreshold float64
}

// New creates a retrieval service with default tuning.
func New(index VectorIndex, embed Embedder) *Service {
	return &Service{
		index:       index,
		embed:       embed,
		scrollLimit: DefaultScrollLimit,
		rrfConstant: fusion.DefaultConstant,
		bm25K1:      lexical.DefaultK1,
		bm25B:       lexical.DefaultB,
	}
}

// WithScrollLimit overrides the lexical corpus cap (chainable).
func (s *Service) WithScrollLimit(limit int) *Service {
	if limit > 0 {
		s.scrollLimit = limit
	}
	return s
}

// WithRRFConstant overrides the fusion constant (chainable).
func (s *Service) WithRRFConstant(c int) *Service {
	if c > 0 {
		s.rrfConstant = c
	}
	return s
}

// WithBM25 overrides the lexical tuning constants (chainable).
func (s *Service) WithBM25(k1, b float64) *Service {
	if k1 > 0 {
		s.bm25K1 = k1
	}
	if b > 0 {
		s.bm25B = b
	}
	return s
}

// WithScoreThreshold sets the minimum similarity for vector hits (chainable).
func (s *Service) WithScoreThreshold(threshold float64) *Service {
	if threshold > 0 {
		s.scoreThreshold = threshold
	}
	return s
}

// Report carries per-path failure diagnostics alongside the results, so a
// caller can tell "nothing found" apart from "every path broke" without the
// distinction becoming an error.
type Report struct {
	VectorErr  error
	LexicalErr error
}

// Degraded reports whether at least one retrieval path failed.
func (r Report) Degraded() bool { return r.VectorErr != nil || r.LexicalErr != nil }

// TotalFailure reports whether every retrieval path failed.
func (r Report) TotalFailure() bool { return r.VectorErr != nil && r.LexicalErr != nil }

// Search returns a ranked result list for the query, scoped to the owner.
//
// With hybrid disabled it is a plain vector search and errors surface.
// With hybrid enabled, both paths fetch 2k candidates in parallel, a failed
// path is logged and skipped, and the survivors are fused; only when both
// paths fail does the caller get an empty list (with the failures in Report,
// never as an error).
func (s *Service) Search(
	ctx context.Context, req *request.Request,
) ([]result.Result, Report, error) {
	log := logger.FromContext(ctx)

	if !req.UseHybrid() {
		results, err := s.vectorSearch(ctx, req.Query(), req.Owner(), req.K())
		if err != nil {
			return nil, Report{VectorErr: err}, err
		}
		return results, Report{}, nil
	}

	// Over-fetch from each path for better fusion overlap.
	fetchK := req.K() * 2

	var (
		vectorResults, lexicalResults []result.Result
		vectorErr, lexicalErr         error
	)

	// Both paths are read-only against the store and share no mutable
	// state; either may fail without affecting the other.
	var g errgroup.Group
	g.Go(func() error {
		vectorResults, vectorErr = s.vectorSearch(ctx, req.Query(), req.Owner(), fetchK)
		return nil
	})
	g.Go(func() error {
		lexicalResults, lexicalErr = s.lexicalSearch(ctx, req.Query(), req.Owner(), fetchK)
		return nil
	})
	_ = g.Wait()

	rep := Report{VectorErr: vectorErr, LexicalErr: lexicalErr}

	if vectorErr != nil {
		log.Warn("vector retrieval path failed, continuing with lexical",
			zap.Int64("owner", req.Owner().ID()), zap.Error(vectorErr))
	}
	if lexicalErr != nil {
		log.Warn("lexical retrieval path failed, continuing with vector",
			zap.Int64("owner", req.Owner().ID()), zap.Error(lexicalErr))
	}
	if rep.TotalFailure() {
		log.Error("all retrieval paths failed",
			zap.Int64("owner", req.Owner().ID()),
			zap.Error(vectorErr), zap.Error(lexicalErr))
		return nil, rep, nil
	}

	fused := fusion.Fuse(vectorResults, lexicalResults, req.K(), s.rrfConstant)

	log.Debug("hybrid search fused",
		zap.Int("vector_results", len(vectorResults)),
		zap.Int("lexical_results", len(lexicalResults)),
		zap.Int("fused_results", len(fused)))

	return fused, rep, nil
}

// vectorSearch embeds the query and runs the KNN path.
func (s *Service) vectorSearch(
	ctx context.Context, query string, owner filter.Owner, k int,
) (results []result.Result, err error) {
	defer s.observePath("vector", time.Now(), &results, &err)

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err = s.index.Search(ctx, emb.Embedding, owner, k, s.scoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}

// lexicalSearch scrolls the owner's corpus and ranks it with a BM25 index
// built for this call only.
func (s *Service) lexicalSearch(
	ctx context.Context, query string, owner filter.Owner, k int,
) (results []result.Result, err error) {
	defer s.observePath("lexical", time.Now(), &results, &err)

	docs, err := s.index.ListAll(ctx, owner, s.scrollLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch lexical corpus: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ix := lexical.New(s.bm25K1, s.bm25B)
	ix.Build(docs)
	return ix.Search(query, k), nil
}

func (s *Service) observePath(path string, start time.Time, results *[]result.Result, err *error) {
	status := "success"
	if *err != nil {
		status = "failure"
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(path, status).Inc()
	metrics.RetrievalDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if *err == nil {
		metrics.RetrievalResultsReturned.WithLabelValues(path).Observe(float64(len(*results)))
	}
}
