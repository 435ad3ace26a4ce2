// Command retrievex runs a hybrid search query against the configured
// vector store and prints the ranked passages. It is a development
// utility; the engine itself is consumed as a library.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/calyptra/retrievex/internal/config"
	dbredis "github.com/calyptra/retrievex/internal/db/redis"
	"github.com/calyptra/retrievex/internal/domain"
	"github.com/calyptra/retrievex/internal/domain/search/request"
	logpkg "github.com/calyptra/retrievex/internal/logger"
	"github.com/calyptra/retrievex/internal/metrics"
	"github.com/calyptra/retrievex/internal/repository/embcache"
	searchrepo "github.com/calyptra/retrievex/internal/repository/search"
	openaiEmb "github.com/calyptra/retrievex/internal/transport/openai"
	healthuc "github.com/calyptra/retrievex/internal/usecase/health"
	retrievaluc "github.com/calyptra/retrievex/internal/usecase/retrieval"
	"github.com/calyptra/retrievex/internal/version"
)

func main() {
	var (
		query      = flag.String("query", "", "natural-language search query")
		owner      = flag.Int64("owner", 0, "owner id to scope retrieval to")
		k          = flag.Int("k", 0, "number of results (default from config)")
		vectorOnly = flag.Bool("vector-only", false, "disable the lexical path and fusion")
		timeout    = flag.Duration("timeout", 30*time.Second, "overall request deadline")
	)
	flag.Parse()

	if *query == "" || *owner <= 0 {
		fmt.Fprintln(os.Stderr, "usage: retrievex -query <text> -owner <id> [-k N] [-vector-only]")
		os.Exit(2)
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting retrievex query",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Int64("owner", *owner),
	)

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Store not ready", zap.Error(err))
	}

	// Register collectors explicitly (no init()).
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	embedder, embedderHealth := buildEmbedder(cfg, store, logger)

	repo := searchrepo.New(store).WithKeyPrefix(cfg.Storage.KeyPrefix)

	svc := retrievaluc.New(repo, embedder).
		WithScrollLimit(cfg.Retrieval.ScrollLimit).
		WithRRFConstant(cfg.Retrieval.RRFConstant).
		WithBM25(cfg.Retrieval.BM25K1, cfg.Retrieval.BM25B).
		WithScoreThreshold(cfg.Retrieval.ScoreThreshold)

	healthSvc := healthuc.New(store, embedderHealth)
	if err := healthSvc.Check(ctx); err != nil {
		logger.Fatal("Readiness check failed", zap.Error(err))
	}

	topK := *k
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}

	req, err := request.New(*query, *owner, topK, !*vectorOnly, 0)
	if err != nil {
		logger.Fatal("Invalid request", zap.Error(err))
	}

	start := time.Now()
	results, rep, err := svc.Search(ctx, &req)
	if err != nil {
		logger.Fatal("Search failed", zap.Error(err))
	}

	logger.Info("Search finished",
		zap.Int("results", len(results)),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("degraded", rep.Degraded()),
	)

	if len(results) == 0 {
		fmt.Println("no relevant information found")
		return
	}

	for _, r := range results {
		doc := r.Document()
		fmt.Printf("%2d. [%.4f] (%s) %s: %s\n",
			r.Rank(), r.Score(), r.Source(), doc.SourceLabel(), snippet(doc.Text(), 120))
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// The base provider doubles as the health checker; decorators hide it.
func buildEmbedder(
	cfg config.Config, store *dbredis.Store, logger *zap.Logger,
) (domain.Embedder, healthuc.EmbeddingChecker) {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base

	if !cfg.Embedding.CacheDisabled {
		ttl := time.Duration(cfg.Embedding.CacheTTLSec) * time.Second
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger).WithTTL(ttl)
	}

	// Instruction prefix outermost so the cache key includes it.
	if cfg.Embedding.QueryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}

	return embedder, base
}

func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
