// Package search converts store hits into domain documents and ranked
// results for both retrieval paths.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/calyptra/retrievex/internal/db"
	"github.com/calyptra/retrievex/internal/domain/document"
	"github.com/calyptra/retrievex/internal/domain/search/filter"
	"github.com/calyptra/retrievex/internal/domain/search/result"
	"github.com/calyptra/retrievex/internal/domain/search/source"
)

// DefaultKeyPrefix scopes all document keys and the index name.
const DefaultKeyPrefix = "retrievex:docs:"

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	Scroll(ctx context.Context, q *db.ScrollQuery) (*db.SearchResult, error)
}

// Repo implements the vector index client over a db.Store.
type Repo struct {
	store  store
	prefix string
}

// New creates a search repository with the default key prefix.
func New(s store) *Repo {
	return &Repo{store: s, prefix: DefaultKeyPrefix}
}

// WithKeyPrefix overrides the key prefix (chainable).
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

func (r *Repo) indexName() string {
	return r.prefix + "idx"
}

// Search runs a KNN query scoped to the owner and converts hits into
// vector-path results. The store returns hits sorted by decreasing
// similarity; that order is preserved as-is, never re-sorted, and ranks are
// assigned from it. Hits below threshold are dropped (threshold 0 keeps all).
func (r *Repo) Search(
	ctx context.Context, vector []float32, owner filter.Owner, k int, threshold float64,
) ([]result.Result, error) {
	q := &db.KNNQuery{
		IndexName: r.indexName(),
		Owner:     owner,
		Vector:    vector,
		K:         k,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn owner=%d: %w", owner.ID(), err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < threshold {
			continue
		}
		doc := r.parseDocument(entry)
		results = append(results, result.New(doc, entry.Score, len(results)+1, source.Vector))
	}
	return results, nil
}

// ListAll fetches up to limit documents for an owner without a query vector,
// used to materialize a corpus for on-the-fly lexical indexing. A store
// without a search index yields an empty corpus, not an error.
func (r *Repo) ListAll(
	ctx context.Context, owner filter.Owner, limit int,
) ([]document.Document, error) {
	q := &db.ScrollQuery{
		IndexName: r.indexName(),
		Owner:     owner,
		Limit:     limit,
	}

	sr, err := r.store.Scroll(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("scroll owner=%d: %w", owner.ID(), err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	docs := make([]document.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docs = append(docs, r.parseDocument(entry))
	}
	return docs, nil
}

// parseDocument hydrates a Document from flat hash fields.
// Reserved fields: __content (text), __vector (skipped), owner, source.
// Everything else lands in numerics when it parses as a float, tags otherwise.
func (r *Repo) parseDocument(entry db.SearchEntry) document.Document {
	id := strings.TrimPrefix(entry.Key, r.prefix)

	var text, sourceLabel string
	var owner int64
	tags := make(map[string]string)
	numerics := make(map[string]float64)

	for k, v := range entry.Fields {
		switch k {
		case "__content":
			text = v
		case "__vector":
			// raw embedding blob, not a document attribute
		case "owner":
			owner, _ = strconv.ParseInt(v, 10, 64)
		case "source":
			sourceLabel = v
		default:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				numerics[k] = f
			} else {
				tags[k] = v
			}
		}
	}

	if len(tags) == 0 {
		tags = nil
	}
	if len(numerics) == 0 {
		numerics = nil
	}

	return document.Reconstruct(id, text, owner, sourceLabel, tags, numerics)
}
