package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/calyptra/retrievex/internal/db"
	"github.com/calyptra/retrievex/internal/domain/search/filter"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH, pre-filtered
// to the owner's documents. Hits come back sorted by vector distance.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	queryStr := fmt.Sprintf(
		"(%s)=>[KNN %d @__vector $BLOB AS __vector_score]",
		ownerFilter(q.Owner), q.K,
	)

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"SORTBY", "__vector_score",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, wrapSearchErr(err)
	}

	return parseSearchResult(raw, knnScore)
}

// Scroll lists an owner's documents without a query vector via FT.SEARCH,
// bounded by the caller-supplied limit.
func (s *Store) Scroll(ctx context.Context, q *db.ScrollQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	args := []string{q.IndexName, ownerFilter(q.Owner)}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args, "LIMIT", "0", strconv.Itoa(q.Limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, wrapSearchErr(err)
	}

	return parseSearchResult(raw, nil)
}

// ownerFilter renders the owner equality predicate as a tag clause.
func ownerFilter(owner filter.Owner) string {
	return fmt.Sprintf("@owner:{%d}", owner.ID())
}

func wrapSearchErr(err error) error {
	if isRedisErr(err, "no such index") {
		return &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
	}
	return &db.Error{Op: db.OpSearch, Err: err}
}

// knnScore converts a cosine distance into a similarity, clamped to [0,1].
func knnScore(fields map[string]string) (float64, bool) {
	raw, ok := fields["__vector_score"]
	if !ok {
		return 0, false
	}
	dist, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return max(0, 1.0-dist), true
}

// parseSearchResult parses an FT.SEARCH RESP2 reply.
// Layout: [total, key1, fields1, key2, fields2, ...].
// scoreFn (optional) derives the entry score from the returned fields and
// owns removing any score-carrying field.
func parseSearchResult(
	raw []rueidis.RedisMessage, scoreFn func(map[string]string) (float64, bool),
) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fieldMsgs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fieldMsgs),
		}

		if scoreFn != nil {
			if score, ok := scoreFn(entry.Fields); ok {
				entry.Score = score
			}
			delete(entry.Fields, "__vector_score")
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(msgs []rueidis.RedisMessage) map[string]string {
	fields := make(map[string]string, len(msgs)/2)
	for i := 0; i+1 < len(msgs); i += 2 {
		k, err := msgs[i].ToString()
		if err != nil {
			continue
		}
		v, err := msgs[i+1].ToString()
		if err != nil {
			continue
		}
		fields[k] = v
	}
	return fields
}

// vectorToBytes serializes a []float32 to the binary blob format FT.SEARCH
// expects (little-endian IEEE 754).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
