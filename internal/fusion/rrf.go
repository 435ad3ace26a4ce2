// Package fusion merges ranked result lists via Reciprocal Rank Fusion.
package fusion

import (
	"sort"

	"github.com/calyptra/retrievex/internal/domain/search/result"
	"github.com/calyptra/retrievex/internal/domain/search/source"
)

// DefaultConstant is the standard RRF constant (Cormack et al. 2009).
// It down-weights rank differences among top results.
const DefaultConstant = 60

// Fuse merges two ranked lists into one combined ranking.
// Each appearance at rank r contributes 1/(constant + r) to the document's
// fused score; documents absent from a list contribute zero there. Identity
// across lists is result.Identity (store ID, or a text-prefix heuristic).
//
// Ordering is deterministic: descending fused score, ties broken by
// first-seen order (listA before listB, in-list rank order). The output is
// truncated to kFinal, re-ranked 1..N, and tagged source = hybrid.
// A non-positive constant falls back to DefaultConstant.
func Fuse(listA, listB []result.Result, kFinal, constant int) []result.Result {
	if constant <= 0 {
		constant = DefaultConstant
	}
	if kFinal <= 0 {
		return nil
	}

	type fused struct {
		res   result.Result // first-seen result for the document
		score float64
	}

	merged := make(map[string]*fused)
	order := make([]string, 0, len(listA)+len(listB))

	accumulate := func(list []result.Result) {
		for i := range list {
			r := &list[i]
			contribution := 1.0 / float64(constant+r.Rank())
			id := r.Identity()
			if existing, ok := merged[id]; ok {
				existing.score += contribution
			} else {
				merged[id] = &fused{res: *r, score: contribution}
				order = append(order, id)
			}
		}
	}
	accumulate(listA)
	accumulate(listB)

	// Stable sort over first-seen order keeps ties deterministic.
	sort.SliceStable(order, func(i, j int) bool {
		return merged[order[i]].score > merged[order[j]].score
	})

	if kFinal > len(order) {
		kFinal = len(order)
	}

	results := make([]result.Result, 0, kFinal)
	for rank, id := range order[:kFinal] {
		f := merged[id]
		results = append(results, result.New(f.res.Document(), f.score, rank+1, source.Hybrid))
	}
	return results
}
