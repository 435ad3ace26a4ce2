// Package lexical implements BM25 keyword ranking over an in-memory corpus.
//
// The index is rebuilt per retrieval call from a freshly fetched corpus and
// discarded afterwards; nothing is persisted or cached across queries.
// Tokenization is lowercase + whitespace split with no stemming and no
// stop-word removal. That is a deliberate simplicity constraint, not an
// omission: the corpus is small (bounded by the scroll cap) and the vector
// path carries the semantic load.
package lexical

import (
	"math"
	"sort"
	"strings"

	"github.com/calyptra/retrievex/internal/domain/document"
	"github.com/calyptra/retrievex/internal/domain/search/result"
	"github.com/calyptra/retrievex/internal/domain/search/source"
)

// Default BM25 tuning constants.
const (
	// DefaultK1 controls term frequency saturation.
	DefaultK1 = 1.5
	// DefaultB controls document length normalization.
	DefaultB = 0.75
)

// Index is a BM25 ranking structure over a fixed document corpus.
// All derived state is recomputed wholesale by Build; there is no
// incremental update path.
type Index struct {
	k1 float64
	b  float64

	docs      []document.Document
	tokens    [][]string          // tokens[i] corresponds to docs[i]
	termFreqs []map[string]int    // per-document term counts
	docLens   []int
	avgdl     float64
	docFreq   map[string]int      // documents containing term
	idf       map[string]float64
}

// New creates an empty index with the given tuning constants.
// Non-positive values fall back to the defaults.
func New(k1, b float64) *Index {
	if k1 <= 0 {
		k1 = DefaultK1
	}
	if b <= 0 {
		b = DefaultB
	}
	return &Index{k1: k1, b: b}
}

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Build computes all derived ranking state for the given corpus, replacing
// any previous state. An empty corpus produces a valid index that yields no
// results for any query.
func (ix *Index) Build(docs []document.Document) {
	ix.docs = docs
	ix.tokens = make([][]string, len(docs))
	ix.termFreqs = make([]map[string]int, len(docs))
	ix.docLens = make([]int, len(docs))

	totalLen := 0
	ix.docFreq = make(map[string]int)
	for i := range docs {
		tokens := Tokenize(docs[i].Text())
		ix.tokens[i] = tokens
		ix.docLens[i] = len(tokens)
		totalLen += len(tokens)

		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		ix.termFreqs[i] = freqs
		for tok := range freqs {
			ix.docFreq[tok]++
		}
	}

	ix.avgdl = 0
	if len(docs) > 0 {
		ix.avgdl = float64(totalLen) / float64(len(docs))
	}

	n := len(docs)
	ix.idf = make(map[string]float64, len(ix.docFreq))
	for tok, df := range ix.docFreq {
		ix.idf[tok] = idf(df, n)
	}
}

// idf computes the smoothed inverse document frequency
// ln((N - df + 0.5)/(df + 0.5) + 1), which stays non-negative even for
// terms appearing in most documents.
func idf(docFreq, numDocs int) float64 {
	return math.Log((float64(numDocs)-float64(docFreq)+0.5)/(float64(docFreq)+0.5) + 1.0)
}

// Scores returns one BM25 score per corpus document for the query.
// Query terms absent from the vocabulary contribute zero; they are
// informative, not exceptional.
func (ix *Index) Scores(query string) []float64 {
	queryTokens := Tokenize(query)
	scores := make([]float64, len(ix.docs))

	for i := range ix.docs {
		docLen := float64(ix.docLens[i])
		freqs := ix.termFreqs[i]

		var score float64
		for _, tok := range queryTokens {
			termIDF, ok := ix.idf[tok]
			if !ok {
				continue
			}
			tf := float64(freqs[tok])
			numerator := tf * (ix.k1 + 1)
			denominator := tf + ix.k1*(1-ix.b+ix.b*(docLen/ix.avgdl))
			score += termIDF * (numerator / denominator)
		}
		scores[i] = score
	}

	return scores
}

// Search scores all documents and returns the top k as ranked results with
// source = lexical. Ties are broken by corpus order (stable sort). An empty
// corpus yields an empty slice.
func (ix *Index) Search(query string, k int) []result.Result {
	if len(ix.docs) == 0 || k <= 0 {
		return nil
	}

	scores := ix.Scores(query)

	order := make([]int, len(ix.docs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	results := make([]result.Result, 0, k)
	for rank, idx := range order[:k] {
		results = append(results, result.New(ix.docs[idx], scores[idx], rank+1, source.Lexical))
	}
	return results
}

// Len returns the corpus size.
func (ix *Index) Len() int { return len(ix.docs) }

// AvgDocLen returns the mean token count across the corpus.
func (ix *Index) AvgDocLen() float64 { return ix.avgdl }

// IDF returns the smoothed inverse document frequency of a term, or 0 for
// terms outside the vocabulary.
func (ix *Index) IDF(term string) float64 { return ix.idf[term] }
