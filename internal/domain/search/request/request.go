// Package request defines the validated search request value type.
package request

import (
	"fmt"

	"github.com/calyptra/retrievex/internal/domain"
	"github.com/calyptra/retrievex/internal/domain/search/filter"
)

// DefaultK is the number of results returned when the caller does not ask
// for a specific count.
const DefaultK = 5

// MaxK bounds the result count a single request may ask for.
const MaxK = 100

// Request is a validated hybrid search request.
type Request struct {
	query        string
	owner        filter.Owner
	k            int
	useHybrid    bool
	vectorWeight float64
}

// New validates and creates a Request. k <= 0 falls back to DefaultK.
//
// vectorWeight is accepted for API symmetry with callers that tune fusion,
// but reciprocal rank fusion is rank-based, so the weight has no effect.
func New(query string, ownerID int64, k int, useHybrid bool, vectorWeight float64) (Request, error) {
	if query == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	owner, err := filter.NewOwner(ownerID)
	if err != nil {
		return Request{}, err
	}
	if k <= 0 {
		k = DefaultK
	}
	if k > MaxK {
		return Request{}, fmt.Errorf("k too large (max %d), got %d", MaxK, k)
	}
	if vectorWeight < 0 || vectorWeight > 1 {
		return Request{}, fmt.Errorf("vector weight must be in [0,1], got %g", vectorWeight)
	}
	return Request{
		query:        query,
		owner:        owner,
		k:            k,
		useHybrid:    useHybrid,
		vectorWeight: vectorWeight,
	}, nil
}

// Query returns the natural-language query string.
func (r *Request) Query() string { return r.query }

// Owner returns the owner filter.
func (r *Request) Owner() filter.Owner { return r.owner }

// K returns the requested result count.
func (r *Request) K() int { return r.k }

// UseHybrid reports whether lexical retrieval and fusion are enabled.
func (r *Request) UseHybrid() bool { return r.useHybrid }

// VectorWeight returns the requested vector path weight (currently unused).
func (r *Request) VectorWeight() float64 { return r.vectorWeight }
