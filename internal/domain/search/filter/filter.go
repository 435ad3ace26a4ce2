// Package filter defines the typed owner predicate applied to every
// vector store operation. Owner scoping is a hard filter, never a
// ranking signal.
package filter

import (
	"fmt"

	"github.com/calyptra/retrievex/internal/domain"
)

// Owner is an equality predicate on the owner identifier.
type Owner struct {
	id int64
}

// NewOwner validates and creates an owner filter.
func NewOwner(id int64) (Owner, error) {
	if id <= 0 {
		return Owner{}, fmt.Errorf("%w: got %d", domain.ErrMissingOwner, id)
	}
	return Owner{id: id}, nil
}

// ID returns the owner identifier.
func (o Owner) ID() int64 { return o.id }
