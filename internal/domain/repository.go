package domain

import (
	"context"
)

// FlipRepository defines the interface for flip persistence operations.
// Aggregations recompute from scratch on every read, so implementations
// must return a consistent snapshot from List.
type FlipRepository interface {
	// AppendBatch appends a batch of flips to the collection.
	// Implementations must append all flips or none of them.
	AppendBatch(ctx context.Context, flips []Flip) error

	// List retrieves the full flip collection.
	List(ctx context.Context) ([]Flip, error)

	// Reset removes every flip in the collection.
	Reset(ctx context.Context) error
}
