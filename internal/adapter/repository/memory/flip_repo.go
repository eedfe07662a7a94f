// Package memory provides an in-memory flip repository, used as the
// default server backend and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// flipRepository implements domain.FlipRepository over a mutex-guarded
// slice.
type flipRepository struct {
	mu    sync.RWMutex
	flips []domain.Flip
}

// NewFlipRepository creates a new in-memory flip repository.
func NewFlipRepository() domain.FlipRepository {
	return &flipRepository{}
}

// AppendBatch appends all flips under a single lock acquisition.
func (r *flipRepository) AppendBatch(_ context.Context, flips []domain.Flip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flips = append(r.flips, flips...)
	return nil
}

// List returns a snapshot copy of the collection.
func (r *flipRepository) List(_ context.Context) ([]domain.Flip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Flip, len(r.flips))
	copy(out, r.flips)
	return out, nil
}

// Reset removes every flip.
func (r *flipRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flips = nil
	return nil
}
