package memory

import (
	"context"
	"sync"

	"github.com/aretw0/cascade/pkg/domain"
)

// Queue implements ports.DescriptorQueue in memory.
// Safe for concurrent use.
type Queue struct {
	batches []domain.Batch
	mu      sync.Mutex
}

// NewQueue creates a new in-memory queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a batch.
func (q *Queue) Push(ctx context.Context, batch domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Copy the descriptor slice so the caller can't mutate queued state by pointer
	batch.Descriptors = append([]domain.EventDescriptor(nil), batch.Descriptors...)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.batches = append(q.batches, batch)
	return nil
}

// Drain removes and returns every queued batch, oldest first.
func (q *Queue) Drain(ctx context.Context) ([]domain.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.batches
	q.batches = nil
	return out, nil
}

// Len returns the number of queued batches.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batches)
}
