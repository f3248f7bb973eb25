package ports

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
)

// DescriptorQueue carries descriptor batches from the write phase of a tick
// to the applier. Implementations must preserve push order and hand batches
// out whole.
type DescriptorQueue interface {
	// Push appends a batch to the queue.
	Push(ctx context.Context, batch domain.Batch) error

	// Drain removes and returns every queued batch, oldest first.
	Drain(ctx context.Context) ([]domain.Batch, error)
}
