package ports

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
)

// Engine is the interface adapters (HTTP, MCP, CLI) drive.
type Engine interface {
	// Trigger runs the write phase for an interaction and queues its batch.
	Trigger(ctx context.Context, sig domain.Signal) (domain.Batch, error)

	// Press starts a drag on the entity; Release ends it.
	Press(e domain.EntityID)
	Release()

	// Tick runs the read phase: every queued batch is applied or dropped.
	Tick(ctx context.Context) (domain.TickReport, error)

	// Inspect returns a snapshot of every entity, in store order.
	Inspect() []domain.EntitySnapshot

	// Resolve maps an entity name to its handle.
	Resolve(name string) (domain.EntityID, bool)
}
