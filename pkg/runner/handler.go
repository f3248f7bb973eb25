package runner

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
)

// Handler presents what a run does. Text (terminal) and JSON (structured)
// handlers are provided.
type Handler interface {
	// Triggered reports the batch produced by a trigger step.
	Triggered(ctx context.Context, step Step, batch domain.Batch) error

	// Ticked reports one applier pass.
	Ticked(ctx context.Context, report domain.TickReport) error

	// Inspected reports the state of one entity.
	Inspected(ctx context.Context, snap domain.EntitySnapshot) error

	// SystemOutput presents a meta-message (errors, session changes).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer turns markdown into terminal output.
type ContentRenderer func(markdown string) (string, error)
