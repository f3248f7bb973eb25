package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/cascade/pkg/domain"
)

// LoggingHooks logs triggers and drops at info level and applied
// descriptors at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrigger: func(ctx context.Context, e *domain.TriggerEvent) {
			logger.InfoContext(ctx, "trigger",
				"batch", e.BatchID,
				"entity", e.Entity,
				"kind", e.Kind,
				"descriptors", e.Descriptors,
			)
		},
		OnApply: func(ctx context.Context, e *domain.ApplyEvent) {
			logger.DebugContext(ctx, "apply",
				"batch", e.BatchID,
				"target", e.Target,
				"attribute", e.Kind,
				"change", e.Change,
			)
		},
		OnDrop: func(ctx context.Context, e *domain.ApplyEvent) {
			logger.InfoContext(ctx, "drop",
				"batch", e.BatchID,
				"target", e.Target,
				"attribute", e.Kind,
				"status", e.Status,
			)
		},
	}
}
