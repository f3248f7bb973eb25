package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTrigger EventType = "trigger"
	EventApply   EventType = "apply"
	EventDrop    EventType = "drop"
	EventTick    EventType = "tick"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Tick      uint64    `json:"tick"`
}

// TriggerEvent is emitted once per trigger, after the factory ran.
type TriggerEvent struct {
	EventBase
	BatchID     string      `json:"batch_id"`
	Entity      EntityID    `json:"entity"`
	Kind        TriggerKind `json:"kind"`
	Descriptors int         `json:"descriptors"`
}

// ApplyEvent is emitted for every descriptor handled by the applier.
type ApplyEvent struct {
	EventBase
	BatchID string      `json:"batch_id"`
	Target  EntityID    `json:"target"`
	Kind    AttrKind    `json:"kind"`
	Change  ChangeKind  `json:"change"`
	Status  ApplyStatus `json:"status"`
}

// TickEvent is emitted at the end of every applier pass.
type TickEvent struct {
	EventBase
	Batches int `json:"batches"`
	Applied int `json:"applied"`
	Dropped int `json:"dropped"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTrigger func(context.Context, *TriggerEvent)
	OnApply   func(context.Context, *ApplyEvent)
	OnDrop    func(context.Context, *ApplyEvent)
	OnTick    func(context.Context, *TickEvent)
}

// Merge returns hooks that call h first and then o.
func (h LifecycleHooks) Merge(o LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTrigger: chain(h.OnTrigger, o.OnTrigger),
		OnApply:   chain(h.OnApply, o.OnApply),
		OnDrop:    chain(h.OnDrop, o.OnDrop),
		OnTick:    chain(h.OnTick, o.OnTick),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
