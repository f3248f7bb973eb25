package cascade

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/aretw0/cascade/pkg/registry"
	"github.com/google/uuid"
)

// DefaultLeaseTTL bounds how long one host may hold the apply lease.
const DefaultLeaseTTL = 5 * time.Second

// Engine is the high-level entry point for the cascade library.
// It wraps the internal runtime and drives the two-phase tick: triggers run
// the write phase and queue batches, Tick runs the read phase.
type Engine struct {
	mu       sync.Mutex
	runtime  *runtime.Engine
	scene    ports.SceneGraph
	queue    ports.DescriptorQueue
	session  *domain.Session
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	newID    func() string
	tick     uint64

	locker   ports.DistributedLocker
	leaseKey string
	leaseTTL time.Duration

	Name string
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithQueue replaces the default in-memory descriptor queue.
func WithQueue(q ports.DescriptorQueue) Option {
	return func(e *Engine) {
		e.queue = q
	}
}

// WithRegistry sets the change registry rule tables are compiled against.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithApplyLocker makes Tick hold a distributed lease on key while it drains
// and applies, so hosts sharing one queue never apply concurrently.
func WithApplyLocker(locker ports.DistributedLocker, key string, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.leaseKey = key
		e.leaseTTL = ttl
	}
}

// WithName labels the engine; the name is added to every log line.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithIDGenerator overrides batch ID generation (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// New creates an engine propagating over scene.
func New(scene ports.SceneGraph, opts ...Option) *Engine {
	eng := &Engine{
		scene:   scene,
		session: domain.NewSession(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("scene", eng.Name)
	}
	if eng.queue == nil {
		eng.queue = memory.NewQueue()
	}
	if eng.registry == nil {
		eng.registry = registry.Default()
	}
	if eng.leaseTTL <= 0 {
		eng.leaseTTL = DefaultLeaseTTL
	}
	if eng.leaseKey == "" {
		eng.leaseKey = "cascade:" + eng.Name
	}

	eng.runtime = runtime.NewEngine(scene,
		runtime.WithLogger(eng.logger),
		runtime.WithRegistry(eng.registry),
	)
	return eng
}

// Attach registers the rule table of an interactive entity.
// Rules are compiled now; a bad rule fails here rather than on a click.
func (e *Engine) Attach(entity domain.EntityID, rules ...domain.Rule) error {
	return e.runtime.Attach(entity, rules...)
}

// Detach drops the rule table of an entity.
func (e *Engine) Detach(entity domain.EntityID) {
	e.runtime.Detach(entity)
}

// Rules returns the rules attached to entity.
func (e *Engine) Rules(entity domain.EntityID) []domain.Rule {
	return e.runtime.Rules(entity)
}

// Interactive lists the entities owning a rule table, in attach order.
func (e *Engine) Interactive() []domain.EntityID {
	return e.runtime.Interactive()
}

// Targets returns the entities rule currently resolves to from entity,
// before any predicate is checked.
func (e *Engine) Targets(entity domain.EntityID, rule domain.Rule) []domain.EntityID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runtime.Resolve(entity, rule.Group, rule.Action.Relationship)
}

// Scene returns the underlying scene graph.
func (e *Engine) Scene() ports.SceneGraph {
	return e.scene
}

// Trigger runs the write phase for sig and queues the resulting batch.
// Only queue transport failures are returned; an interaction that resolves
// to nothing yields an empty batch.
func (e *Engine) Trigger(ctx context.Context, sig domain.Signal) (domain.Batch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	batch := domain.Batch{
		ID:          e.newID(),
		Tick:        e.currentTick(),
		Signal:      sig,
		Descriptors: e.runtime.OnTrigger(sig, e.session),
	}

	if e.hooks.OnTrigger != nil {
		e.hooks.OnTrigger(ctx, &domain.TriggerEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventTrigger, Tick: batch.Tick},
			BatchID:     batch.ID,
			Entity:      sig.Entity,
			Kind:        sig.Kind,
			Descriptors: len(batch.Descriptors),
		})
	}
	e.logger.DebugContext(ctx, "trigger",
		"batch", batch.ID, "entity", sig.Entity, "kind", sig.Kind, "descriptors", len(batch.Descriptors))

	if batch.Empty() {
		return batch, nil
	}
	if err := e.queue.Push(ctx, batch); err != nil {
		return batch, fmt.Errorf("queue batch %s: %w", batch.ID, err)
	}
	return batch, nil
}

// Press starts a drag on entity.
func (e *Engine) Press(entity domain.EntityID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.BeginDrag(entity)
}

// Release ends the active drag, discarding any unconsumed cursor delta.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.EndDrag()
}

// Move accumulates cursor movement for the next drag rule.
func (e *Engine) Move(delta domain.Vec2) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.AddCursorDelta(delta)
}

// Scroll accumulates wheel movement for the next scroll rule.
func (e *Engine) Scroll(delta domain.Vec2) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.AddScrollDelta(delta)
}

// Session returns a copy of the session context.
func (e *Engine) Session() domain.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot()
}

// Tick runs the read phase: every queued batch is drained in order and each
// of its descriptors applied or dropped exactly once. The store tick then
// advances, closing the frame; cursor and scroll movement no trigger
// consumed during the frame is discarded.
func (e *Engine) Tick(ctx context.Context) (domain.TickReport, error) {
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, e.leaseKey, e.leaseTTL)
		if err != nil {
			return domain.TickReport{}, fmt.Errorf("acquire apply lease: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				e.logger.WarnContext(ctx, "release apply lease", "key", e.leaseKey, "err", err)
			}
		}()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	report := domain.TickReport{Tick: e.currentTick()}
	batches, err := e.queue.Drain(ctx)
	if err != nil {
		return report, fmt.Errorf("drain queue: %w", err)
	}
	report.Batches = len(batches)

	for _, b := range batches {
		for _, d := range b.Descriptors {
			res := e.runtime.Apply(d)
			report.Results = append(report.Results, res)
			e.emitApply(ctx, b, res)
		}
	}

	e.advance()
	if e.session.DiscardDeltas() {
		e.logger.DebugContext(ctx, "unconsumed input discarded", "tick", report.Tick)
	}
	if e.hooks.OnTick != nil {
		e.hooks.OnTick(ctx, &domain.TickEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTick, Tick: report.Tick},
			Batches:   report.Batches,
			Applied:   report.Applied(),
			Dropped:   report.Dropped(),
		})
	}
	if report.Batches > 0 {
		e.logger.DebugContext(ctx, "tick",
			"tick", report.Tick, "batches", report.Batches, "applied", report.Applied(), "dropped", report.Dropped())
	}
	return report, nil
}

func (e *Engine) emitApply(ctx context.Context, b domain.Batch, res domain.ApplyResult) {
	ev := &domain.ApplyEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventApply, Tick: b.Tick},
		BatchID:   b.ID,
		Target:    res.Descriptor.Target,
		Kind:      res.Descriptor.Kind,
		Change:    res.Descriptor.Change,
		Status:    res.Status,
	}
	if res.Applied() {
		if e.hooks.OnApply != nil {
			e.hooks.OnApply(ctx, ev)
		}
		return
	}
	ev.Type = domain.EventDrop
	if e.hooks.OnDrop != nil {
		e.hooks.OnDrop(ctx, ev)
	}
}

// currentTick reads the store's tick when it tracks changes, else the
// engine's own frame counter.
func (e *Engine) currentTick() uint64 {
	if feed, ok := e.scene.(ports.ChangeFeed); ok {
		return feed.Tick()
	}
	return e.tick
}

func (e *Engine) advance() {
	if feed, ok := e.scene.(ports.ChangeFeed); ok {
		e.tick = feed.Advance()
		return
	}
	e.tick++
}

// Changes returns the attribute writes recorded at or after tick, when the
// store tracks them.
func (e *Engine) Changes(since uint64) []domain.AttributeChange {
	if feed, ok := e.scene.(ports.ChangeFeed); ok {
		return feed.ChangedSince(since)
	}
	return nil
}

// Inspect returns a snapshot of every entity in store order.
func (e *Engine) Inspect() []domain.EntitySnapshot {
	ids := e.scene.Entities()
	out := make([]domain.EntitySnapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := e.Describe(id); ok {
			out = append(out, snap)
		}
	}
	return out
}

// Describe returns a snapshot of one entity.
func (e *Engine) Describe(id domain.EntityID) (domain.EntitySnapshot, bool) {
	if in, ok := e.scene.(ports.Inspector); ok {
		return in.Describe(id)
	}
	if !e.scene.Exists(id) {
		return domain.EntitySnapshot{}, false
	}
	snap := domain.EntitySnapshot{ID: id, Children: e.scene.Children(id)}
	if p, ok := e.scene.Parent(id); ok {
		snap.Parent = p
	}
	return snap, true
}

// Resolve maps an entity name to its handle when the store keeps names.
func (e *Engine) Resolve(name string) (domain.EntityID, bool) {
	if in, ok := e.scene.(ports.Inspector); ok {
		return in.Lookup(name)
	}
	return 0, false
}
