package runtime

import (
	"log/slog"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/aretw0/cascade/pkg/registry"
)

// Engine is the core propagation runtime: it owns the rule tables and turns
// triggers into descriptors (write phase) and descriptors into attribute
// writes (read phase). It holds no queue and no session; the caller threads
// those through.
type Engine struct {
	graph    ports.SceneGraph
	resolver *Resolver
	rules    *Rulebook
	registry *registry.Registry
	logger   *slog.Logger
}

// EngineOption configures the runtime Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRegistry sets the change registry rule tables are compiled against.
func WithRegistry(r *registry.Registry) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// NewEngine creates a runtime reading and writing through graph.
func NewEngine(graph ports.SceneGraph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:    graph,
		registry: registry.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = NewResolver(graph, e.logger)
	e.rules = NewRulebook(e.registry)
	return e
}

// Attach compiles and registers the rule table of an interactive entity.
func (e *Engine) Attach(entity domain.EntityID, rules ...domain.Rule) error {
	if err := e.rules.Attach(entity, rules...); err != nil {
		return err
	}
	e.logger.Debug("rule table attached", "entity", entity, "rules", len(rules))
	return nil
}

// Detach drops the rule table of an entity.
func (e *Engine) Detach(entity domain.EntityID) {
	e.rules.Detach(entity)
}

// Rules returns the declared rules attached to entity.
func (e *Engine) Rules(entity domain.EntityID) []domain.Rule {
	return e.rules.Rules(entity)
}

// Interactive lists the entities that own a rule table.
func (e *Engine) Interactive() []domain.EntityID {
	return e.rules.Entities()
}

// Resolve exposes the relationship resolver.
func (e *Engine) Resolve(source domain.EntityID, group domain.Group, rel domain.Relationship) []domain.EntityID {
	return e.resolver.Resolve(source, group, rel)
}

// Matches reports whether entity's current state satisfies p. Nil and "any"
// predicates always match; others fail on a missing attribute.
func Matches(graph ports.SceneGraph, entity domain.EntityID, p domain.Predicate) bool {
	if p == nil || p.IsAny() {
		return true
	}
	a, ok := graph.Get(entity, p.Kind())
	if !ok {
		return false
	}
	return p.Matches(a)
}
