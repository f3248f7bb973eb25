package scene

import (
	"errors"
	"fmt"

	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/domain"
)

// ErrInvalidScene is returned when a declared scene cannot be built.
var ErrInvalidScene = errors.New("invalid scene")

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

// Instance is a built scene: a populated in-memory graph plus the rule
// tables waiting to be attached to an engine.
type Instance struct {
	Name   string
	Graph  *memory.Scene
	Tables map[domain.EntityID][]domain.Rule
	// Order lists interactive entities in declaration order.
	Order []domain.EntityID
}

// Attacher is implemented by engines accepting rule tables.
type Attacher interface {
	Attach(entity domain.EntityID, rules ...domain.Rule) error
}

// Attach registers every rule table with eng.
func (in *Instance) Attach(eng Attacher) error {
	for _, id := range in.Order {
		if err := eng.Attach(id, in.Tables[id]...); err != nil {
			return fmt.Errorf("attach rules of %s: %w", id, err)
		}
	}
	return nil
}

// Build spawns the declared entities into a fresh memory.Scene and parses
// their rules. Parents may be declared after their children.
func Build(spec *Spec) (*Instance, error) {
	order, err := spawnOrder(spec.Entities)
	if err != nil {
		return nil, err
	}

	graph := memory.NewScene()
	in := &Instance{
		Name:   spec.Name,
		Graph:  graph,
		Tables: make(map[domain.EntityID][]domain.Rule),
	}
	ids := make(map[string]domain.EntityID, len(spec.Entities))

	for _, i := range order {
		e := spec.Entities[i]
		id, err := graph.Spawn(e.Name, ids[e.Parent], e.GroupMarkers()...)
		if err != nil {
			return nil, errorf("entity %q: %v", e.Name, err)
		}
		ids[e.Name] = id

		attrs, err := e.Attributes()
		if err != nil {
			return nil, err
		}
		if err := graph.Insert(id, attrs...); err != nil {
			return nil, errorf("entity %q: %v", e.Name, err)
		}
	}

	// Rule tables follow declaration order, not spawn order.
	for _, e := range spec.Entities {
		if len(e.Rules) == 0 {
			continue
		}
		id := ids[e.Name]
		rules := make([]domain.Rule, 0, len(e.Rules))
		for j, rs := range e.Rules {
			r, err := rs.Rule()
			if err != nil {
				return nil, errorf("entity %q rule %d: %v", e.Name, j, err)
			}
			rules = append(rules, r)
		}
		in.Tables[id] = rules
		in.Order = append(in.Order, id)
	}
	return in, nil
}

// spawnOrder returns entity indexes so that every parent precedes its
// children. Unknown parents, duplicate names and cycles are rejected.
func spawnOrder(entities []EntitySpec) ([]int, error) {
	byName := make(map[string]int, len(entities))
	for i, e := range entities {
		if e.Name == "" {
			return nil, errorf("entity %d has no name", i)
		}
		if _, dup := byName[e.Name]; dup {
			return nil, errorf("duplicate entity %q", e.Name)
		}
		byName[e.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(entities))
	order := make([]int, 0, len(entities))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return errorf("entity %q is its own ancestor", entities[i].Name)
		}
		state[i] = visiting
		if p := entities[i].Parent; p != "" {
			pi, ok := byName[p]
			if !ok {
				return errorf("entity %q: unknown parent %q", entities[i].Name, p)
			}
			if err := visit(pi); err != nil {
				return err
			}
		}
		state[i] = done
		order = append(order, i)
		return nil
	}

	for i := range entities {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}
