package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/cascade/pkg/algebra"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
)

// TargetFunc returns the attribute kind a change writes.
type TargetFunc func(change domain.Change) domain.AttrKind

// Behavior is what the engine needs to know about a change kind: which
// attribute it reads and writes, and how it computes the new value.
type Behavior struct {
	Target  TargetFunc
	Algebra ports.ChangeAlgebra
	// Frozen kinds consume session input when they are computed, so the value
	// produced at trigger time is written as is. Other kinds are recomputed
	// against the target's state when applied.
	Frozen bool
}

// Registry maps change kinds to their behaviour.
// Rule tables are compiled against it when they are attached.
type Registry struct {
	mu        sync.RWMutex
	behaviors map[domain.ChangeKind]Behavior
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[domain.ChangeKind]Behavior),
	}
}

// Default returns a registry holding the built-in change kinds.
func Default() *Registry {
	r := NewRegistry()
	binary := func(c domain.Change) domain.AttrKind {
		if c.Attribute == "" {
			return domain.KindDisplay
		}
		return c.Attribute
	}
	fixed := func(k domain.AttrKind) TargetFunc {
		return func(domain.Change) domain.AttrKind { return k }
	}
	compute := ports.AlgebraFunc(algebra.Compute)

	r.Register(domain.ChangeRemoveVisible, Behavior{Target: binary, Algebra: compute})
	r.Register(domain.ChangeAddVisible, Behavior{Target: binary, Algebra: compute})
	r.Register(domain.ChangeToggleVisible, Behavior{Target: binary, Algebra: compute})
	r.Register(domain.ChangeSwapSize, Behavior{Target: fixed(domain.KindSize), Algebra: compute})
	r.Register(domain.ChangeUpdateSize, Behavior{Target: fixed(domain.KindSize), Algebra: compute})
	r.Register(domain.ChangeDragAxis, Behavior{Target: fixed(domain.KindPosition), Algebra: compute, Frozen: true})
	r.Register(domain.ChangeScrollAxis, Behavior{Target: fixed(domain.KindScroll), Algebra: compute, Frozen: true})
	return r
}

// Register adds a change kind to the registry.
// If a behaviour with the same kind exists, it is overwritten.
func (r *Registry) Register(kind domain.ChangeKind, b Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[kind] = b
}

// Lookup returns the behaviour registered for kind.
func (r *Registry) Lookup(kind domain.ChangeKind) (Behavior, error) {
	r.mu.RLock()
	b, ok := r.behaviors[kind]
	r.mu.RUnlock()

	if !ok || b.Target == nil || b.Algebra == nil {
		return Behavior{}, fmt.Errorf("%w: %s", domain.ErrUnknownChange, kind)
	}
	return b, nil
}

// Kinds lists the registered change kinds in lexical order.
func (r *Registry) Kinds() []domain.ChangeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ChangeKind, 0, len(r.behaviors))
	for k := range r.behaviors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
