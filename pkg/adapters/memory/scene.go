package memory

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/cascade/pkg/domain"
)

type node struct {
	name     string
	parent   domain.EntityID
	children []domain.EntityID
	groups   map[domain.Group]struct{}
	attrs    map[domain.AttrKind]domain.Attribute
	changed  map[domain.AttrKind]uint64
}

// Scene implements ports.SceneGraph, ports.ChangeFeed and ports.Inspector in memory.
// It enforces the single-parent, acyclic adjacency invariant on every mutation.
// Safe for concurrent use.
type Scene struct {
	mu    sync.RWMutex
	next  domain.EntityID
	order []domain.EntityID
	nodes map[domain.EntityID]*node
	names map[string]domain.EntityID
	tick  uint64
}

// NewScene creates an empty scene at tick 0.
func NewScene() *Scene {
	return &Scene{
		nodes: make(map[domain.EntityID]*node),
		names: make(map[string]domain.EntityID),
	}
}

// Spawn creates an entity under parent (zero for a root) carrying the given
// group markers. Names are optional but must be unique when set.
func (s *Scene) Spawn(name string, parent domain.EntityID, groups ...domain.Group) (domain.EntityID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parent.Valid() {
		if _, ok := s.nodes[parent]; !ok {
			return 0, fmt.Errorf("parent %s: %w", parent, domain.ErrUnknownEntity)
		}
	}
	if name != "" {
		if _, dup := s.names[name]; dup {
			return 0, fmt.Errorf("entity name %q already in use", name)
		}
	}

	s.next++
	id := s.next
	n := &node{
		name:    name,
		parent:  parent,
		groups:  make(map[domain.Group]struct{}, len(groups)),
		attrs:   make(map[domain.AttrKind]domain.Attribute),
		changed: make(map[domain.AttrKind]uint64),
	}
	for _, g := range groups {
		n.groups[g] = struct{}{}
	}
	s.nodes[id] = n
	s.order = append(s.order, id)
	if name != "" {
		s.names[name] = id
	}
	if parent.Valid() {
		p := s.nodes[parent]
		p.children = append(p.children, id)
	}
	return id, nil
}

// Insert attaches initial attributes without recording them as changes.
func (s *Scene) Insert(e domain.EntityID, attrs ...domain.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[e]
	if !ok {
		return fmt.Errorf("insert on %s: %w", e, domain.ErrUnknownEntity)
	}
	for _, a := range attrs {
		n.attrs[a.Kind()] = a
	}
	return nil
}

// Remove detaches an attribute kind from the entity.
func (s *Scene) Remove(e domain.EntityID, kind domain.AttrKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[e]; ok {
		delete(n.attrs, kind)
		delete(n.changed, kind)
	}
}

// AddGroup marks the entity as part of a propagation family.
func (s *Scene) AddGroup(e domain.EntityID, g domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[e]
	if !ok {
		return fmt.Errorf("add group on %s: %w", e, domain.ErrUnknownEntity)
	}
	n.groups[g] = struct{}{}
	return nil
}

// Reparent moves e under parent (zero for a root). Moves that would create a
// cycle are rejected.
func (s *Scene) Reparent(e, parent domain.EntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[e]
	if !ok {
		return fmt.Errorf("reparent %s: %w", e, domain.ErrUnknownEntity)
	}
	if parent.Valid() {
		if _, ok := s.nodes[parent]; !ok {
			return fmt.Errorf("reparent %s under %s: %w", e, parent, domain.ErrUnknownEntity)
		}
		for cur := parent; cur.Valid(); cur = s.nodes[cur].parent {
			if cur == e {
				return fmt.Errorf("reparent %s under %s would create a cycle", e, parent)
			}
		}
	}

	s.detach(e, n)
	n.parent = parent
	if parent.Valid() {
		p := s.nodes[parent]
		p.children = append(p.children, e)
	}
	return nil
}

// Despawn removes the entity and its whole subtree.
func (s *Scene) Despawn(e domain.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[e]
	if !ok {
		return
	}
	s.detach(e, n)

	stack := []domain.EntityID{e}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur, ok := s.nodes[id]
		if !ok {
			continue
		}
		stack = append(stack, cur.children...)
		if cur.name != "" {
			delete(s.names, cur.name)
		}
		delete(s.nodes, id)
	}
	s.order = slices.DeleteFunc(s.order, func(id domain.EntityID) bool {
		_, alive := s.nodes[id]
		return !alive
	})
}

func (s *Scene) detach(e domain.EntityID, n *node) {
	if !n.parent.Valid() {
		return
	}
	if p, ok := s.nodes[n.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(c domain.EntityID) bool { return c == e })
	}
}

// Exists implements ports.SceneGraph.
func (s *Scene) Exists(e domain.EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[e]
	return ok
}

// Parent implements ports.SceneGraph.
func (s *Scene) Parent(e domain.EntityID) (domain.EntityID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[e]
	if !ok || !n.parent.Valid() {
		return 0, false
	}
	return n.parent, true
}

// Children implements ports.SceneGraph.
func (s *Scene) Children(e domain.EntityID) []domain.EntityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[e]
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// Entities implements ports.SceneGraph. Entities are returned in spawn order.
func (s *Scene) Entities() []domain.EntityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// HasGroup implements ports.SceneGraph.
func (s *Scene) HasGroup(e domain.EntityID, g domain.Group) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[e]
	if !ok {
		return false
	}
	_, has := n.groups[g]
	return has
}

// Has implements ports.SceneGraph.
func (s *Scene) Has(e domain.EntityID, kind domain.AttrKind) bool {
	_, ok := s.Get(e, kind)
	return ok
}

// Get implements ports.SceneGraph.
func (s *Scene) Get(e domain.EntityID, kind domain.AttrKind) (domain.Attribute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[e]
	if !ok {
		return nil, false
	}
	a, ok := n.attrs[kind]
	return a, ok
}

// Set implements ports.SceneGraph and records the write at the current tick.
func (s *Scene) Set(e domain.EntityID, value domain.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[e]
	if !ok {
		return fmt.Errorf("set %s on %s: %w", value.Kind(), e, domain.ErrUnknownEntity)
	}
	n.attrs[value.Kind()] = value
	n.changed[value.Kind()] = s.tick
	return nil
}

// Tick implements ports.ChangeFeed.
func (s *Scene) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Advance implements ports.ChangeFeed.
func (s *Scene) Advance() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick++
	return s.tick
}

// ChangedSince implements ports.ChangeFeed. Changes are ordered by entity
// spawn order, then attribute kind.
func (s *Scene) ChangedSince(tick uint64) []domain.AttributeChange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AttributeChange
	for _, id := range s.order {
		n := s.nodes[id]
		kinds := make([]domain.AttrKind, 0, len(n.changed))
		for k, t := range n.changed {
			if t >= tick {
				kinds = append(kinds, k)
			}
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
		for _, k := range kinds {
			out = append(out, domain.AttributeChange{Entity: id, Kind: k, Tick: n.changed[k]})
		}
	}
	return out
}

// Lookup implements ports.Inspector.
func (s *Scene) Lookup(name string) (domain.EntityID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.names[name]
	return id, ok
}

// Describe implements ports.Inspector.
func (s *Scene) Describe(e domain.EntityID) (domain.EntitySnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[e]
	if !ok {
		return domain.EntitySnapshot{}, false
	}
	snap := domain.EntitySnapshot{
		ID:       e,
		Name:     n.name,
		Parent:   n.parent,
		Children: slices.Clone(n.children),
	}
	for g := range n.groups {
		snap.Groups = append(snap.Groups, g)
	}
	slices.Sort(snap.Groups)

	kinds := make([]domain.AttrKind, 0, len(n.attrs))
	for k := range n.attrs {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		snap.Attributes = append(snap.Attributes, n.attrs[k])
	}
	return snap, true
}
