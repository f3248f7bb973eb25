package ports

import "github.com/aretw0/cascade/pkg/domain"

// SceneGraph is the engine's view of the scene graph store. Reads are taken
// at call time; the engine never caches adjacency or attributes across calls.
type SceneGraph interface {
	// Exists reports whether the entity is alive.
	Exists(e domain.EntityID) bool

	// Parent returns the entity's parent, if any.
	Parent(e domain.EntityID) (domain.EntityID, bool)

	// Children returns the entity's children in order.
	Children(e domain.EntityID) []domain.EntityID

	// Entities returns the whole entity population.
	Entities() []domain.EntityID

	// HasGroup reports whether the entity carries the transition-group marker.
	HasGroup(e domain.EntityID, g domain.Group) bool

	// Has reports whether the entity carries an attribute of the given kind.
	Has(e domain.EntityID, kind domain.AttrKind) bool

	// Get returns the entity's attribute of the given kind.
	Get(e domain.EntityID, kind domain.AttrKind) (domain.Attribute, bool)

	// Set overwrites the entity's attribute of the value's kind in place.
	// Returns domain.ErrUnknownEntity if the entity does not exist.
	Set(e domain.EntityID, value domain.Attribute) error
}

// ChangeFeed exposes the store's per-attribute change tracking, so downstream
// reactors (renderers, companion-component systems) can observe writes.
type ChangeFeed interface {
	// Tick returns the store's current tick.
	Tick() uint64

	// Advance closes the current tick and returns the new one.
	Advance() uint64

	// ChangedSince returns every attribute written at or after tick.
	ChangedSince(tick uint64) []domain.AttributeChange
}

// Inspector is implemented by stores able to describe their entities.
type Inspector interface {
	Describe(e domain.EntityID) (domain.EntitySnapshot, bool)
	Lookup(name string) (domain.EntityID, bool)
}
