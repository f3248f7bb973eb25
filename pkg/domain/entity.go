package domain

import "fmt"

// EntityID is an opaque handle into the scene graph store.
// The zero value never refers to a live entity.
type EntityID uint64

// Valid reports whether the handle may refer to an entity.
func (id EntityID) Valid() bool { return id != 0 }

func (id EntityID) String() string { return fmt.Sprintf("e%d", uint64(id)) }

// Vec2 is a two dimensional vector used for cursor, scroll and offset values.
type Vec2 struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// AttributeChange records that an entity's attribute was written during a tick.
type AttributeChange struct {
	Entity EntityID `json:"entity"`
	Kind   AttrKind `json:"kind"`
	Tick   uint64   `json:"tick"`
}

// EntitySnapshot is a read-only view of one entity for inspection tools.
type EntitySnapshot struct {
	ID         EntityID    `json:"id"`
	Name       string      `json:"name,omitempty"`
	Parent     EntityID    `json:"parent,omitempty"`
	Children   []EntityID  `json:"children,omitempty"`
	Groups     []Group     `json:"groups,omitempty"`
	Attributes []Attribute `json:"-"`
}
