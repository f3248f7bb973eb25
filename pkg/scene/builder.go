package scene

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
)

// Builder constructs a scene spec with a fluent API, for tests and hosts
// that prefer code over scene files.
type Builder struct {
	spec     Spec
	entities map[string]*EntityBuilder
	order    []*EntityBuilder
}

// New creates a new scene builder.
func New(name string) *Builder {
	return &Builder{
		spec:     Spec{Name: name},
		entities: make(map[string]*EntityBuilder),
	}
}

// Entity declares an entity, or returns the existing builder for name.
func (b *Builder) Entity(name string) *EntityBuilder {
	if eb, ok := b.entities[name]; ok {
		return eb
	}
	eb := &EntityBuilder{spec: EntitySpec{Name: name}}
	b.entities[name] = eb
	b.order = append(b.order, eb)
	return eb
}

// Spec returns the declared scene.
func (b *Builder) Spec() *Spec {
	spec := Spec{Name: b.spec.Name}
	for _, eb := range b.order {
		spec.Entities = append(spec.Entities, eb.spec)
	}
	return &spec
}

// Load implements Source.
func (b *Builder) Load(ctx context.Context) (*Spec, error) {
	return b.Spec(), ctx.Err()
}

// Build compiles the declared scene.
func (b *Builder) Build() (*Instance, error) {
	return Build(b.Spec())
}

// EntityBuilder provides a fluent API for configuring an entity.
type EntityBuilder struct {
	spec EntitySpec
}

// Under sets the parent entity by name.
func (e *EntityBuilder) Under(parent string) *EntityBuilder {
	e.spec.Parent = parent
	return e
}

// In adds transition group markers.
func (e *EntityBuilder) In(groups ...domain.Group) *EntityBuilder {
	for _, g := range groups {
		e.spec.Groups = append(e.spec.Groups, string(g))
	}
	return e
}

// Display sets the initial display mode.
func (e *EntityBuilder) Display(s domain.DisplayState) *EntityBuilder {
	e.spec.Display = string(s)
	return e
}

// Visibility sets the initial visibility.
func (e *EntityBuilder) Visibility(s domain.VisibilityState) *EntityBuilder {
	e.spec.Visibility = string(s)
	return e
}

// Selected sets the initial selection flag.
func (e *EntityBuilder) Selected(v bool) *EntityBuilder {
	e.spec.Selected = &v
	return e
}

// Size sets the initial (height, width).
func (e *EntityBuilder) Size(h, w float64) *EntityBuilder {
	e.spec.Size = &domain.Size{Height: h, Width: w}
	return e
}

// Position sets the initial drag offset.
func (e *EntityBuilder) Position(x, y float64) *EntityBuilder {
	e.spec.Position = &domain.Vec2{X: x, Y: y}
	return e
}

// Scroll sets the initial scroll offset.
func (e *EntityBuilder) Scroll(x, y float64) *EntityBuilder {
	e.spec.Scroll = &domain.Vec2{X: x, Y: y}
	return e
}

// Identity sets the numeric identity used by custom relationships.
func (e *EntityBuilder) Identity(v float64) *EntityBuilder {
	e.spec.Identity = &v
	return e
}

// On appends a rule in its textual form.
func (e *EntityBuilder) On(r RuleSpec) *EntityBuilder {
	e.spec.Rules = append(e.spec.Rules, r)
	return e
}
