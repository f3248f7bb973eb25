package domain

import "fmt"

// AttrKind tags the type of an attribute. An entity holds at most one value per kind.
type AttrKind string

const (
	KindDisplay    AttrKind = "display"
	KindVisibility AttrKind = "visibility"
	KindSelection  AttrKind = "selection"
	KindSize       AttrKind = "size"
	KindPosition   AttrKind = "position"
	KindScroll     AttrKind = "scroll"
	KindIdentity   AttrKind = "identity"
)

// Attribute is a typed value attached to an entity.
type Attribute interface {
	Kind() AttrKind
	String() string
}

// Binary is implemented by attributes with exactly two states, one of which
// means "shown". Visibility-style changes operate on any Binary attribute.
type Binary interface {
	Attribute
	IsShown() bool
	Shown() Attribute
	Hidden() Attribute
}

// DisplayState is the layout display mode of an entity.
type DisplayState string

const (
	DisplayFlex DisplayState = "flex"
	DisplayNone DisplayState = "none"
)

// Display controls whether an entity takes part in layout.
type Display struct {
	State DisplayState `json:"state"`
}

func (Display) Kind() AttrKind    { return KindDisplay }
func (d Display) String() string  { return "display(" + string(d.State) + ")" }
func (d Display) IsShown() bool   { return d.State == DisplayFlex }
func (Display) Shown() Attribute  { return Display{State: DisplayFlex} }
func (Display) Hidden() Attribute { return Display{State: DisplayNone} }

// VisibilityState is the render visibility of an entity.
type VisibilityState string

const (
	Visible VisibilityState = "visible"
	Hidden  VisibilityState = "hidden"
)

// Visibility controls whether an entity is drawn.
type Visibility struct {
	State VisibilityState `json:"state"`
}

func (Visibility) Kind() AttrKind    { return KindVisibility }
func (v Visibility) String() string  { return "visibility(" + string(v.State) + ")" }
func (v Visibility) IsShown() bool   { return v.State == Visible }
func (Visibility) Shown() Attribute  { return Visibility{State: Visible} }
func (Visibility) Hidden() Attribute { return Visibility{State: Hidden} }

// Selection marks an entity of the selectable family as selected.
type Selection struct {
	Selected bool `json:"selected"`
}

func (Selection) Kind() AttrKind    { return KindSelection }
func (s Selection) IsShown() bool   { return s.Selected }
func (Selection) Shown() Attribute  { return Selection{Selected: true} }
func (Selection) Hidden() Attribute { return Selection{Selected: false} }

func (s Selection) String() string {
	if s.Selected {
		return "selection(selected)"
	}
	return "selection(unselected)"
}

// Size is the layout size of an entity, declared as (height, width).
type Size struct {
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
}

func (Size) Kind() AttrKind      { return KindSize }
func (s Size) String() string    { return fmt.Sprintf("size(%g,%g)", s.Height, s.Width) }
func (s Size) Equal(o Size) bool { return s.Height == o.Height && s.Width == o.Width }

// Offset is a two dimensional offset. The same shape serves the drag
// position and the scroll position, told apart by Target.
type Offset struct {
	Target AttrKind `json:"target"`
	Value  Vec2     `json:"value"`
}

// Position returns a drag offset attribute.
func Position(x, y float64) Offset { return Offset{Target: KindPosition, Value: Vec2{X: x, Y: y}} }

// ScrollPosition returns a scroll offset attribute.
func ScrollPosition(x, y float64) Offset { return Offset{Target: KindScroll, Value: Vec2{X: x, Y: y}} }

func (o Offset) Kind() AttrKind {
	if o.Target == "" {
		return KindPosition
	}
	return o.Target
}

func (o Offset) String() string {
	return fmt.Sprintf("%s(%g,%g)", o.Kind(), o.Value.X, o.Value.Y)
}

// Identity is the numeric identity used by custom propagation lists.
type Identity struct {
	Value float64 `json:"value"`
}

func (Identity) Kind() AttrKind   { return KindIdentity }
func (i Identity) String() string { return fmt.Sprintf("identity(%g)", i.Value) }

var (
	_ Binary = Display{}
	_ Binary = Visibility{}
	_ Binary = Selection{}
)
