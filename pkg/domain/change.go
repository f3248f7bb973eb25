package domain

import (
	"fmt"
	"slices"
	"strings"
)

// ChangeKind names a change descriptor. The built-in set is closed but hosts
// may register further kinds with the registry.
type ChangeKind string

const (
	ChangeRemoveVisible ChangeKind = "remove_visible"
	ChangeAddVisible    ChangeKind = "add_visible"
	ChangeToggleVisible ChangeKind = "change_visible"
	ChangeSwapSize      ChangeKind = "change_size"
	ChangeUpdateSize    ChangeKind = "update_size"
	ChangeDragAxis      ChangeKind = "drag_axis"
	ChangeScrollAxis    ChangeKind = "scroll_axis"
)

// Axis selects which delta components a drag or scroll change applies.
type Axis string

const (
	AxisX  Axis = "x"
	AxisY  Axis = "y"
	AxisXY Axis = "xy"
)

// ParseAxis parses "x", "y" or "xy". Empty defaults to "xy".
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AxisXY, nil
	case AxisX, AxisY, AxisXY:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown axis %q", ErrInvalidRule, s)
	}
}

// Project keeps only the components of v selected by the axis.
func (a Axis) Project(v Vec2) Vec2 {
	switch a {
	case AxisX:
		return Vec2{X: v.X}
	case AxisY:
		return Vec2{Y: v.Y}
	default:
		return v
	}
}

// IDFilter narrows the candidates of a change by their identity attribute.
// Include, when set, admits only listed identities; Exclude drops listed ones.
type IDFilter struct {
	Include []float64 `json:"include,omitempty"`
	Exclude []float64 `json:"exclude,omitempty"`
}

// Allows reports whether an entity with the given identity passes the filter.
// has is false when the entity carries no identity attribute.
func (f *IDFilter) Allows(id float64, has bool) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && (!has || !slices.Contains(f.Include, id)) {
		return false
	}
	if has && slices.Contains(f.Exclude, id) {
		return false
	}
	return true
}

// Change is a declared change descriptor. Which fields are read depends on Kind:
// binary changes read Attribute, change_size reads From and To, update_size
// reads To, axis changes read Axis.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	Attribute AttrKind   `json:"attribute,omitempty"`
	From      Size       `json:"from,omitempty"`
	To        Size       `json:"to,omitempty"`
	Axis      Axis       `json:"axis,omitempty"`
	Filter    *IDFilter  `json:"filter,omitempty"`
}

// RemoveVisible hides every candidate that is currently shown.
func RemoveVisible() Change { return Change{Kind: ChangeRemoveVisible, Attribute: KindDisplay} }

// AddVisible shows every candidate that is currently hidden.
func AddVisible() Change { return Change{Kind: ChangeAddVisible, Attribute: KindDisplay} }

// ChangeVisible flips every candidate between shown and hidden.
func ChangeVisible() Change { return Change{Kind: ChangeToggleVisible, Attribute: KindDisplay} }

// ChangeSize swaps between the declared (h1,w1) and (h2,w2) pairs.
func ChangeSize(h1, w1, h2, w2 float64) Change {
	return Change{
		Kind: ChangeSwapSize,
		From: Size{Height: h1, Width: w1},
		To:   Size{Height: h2, Width: w2},
	}
}

// UpdateSize replaces the size unconditionally.
func UpdateSize(h, w float64) Change {
	return Change{Kind: ChangeUpdateSize, To: Size{Height: h, Width: w}}
}

// DragAxis shifts the position by the session cursor delta.
func DragAxis(axis Axis) Change { return Change{Kind: ChangeDragAxis, Axis: axis} }

// ScrollAxis shifts the scroll position by the session scroll delta.
func ScrollAxis(axis Axis) Change { return Change{Kind: ChangeScrollAxis, Axis: axis} }

// On retargets a binary change to another attribute kind (visibility, selection...).
func (c Change) On(kind AttrKind) Change {
	c.Attribute = kind
	return c
}

// Only restricts the change to candidates whose identity is listed.
func (c Change) Only(ids ...float64) Change {
	f := c.filter()
	f.Include = append(f.Include, ids...)
	c.Filter = f
	return c
}

// Except drops candidates whose identity is listed.
func (c Change) Except(ids ...float64) Change {
	f := c.filter()
	f.Exclude = append(f.Exclude, ids...)
	c.Filter = f
	return c
}

func (c Change) filter() *IDFilter {
	if c.Filter == nil {
		return &IDFilter{}
	}
	cp := *c.Filter
	cp.Include = slices.Clone(cp.Include)
	cp.Exclude = slices.Clone(cp.Exclude)
	return &cp
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeSwapSize:
		return fmt.Sprintf("%s(%g,%g,%g,%g)", c.Kind, c.From.Height, c.From.Width, c.To.Height, c.To.Width)
	case ChangeUpdateSize:
		return fmt.Sprintf("%s(%g,%g)", c.Kind, c.To.Height, c.To.Width)
	case ChangeDragAxis, ChangeScrollAxis:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Axis)
	case ChangeRemoveVisible, ChangeAddVisible, ChangeToggleVisible:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Attribute)
	default:
		return string(c.Kind)
	}
}

// ParseChange parses the textual change forms used in scene files, the same
// forms Change.String produces:
//
//	change_visible | change_visible(visibility) | add_visible | remove_visible(selection)
//	change_size(100,20,100,4) | update_size(100,20)
//	drag_axis(x) | scroll_axis(y)
//
// Any other bare name is returned as a host-registered kind without parameters.
func ParseChange(s string) (Change, error) {
	s = strings.TrimSpace(s)
	name, args, hasArgs := strings.Cut(s, "(")
	name = strings.ToLower(strings.TrimSpace(name))
	if hasArgs {
		if !strings.HasSuffix(args, ")") {
			return Change{}, fmt.Errorf("%w: change %q: missing ')'", ErrInvalidRule, s)
		}
		args = strings.TrimSpace(strings.TrimSuffix(args, ")"))
	}
	if name == "" {
		return Change{}, fmt.Errorf("%w: empty change", ErrInvalidRule)
	}

	switch kind := ChangeKind(name); kind {
	case ChangeRemoveVisible, ChangeAddVisible, ChangeToggleVisible:
		c := Change{Kind: kind, Attribute: KindDisplay}
		if args != "" {
			c.Attribute = AttrKind(strings.ToLower(args))
		}
		return c, nil
	case ChangeSwapSize, ChangeUpdateSize:
		want := 4
		if kind == ChangeUpdateSize {
			want = 2
		}
		nums, err := parseFloats(args)
		if err != nil || len(nums) != want {
			return Change{}, fmt.Errorf("%w: %s takes %d numbers, got %q", ErrInvalidRule, kind, want, args)
		}
		if kind == ChangeUpdateSize {
			return UpdateSize(nums[0], nums[1]), nil
		}
		return ChangeSize(nums[0], nums[1], nums[2], nums[3]), nil
	case ChangeDragAxis, ChangeScrollAxis:
		axis, err := ParseAxis(args)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: kind, Axis: axis}, nil
	default:
		if args != "" {
			return Change{}, fmt.Errorf("%w: change %q takes no parameters", ErrInvalidRule, name)
		}
		return Change{Kind: kind}, nil
	}
}
