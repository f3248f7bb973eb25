package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate is a closed-set pattern over one attribute's abstract state.
// A predicate for which IsAny is true matches every entity, even one that does
// not carry the attribute; any other predicate fails on a missing attribute.
type Predicate interface {
	Kind() AttrKind
	IsAny() bool
	Matches(Attribute) bool
	String() string
}

type anyState struct{}

// AnyState matches everything.
var AnyState Predicate = anyState{}

func (anyState) Kind() AttrKind         { return "" }
func (anyState) IsAny() bool            { return true }
func (anyState) Matches(Attribute) bool { return true }
func (anyState) String() string         { return "any" }

// DisplayPredicate matches a display mode. An empty State matches any mode.
type DisplayPredicate struct {
	State DisplayState
}

// DisplayIs matches entities whose display equals state.
func DisplayIs(state DisplayState) Predicate { return DisplayPredicate{State: state} }

func (DisplayPredicate) Kind() AttrKind { return KindDisplay }
func (p DisplayPredicate) IsAny() bool  { return p.State == "" }

func (p DisplayPredicate) Matches(a Attribute) bool {
	d, ok := a.(Display)
	return ok && (p.IsAny() || d.State == p.State)
}

func (p DisplayPredicate) String() string { return "display:" + orAny(string(p.State)) }

// VisibilityPredicate matches a visibility state. An empty State matches any.
type VisibilityPredicate struct {
	State VisibilityState
}

// VisibilityIs matches entities whose visibility equals state.
func VisibilityIs(state VisibilityState) Predicate { return VisibilityPredicate{State: state} }

func (VisibilityPredicate) Kind() AttrKind { return KindVisibility }
func (p VisibilityPredicate) IsAny() bool  { return p.State == "" }

func (p VisibilityPredicate) Matches(a Attribute) bool {
	v, ok := a.(Visibility)
	return ok && (p.IsAny() || v.State == p.State)
}

func (p VisibilityPredicate) String() string { return "visibility:" + orAny(string(p.State)) }

// SelectionPredicate matches the selected flag. A nil Selected matches any.
type SelectionPredicate struct {
	Selected *bool
}

// SelectionIs matches entities whose selection flag equals selected.
func SelectionIs(selected bool) Predicate { return SelectionPredicate{Selected: &selected} }

func (SelectionPredicate) Kind() AttrKind { return KindSelection }
func (p SelectionPredicate) IsAny() bool  { return p.Selected == nil }

func (p SelectionPredicate) Matches(a Attribute) bool {
	s, ok := a.(Selection)
	return ok && (p.IsAny() || s.Selected == *p.Selected)
}

func (p SelectionPredicate) String() string {
	switch {
	case p.Selected == nil:
		return "selection:any"
	case *p.Selected:
		return "selection:selected"
	default:
		return "selection:unselected"
	}
}

// SizePredicate matches an exact size. Label is descriptive only
// ("expanded", "minimized"); a nil Size matches any size.
type SizePredicate struct {
	Label string
	Size  *Size
}

// Expanded matches the exact (h, w) size of an expanded panel.
func Expanded(h, w float64) Predicate {
	return SizePredicate{Label: "expanded", Size: &Size{Height: h, Width: w}}
}

// Minimized matches the exact (h, w) size of a minimized panel.
func Minimized(h, w float64) Predicate {
	return SizePredicate{Label: "minimized", Size: &Size{Height: h, Width: w}}
}

func (SizePredicate) Kind() AttrKind { return KindSize }
func (p SizePredicate) IsAny() bool  { return p.Size == nil }

func (p SizePredicate) Matches(a Attribute) bool {
	s, ok := a.(Size)
	return ok && (p.IsAny() || s.Equal(*p.Size))
}

func (p SizePredicate) String() string {
	if p.Size == nil {
		return "size:any"
	}
	label := p.Label
	if label == "" {
		label = "exact"
	}
	return fmt.Sprintf("size:%s(%g,%g)", label, p.Size.Height, p.Size.Width)
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

// ParsePredicate parses the textual predicate forms used in scene files:
//
//	any
//	display:flex | display:none | display:any
//	visibility:visible | visibility:hidden | visibility:any
//	selection:selected | selection:unselected | selection:any
//	size:any | size:expanded(100,20) | size:minimized(100,4) | size:exact(10,10)
//
// An empty string parses to AnyState.
func ParsePredicate(s string) (Predicate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "any" {
		return AnyState, nil
	}

	attr, state, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: predicate %q: expected <attribute>:<state>", ErrInvalidRule, s)
	}
	state = strings.TrimSpace(state)

	switch AttrKind(strings.TrimSpace(attr)) {
	case KindDisplay:
		switch state {
		case "any":
			return DisplayPredicate{}, nil
		case string(DisplayFlex), string(DisplayNone):
			return DisplayIs(DisplayState(state)), nil
		}
	case KindVisibility:
		switch state {
		case "any":
			return VisibilityPredicate{}, nil
		case string(Visible), string(Hidden):
			return VisibilityIs(VisibilityState(state)), nil
		}
	case KindSelection:
		switch state {
		case "any":
			return SelectionPredicate{}, nil
		case "selected":
			return SelectionIs(true), nil
		case "unselected":
			return SelectionIs(false), nil
		}
	case KindSize:
		if state == "any" {
			return SizePredicate{}, nil
		}
		label, args, ok := strings.Cut(state, "(")
		if !ok || !strings.HasSuffix(args, ")") {
			break
		}
		nums, err := parseFloats(strings.TrimSuffix(args, ")"))
		if err != nil || len(nums) != 2 {
			break
		}
		switch label {
		case "expanded":
			return Expanded(nums[0], nums[1]), nil
		case "minimized":
			return Minimized(nums[0], nums[1]), nil
		case "exact", "":
			return SizePredicate{Size: &Size{Height: nums[0], Width: nums[1]}}, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown predicate %q", ErrInvalidRule, s)
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
