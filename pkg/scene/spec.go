package scene

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// Spec is the declarative form of a scene: its entities, their initial
// attributes and the rule tables of the interactive ones.
type Spec struct {
	Name     string       `json:"name" yaml:"name" mapstructure:"name"`
	Entities []EntitySpec `json:"entities" yaml:"entities" mapstructure:"entities"`
}

// EntitySpec declares one entity. Parent refers to another entity by name;
// an empty Parent makes a root. Attribute fields left nil are not inserted.
type EntitySpec struct {
	Name   string   `json:"name" yaml:"name" mapstructure:"name"`
	Parent string   `json:"parent,omitempty" yaml:"parent,omitempty" mapstructure:"parent"`
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty" mapstructure:"groups"`

	Display    string       `json:"display,omitempty" yaml:"display,omitempty" mapstructure:"display"`
	Visibility string       `json:"visibility,omitempty" yaml:"visibility,omitempty" mapstructure:"visibility"`
	Selected   *bool        `json:"selected,omitempty" yaml:"selected,omitempty" mapstructure:"selected"`
	Size       *domain.Size `json:"size,omitempty" yaml:"size,omitempty" mapstructure:"size"`
	Position   *domain.Vec2 `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	Scroll     *domain.Vec2 `json:"scroll,omitempty" yaml:"scroll,omitempty" mapstructure:"scroll"`
	Identity   *float64     `json:"identity,omitempty" yaml:"identity,omitempty" mapstructure:"identity"`

	Rules []RuleSpec `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`
}

// RuleSpec is the textual form of a rule. Relationship, Change, Source and
// Target use the forms accepted by domain.ParseRelationship,
// domain.ParseChange and domain.ParsePredicate. An empty Group is inferred
// from the change.
type RuleSpec struct {
	Group        string    `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
	On           string    `json:"on" yaml:"on" mapstructure:"on"`
	Relationship string    `json:"relationship" yaml:"relationship" mapstructure:"relationship"`
	Change       string    `json:"change" yaml:"change" mapstructure:"change"`
	Only         []float64 `json:"only,omitempty" yaml:"only,omitempty" mapstructure:"only"`
	Except       []float64 `json:"except,omitempty" yaml:"except,omitempty" mapstructure:"except"`
	Source       string    `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	Target       string    `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
}

// Rule parses the spec into a domain rule.
func (r RuleSpec) Rule() (domain.Rule, error) {
	trigger, err := domain.ParseTrigger(r.On)
	if err != nil {
		return domain.Rule{}, err
	}
	rel, err := domain.ParseRelationship(r.Relationship)
	if err != nil {
		return domain.Rule{}, err
	}
	change, err := domain.ParseChange(r.Change)
	if err != nil {
		return domain.Rule{}, err
	}
	if len(r.Only) > 0 {
		change = change.Only(r.Only...)
	}
	if len(r.Except) > 0 {
		change = change.Except(r.Except...)
	}

	group := domain.Group(r.Group)
	if group == "" {
		group = InferGroup(change)
	}
	rule := domain.NewRule(group, trigger, rel, change)
	if r.Source != "" {
		p, err := domain.ParsePredicate(r.Source)
		if err != nil {
			return domain.Rule{}, err
		}
		rule = rule.WhenSource(p)
	}
	if r.Target != "" {
		p, err := domain.ParsePredicate(r.Target)
		if err != nil {
			return domain.Rule{}, err
		}
		rule = rule.WhenTarget(p)
	}
	return rule, nil
}

// InferGroup returns the propagation family a built-in change naturally
// belongs to. Host-registered kinds infer nothing.
func InferGroup(c domain.Change) domain.Group {
	switch c.Kind {
	case domain.ChangeRemoveVisible, domain.ChangeAddVisible, domain.ChangeToggleVisible:
		switch c.Attribute {
		case domain.KindVisibility:
			return domain.GroupVisibility
		case domain.KindSelection:
			return domain.GroupSelectable
		default:
			return domain.GroupDisplay
		}
	case domain.ChangeSwapSize, domain.ChangeUpdateSize:
		return domain.GroupSize
	case domain.ChangeDragAxis:
		return domain.GroupDrag
	case domain.ChangeScrollAxis:
		return domain.GroupScroll
	default:
		return ""
	}
}

// Attributes returns the initial attributes the spec declares.
func (e EntitySpec) Attributes() ([]domain.Attribute, error) {
	var out []domain.Attribute
	if e.Display != "" {
		switch s := domain.DisplayState(e.Display); s {
		case domain.DisplayFlex, domain.DisplayNone:
			out = append(out, domain.Display{State: s})
		default:
			return nil, errorf("entity %q: unknown display %q", e.Name, e.Display)
		}
	}
	if e.Visibility != "" {
		switch s := domain.VisibilityState(e.Visibility); s {
		case domain.Visible, domain.Hidden:
			out = append(out, domain.Visibility{State: s})
		default:
			return nil, errorf("entity %q: unknown visibility %q", e.Name, e.Visibility)
		}
	}
	if e.Selected != nil {
		out = append(out, domain.Selection{Selected: *e.Selected})
	}
	if e.Size != nil {
		out = append(out, *e.Size)
	}
	if e.Position != nil {
		out = append(out, domain.Position(e.Position.X, e.Position.Y))
	}
	if e.Scroll != nil {
		out = append(out, domain.ScrollPosition(e.Scroll.X, e.Scroll.Y))
	}
	if e.Identity != nil {
		out = append(out, domain.Identity{Value: *e.Identity})
	}
	return out, nil
}

// GroupMarkers returns the declared transition groups.
func (e EntitySpec) GroupMarkers() []domain.Group {
	out := make([]domain.Group, 0, len(e.Groups))
	for _, g := range e.Groups {
		out = append(out, domain.Group(g))
	}
	return out
}
