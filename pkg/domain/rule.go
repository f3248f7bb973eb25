package domain

import (
	"fmt"
)

// StateChangeAction is a declared change tagged with the trigger that fires it
// and the relationship it is applied over.
type StateChangeAction struct {
	Trigger      TriggerKind  `json:"trigger"`
	Relationship Relationship `json:"relationship"`
	Change       Change       `json:"change"`
}

// Rule is one entry of an entity's rule table.
// Source gates the rule on the interacting entity's own state; Target filters
// the resolved candidates. Nil predicates always match.
type Rule struct {
	Group  Group             `json:"group"`
	Action StateChangeAction `json:"action"`
	Source Predicate         `json:"-"`
	Target Predicate         `json:"-"`
}

// NewRule declares a rule for the given propagation family.
func NewRule(group Group, trigger TriggerKind, rel Relationship, change Change) Rule {
	return Rule{
		Group: group,
		Action: StateChangeAction{
			Trigger:      trigger,
			Relationship: rel,
			Change:       change,
		},
	}
}

// WhenSource gates the rule on the source entity's state.
func (r Rule) WhenSource(p Predicate) Rule {
	r.Source = p
	return r
}

// WhenTarget filters candidates by their state.
func (r Rule) WhenTarget(p Predicate) Rule {
	r.Target = p
	return r
}

// Validate checks the structural parts of a rule that do not depend on the
// change registry.
func (r Rule) Validate() error {
	if r.Group == "" {
		return fmt.Errorf("%w: rule has no group", ErrInvalidRule)
	}
	if _, err := ParseTrigger(string(r.Action.Trigger)); err != nil {
		return err
	}
	if err := r.Action.Relationship.Validate(); err != nil {
		return err
	}
	if r.Action.Change.Kind == "" {
		return fmt.Errorf("%w: rule has no change", ErrInvalidRule)
	}
	return nil
}

func (r Rule) String() string {
	src, tgt := "any", "any"
	if r.Source != nil {
		src = r.Source.String()
	}
	if r.Target != nil {
		tgt = r.Target.String()
	}
	return fmt.Sprintf("[%s] on %s %s %s when %s where %s",
		r.Group, r.Action.Trigger, r.Action.Relationship, r.Action.Change, src, tgt)
}
