package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Group is a TransitionGroup marker: a zero-data tag naming the propagation
// family an entity takes part in. An entity may carry several groups.
type Group string

const (
	GroupDisplay    Group = "display"
	GroupVisibility Group = "visibility"
	GroupSelectable Group = "selectable"
	GroupSize       Group = "size"
	GroupDrag       Group = "drag"
	GroupScroll     Group = "scroll"
)

// RelationKind enumerates the relationship variants.
type RelationKind string

const (
	RelSelf                  RelationKind = "self"
	RelParent                RelationKind = "parent"
	RelChild                 RelationKind = "child"
	RelSibling               RelationKind = "sibling"
	RelSiblingChild          RelationKind = "sibling_child"
	RelChildRecursive        RelationKind = "child_recursive"
	RelSiblingChildRecursive RelationKind = "sibling_child_recursive"
	RelCustom                RelationKind = "custom"
)

// Relationship describes which entities are gathered relative to the source
// of an interaction. IDs is only meaningful for RelCustom.
type Relationship struct {
	Kind RelationKind `json:"kind"`
	IDs  []float64    `json:"ids,omitempty"`
}

var (
	SelfState             = Relationship{Kind: RelSelf}
	Parent                = Relationship{Kind: RelParent}
	Child                 = Relationship{Kind: RelChild}
	Sibling               = Relationship{Kind: RelSibling}
	SiblingChild          = Relationship{Kind: RelSiblingChild}
	ChildRecursive        = Relationship{Kind: RelChildRecursive}
	SiblingChildRecursive = Relationship{Kind: RelSiblingChildRecursive}
)

// Custom gathers every entity in the population whose identity is in ids.
func Custom(ids ...float64) Relationship {
	return Relationship{Kind: RelCustom, IDs: ids}
}

// Validate checks the relationship is a known variant with coherent data.
func (r Relationship) Validate() error {
	switch r.Kind {
	case RelSelf, RelParent, RelChild, RelSibling, RelSiblingChild,
		RelChildRecursive, RelSiblingChildRecursive:
		if len(r.IDs) > 0 {
			return fmt.Errorf("%w: relationship %q does not take ids", ErrInvalidRule, r.Kind)
		}
		return nil
	case RelCustom:
		if len(r.IDs) == 0 {
			return fmt.Errorf("%w: custom relationship requires at least one id", ErrInvalidRule)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown relationship %q", ErrInvalidRule, r.Kind)
	}
}

// String renders the textual form accepted by ParseRelationship.
func (r Relationship) String() string {
	if r.Kind != RelCustom {
		return string(r.Kind)
	}
	parts := make([]string, len(r.IDs))
	for i, id := range r.IDs {
		parts[i] = strconv.FormatFloat(id, 'g', -1, 64)
	}
	return "custom:" + strings.Join(parts, ",")
}

// ParseRelationship parses "self", "child", "custom:1,5" and friends.
// "self_state" is accepted as an alias of "self".
func ParseRelationship(s string) (Relationship, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "self_state" {
		s = string(RelSelf)
	}

	if rest, ok := strings.CutPrefix(s, "custom"); ok {
		rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
		var ids []float64
		for _, field := range strings.Split(rest, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Relationship{}, fmt.Errorf("%w: custom id %q: %v", ErrInvalidRule, field, err)
			}
			ids = append(ids, id)
		}
		r := Custom(ids...)
		return r, r.Validate()
	}

	r := Relationship{Kind: RelationKind(s)}
	return r, r.Validate()
}
