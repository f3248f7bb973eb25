package domain

import (
	"fmt"
	"strings"
)

// TriggerKind is the kind of user interaction that fires rules.
type TriggerKind string

const (
	Hover    TriggerKind = "hover"
	Clicked  TriggerKind = "clicked"
	Dragged  TriggerKind = "dragged"
	Scrolled TriggerKind = "scrolled"
)

// ParseTrigger parses a trigger kind, case-insensitively.
func ParseTrigger(s string) (TriggerKind, error) {
	switch k := TriggerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case Hover, Clicked, Dragged, Scrolled:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown trigger %q", ErrInvalidRule, s)
	}
}

// Signal is an inbound interaction from the input collaborator.
// Delta is the optional cursor (Dragged) or wheel (Scrolled) payload.
type Signal struct {
	Entity EntityID    `json:"entity"`
	Kind   TriggerKind `json:"kind"`
	Delta  *Vec2       `json:"delta,omitempty"`
}
