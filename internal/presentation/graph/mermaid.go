package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Changed lists entities written during the last tick.
	Changed []domain.EntityID
	// Focus is the entity being dragged or last interacted with, if any.
	Focus domain.EntityID
}

// RuleEdge is one rule of an interactive entity and the targets it
// currently resolves to.
type RuleEdge struct {
	From    domain.EntityID
	To      []domain.EntityID
	Trigger domain.TriggerKind
	Change  domain.Change
}

// RuleSource exposes rule tables and their resolution. cascade.Engine
// satisfies it.
type RuleSource interface {
	Interactive() []domain.EntityID
	Rules(entity domain.EntityID) []domain.Rule
	Targets(entity domain.EntityID, rule domain.Rule) []domain.EntityID
}

// Edges resolves every attached rule into a RuleEdge, in attach order.
func Edges(src RuleSource) []RuleEdge {
	var out []RuleEdge
	for _, id := range src.Interactive() {
		for _, r := range src.Rules(id) {
			out = append(out, RuleEdge{
				From:    id,
				To:      src.Targets(id, r),
				Trigger: r.Action.Trigger,
				Change:  r.Action.Change,
			})
		}
	}
	return out
}

// GenerateMermaid produces a Mermaid flowchart of the entity tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Interactive (has rules): [[Subroutine]]
// - Hidden (display none): [/Parallelogram/]
// - Default: [Rectangle]
// Parent links are solid arrows, rule edges are dotted and labelled with
// trigger and change. Overlay styles (Changed/Focus) apply if provided.
func GenerateMermaid(entities []domain.EntitySnapshot, edges []RuleEdge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	interactive := make(map[domain.EntityID]bool)
	for _, e := range edges {
		interactive[e.From] = true
	}

	for _, snap := range entities {
		opener, closer := "[", "]"
		switch {
		case interactive[snap.ID]:
			opener, closer = "[[", "]]"
		case snap.Parent == 0:
			opener, closer = "((", "))"
		case hidden(snap):
			opener, closer = "[/", "/]"
		}

		label := snap.ID.String()
		if snap.Name != "" {
			label = sanitizeLabel(snap.Name)
		}
		if len(snap.Groups) > 0 {
			groups := make([]string, len(snap.Groups))
			for i, g := range snap.Groups {
				groups[i] = string(g)
			}
			label += " <br/> " + strings.Join(groups, ",")
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", snap.ID, opener, label, closer))

		if snap.Parent != 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", snap.Parent, snap.ID))
		}
	}

	for _, e := range edges {
		label := sanitizeLabel(fmt.Sprintf("%s: %s", e.Trigger, e.Change))
		for _, to := range e.To {
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", e.From, label, to))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef changed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.EntityID]bool)
		for _, id := range overlay.Changed {
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s changed;\n", id))
		}
		if overlay.Focus != 0 {
			sb.WriteString(fmt.Sprintf("    class %s focus;\n", overlay.Focus))
		}
	}

	return sb.String()
}

func hidden(snap domain.EntitySnapshot) bool {
	for _, a := range snap.Attributes {
		if d, ok := a.(domain.Display); ok && d.State == domain.DisplayNone {
			return true
		}
	}
	return false
}

// sanitizeLabel keeps labels inside their double quotes.
func sanitizeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
