package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/registry"
	"github.com/aretw0/cascade/pkg/scene"
)

// ValidateScene checks a declared scene without building it and reports
// every problem found, not just the first: naming and parent errors, parent
// cycles, bad initial attributes, rules that do not parse or compile against
// reg, and rule groups no entity carries. A nil reg means registry.Default().
func ValidateScene(spec *scene.Spec, reg *registry.Registry) error {
	if reg == nil {
		reg = registry.Default()
	}
	var errors []string

	byName := make(map[string]int, len(spec.Entities))
	carried := make(map[domain.Group]bool)
	for i, e := range spec.Entities {
		if e.Name == "" {
			errors = append(errors, fmt.Sprintf("Entity %d has no name", i))
			continue
		}
		if _, dup := byName[e.Name]; dup {
			errors = append(errors, fmt.Sprintf("Duplicate entity '%s'", e.Name))
			continue
		}
		byName[e.Name] = i
		for _, g := range e.GroupMarkers() {
			carried[g] = true
		}
	}

	// A scratch rulebook compiles each rule exactly as an engine would.
	book := runtime.NewRulebook(reg)
	var scratch domain.EntityID

	for _, e := range spec.Entities {
		if e.Name == "" {
			continue
		}
		if e.Parent != "" {
			if _, ok := byName[e.Parent]; !ok {
				errors = append(errors, fmt.Sprintf("Entity '%s' has unknown parent '%s'", e.Name, e.Parent))
			} else if inCycle(spec.Entities, byName, e.Name) {
				errors = append(errors, fmt.Sprintf("Entity '%s' is its own ancestor", e.Name))
			}
		}
		if _, err := e.Attributes(); err != nil {
			errors = append(errors, err.Error())
		}

		for j, rs := range e.Rules {
			r, err := rs.Rule()
			if err != nil {
				errors = append(errors, fmt.Sprintf("Entity '%s' rule %d: %v", e.Name, j, err))
				continue
			}
			scratch++
			if err := book.Attach(scratch, r); err != nil {
				errors = append(errors, fmt.Sprintf("Entity '%s' rule %d: %v", e.Name, j, err))
				continue
			}
			if !carried[r.Group] {
				errors = append(errors, fmt.Sprintf("Entity '%s' rule %d: no entity carries group '%s'", e.Name, j, r.Group))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// inCycle reports whether following parents from name leads back to it.
func inCycle(entities []scene.EntitySpec, byName map[string]int, name string) bool {
	seen := map[string]bool{name: true}
	for cur := entities[byName[name]].Parent; cur != ""; {
		if cur == name {
			return true
		}
		if seen[cur] {
			// a cycle further up, reported for its own members
			return false
		}
		seen[cur] = true
		i, ok := byName[cur]
		if !ok {
			return false
		}
		cur = entities[i].Parent
	}
	return false
}
