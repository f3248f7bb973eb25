package runtime

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/aretw0/cascade/pkg/registry"
)

// compiledRule is a rule bound to its change behaviour at attach time.
type compiledRule struct {
	rule    domain.Rule
	target  domain.AttrKind
	algebra ports.ChangeAlgebra
}

// Rulebook holds the per-entity rule tables.
type Rulebook struct {
	registry *registry.Registry

	mu     sync.RWMutex
	order  []domain.EntityID
	tables map[domain.EntityID][]compiledRule
}

// NewRulebook creates an empty rulebook compiling against reg.
func NewRulebook(reg *registry.Registry) *Rulebook {
	return &Rulebook{
		registry: reg,
		tables:   make(map[domain.EntityID][]compiledRule),
	}
}

// Attach compiles rules and registers them for entity. A table can be
// attached once; attaching again returns domain.ErrRulesAttached.
func (b *Rulebook) Attach(entity domain.EntityID, rules ...domain.Rule) error {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		c, err := b.compile(r)
		if err != nil {
			return fmt.Errorf("rule %d of %s: %w", i, entity, err)
		}
		compiled = append(compiled, c)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tables[entity]; ok {
		return fmt.Errorf("%s: %w", entity, domain.ErrRulesAttached)
	}
	b.tables[entity] = compiled
	b.order = append(b.order, entity)
	return nil
}

// Detach removes the table of entity, if any.
func (b *Rulebook) Detach(entity domain.EntityID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tables, entity)
	b.order = slices.DeleteFunc(b.order, func(e domain.EntityID) bool { return e == entity })
}

// Rules returns the declared rules of entity in table order.
func (b *Rulebook) Rules(entity domain.EntityID) []domain.Rule {
	table := b.table(entity)
	out := make([]domain.Rule, len(table))
	for i, c := range table {
		out[i] = c.rule
	}
	return out
}

// Entities lists entities with a table, in attach order.
func (b *Rulebook) Entities() []domain.EntityID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.order)
}

func (b *Rulebook) table(entity domain.EntityID) []compiledRule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tables[entity]
}

func (b *Rulebook) compile(r domain.Rule) (compiledRule, error) {
	if err := r.Validate(); err != nil {
		return compiledRule{}, err
	}
	change := r.Action.Change
	behavior, err := b.registry.Lookup(change.Kind)
	if err != nil {
		return compiledRule{}, err
	}
	if err := checkChange(change, r.Action.Relationship); err != nil {
		return compiledRule{}, err
	}
	return compiledRule{
		rule:    r,
		target:  behavior.Target(change),
		algebra: behavior.Algebra,
	}, nil
}

// checkChange validates the parameters of built-in change kinds.
// Host-registered kinds are accepted as is. Axis changes consume the session
// delta on their first candidate, so they only target the source itself.
func checkChange(c domain.Change, rel domain.Relationship) error {
	switch c.Kind {
	case domain.ChangeRemoveVisible, domain.ChangeAddVisible, domain.ChangeToggleVisible:
		switch c.Attribute {
		case "", domain.KindDisplay, domain.KindVisibility, domain.KindSelection:
		default:
			return fmt.Errorf("%w: %s cannot target %s", domain.ErrInvalidRule, c.Kind, c.Attribute)
		}
	case domain.ChangeSwapSize:
		if c.From.Equal(c.To) {
			return fmt.Errorf("%w: %s needs two distinct sizes", domain.ErrInvalidRule, c)
		}
	case domain.ChangeDragAxis, domain.ChangeScrollAxis:
		if _, err := domain.ParseAxis(string(c.Axis)); err != nil {
			return err
		}
		if rel.Kind != domain.RelSelf {
			return fmt.Errorf("%w: %s needs relationship self, got %s", domain.ErrInvalidRule, c.Kind, rel.Kind)
		}
	}
	return nil
}
