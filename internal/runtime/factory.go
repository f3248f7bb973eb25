package runtime

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// OnTrigger is the write phase: it evaluates the rule table of the signal's
// entity and returns one descriptor per candidate the change algebra emits
// for. The graph is not written; only session deltas are consumed.
func (e *Engine) OnTrigger(sig domain.Signal, session *domain.Session) []domain.EventDescriptor {
	if session == nil {
		session = domain.NewSession()
	}
	if sig.Delta != nil {
		switch sig.Kind {
		case domain.Dragged:
			session.AddCursorDelta(*sig.Delta)
		case domain.Scrolled:
			session.AddScrollDelta(*sig.Delta)
		}
	}

	var out []domain.EventDescriptor
	for _, c := range e.rules.table(sig.Entity) {
		r := c.rule
		if r.Action.Trigger != sig.Kind {
			continue
		}
		if !Matches(e.graph, sig.Entity, r.Source) {
			e.logger.Debug("source predicate not met",
				"entity", sig.Entity, "rule", r.String())
			continue
		}
		for _, cand := range e.resolver.Resolve(sig.Entity, r.Group, r.Action.Relationship) {
			if d, ok := e.describe(c, sig.Entity, cand, session); ok {
				out = append(out, d)
			}
		}
	}
	return out
}

// describe runs the target filters and the change algebra for one candidate.
func (e *Engine) describe(c compiledRule, source, cand domain.EntityID, session *domain.Session) (domain.EventDescriptor, bool) {
	r := c.rule
	if !Matches(e.graph, cand, r.Target) {
		return domain.EventDescriptor{}, false
	}
	if f := r.Action.Change.Filter; f != nil {
		var id float64
		a, has := e.graph.Get(cand, domain.KindIdentity)
		if has {
			ident, ok := a.(domain.Identity)
			id, has = ident.Value, ok
		}
		if !f.Allows(id, has) {
			return domain.EventDescriptor{}, false
		}
	}

	current, ok := e.graph.Get(cand, c.target)
	if !ok {
		return domain.EventDescriptor{}, false
	}
	next, ok := c.algebra.Compute(current, r.Action.Change, session)
	if !ok {
		if r.Action.Change.Kind == domain.ChangeSwapSize {
			e.logger.Debug("size change dropped",
				"target", cand, "current", current.String(), "change", r.Action.Change.String(),
				"err", domain.ErrSizeMismatch)
		}
		return domain.EventDescriptor{}, false
	}
	return domain.EventDescriptor{
		Target:  cand,
		Kind:    c.target,
		Value:   next,
		Source:  source,
		Change:  r.Action.Change.Kind,
		Guard:   r.Target,
		Payload: r.Action.Change,
	}, true
}
