package runtime

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// Apply is the read phase for one descriptor: it re-reads the target,
// re-checks the producing rule's guard, computes the final value from the
// current one and overwrites the attribute in place. Failures are reported
// in the result, never retried.
func (e *Engine) Apply(d domain.EventDescriptor) domain.ApplyResult {
	res := domain.ApplyResult{Descriptor: d}

	if !e.graph.Exists(d.Target) {
		res.Status = domain.MissingEntity
		e.logger.Debug("descriptor dropped", "target", d.Target, "status", res.Status, "err", domain.ErrStaleTarget)
		return res
	}
	prev, ok := e.graph.Get(d.Target, d.Kind)
	if !ok {
		res.Status = domain.MissingAttribute
		e.logger.Debug("descriptor dropped", "target", d.Target, "kind", d.Kind, "status", res.Status, "err", domain.ErrStaleTarget)
		return res
	}
	res.Previous = prev
	if !Matches(e.graph, d.Target, d.Guard) {
		res.Status = domain.GuardMismatch
		e.logger.Debug("descriptor dropped", "target", d.Target, "guard", d.Guard.String(), "status", res.Status, "err", domain.ErrStaleTarget)
		return res
	}
	next, ok := e.finalValue(d, prev)
	if !ok {
		res.Status = domain.Unchanged
		e.logger.Debug("descriptor dropped", "target", d.Target, "current", prev.String(), "change", d.Payload.String(), "status", res.Status)
		return res
	}
	res.Descriptor.Value = next
	if err := e.graph.Set(d.Target, next); err != nil {
		res.Status = domain.StoreError
		e.logger.Warn("attribute write failed", "target", d.Target, "kind", d.Kind, "err", err)
		return res
	}
	res.Status = domain.Applied
	return res
}

// finalValue recomputes the descriptor's change against current. Frozen
// kinds, and descriptors built without a payload, keep their trigger-time
// value.
func (e *Engine) finalValue(d domain.EventDescriptor, current domain.Attribute) (domain.Attribute, bool) {
	if d.Payload.Kind == "" {
		return d.Value, d.Value != nil
	}
	b, err := e.registry.Lookup(d.Payload.Kind)
	if err != nil || b.Frozen {
		return d.Value, d.Value != nil
	}
	return b.Algebra.Compute(current, d.Payload, domain.NewSession())
}
