package algebra

import (
	"github.com/aretw0/cascade/pkg/domain"
)

// Toggle flips a binary attribute between its shown and hidden values.
// It always emits for a binary input; 2-step application restores the input.
func Toggle(current domain.Attribute) (domain.Attribute, bool) {
	b, ok := current.(domain.Binary)
	if !ok {
		return nil, false
	}
	if b.IsShown() {
		return b.Hidden(), true
	}
	return b.Shown(), true
}

// Show sets a binary attribute to its shown value. It emits nothing when the
// attribute is already shown.
func Show(current domain.Attribute) (domain.Attribute, bool) {
	b, ok := current.(domain.Binary)
	if !ok || b.IsShown() {
		return nil, false
	}
	return b.Shown(), true
}

// Hide sets a binary attribute to its hidden value. It emits nothing when the
// attribute is already hidden.
func Hide(current domain.Attribute) (domain.Attribute, bool) {
	b, ok := current.(domain.Binary)
	if !ok || !b.IsShown() {
		return nil, false
	}
	return b.Hidden(), true
}

// SwapSize returns `to` when current equals `from` exactly and `from` when it
// equals `to`. A size matching neither pair yields nothing.
func SwapSize(current domain.Attribute, from, to domain.Size) (domain.Attribute, bool) {
	s, ok := current.(domain.Size)
	if !ok {
		return nil, false
	}
	switch {
	case s.Equal(from):
		return to, true
	case s.Equal(to):
		return from, true
	default:
		return nil, false
	}
}

// ReplaceSize returns `to` unconditionally for a size attribute.
func ReplaceSize(current domain.Attribute, to domain.Size) (domain.Attribute, bool) {
	if _, ok := current.(domain.Size); !ok {
		return nil, false
	}
	return to, true
}

// Drag shifts a position offset by the session's cursor delta, projected on
// axis. It needs an active drag and a pending delta; the delta is consumed.
func Drag(current domain.Attribute, axis domain.Axis, session *domain.Session) (domain.Attribute, bool) {
	o, ok := current.(domain.Offset)
	if !ok || session == nil {
		return nil, false
	}
	if _, dragging := session.IsDragging(); !dragging {
		return nil, false
	}
	delta, ok := session.TakeCursorDelta()
	if !ok {
		return nil, false
	}
	o.Value = o.Value.Add(axis.Project(delta))
	return o, true
}

// Scroll shifts a scroll offset by the session's scroll delta, projected on
// axis. The delta is consumed.
func Scroll(current domain.Attribute, axis domain.Axis, session *domain.Session) (domain.Attribute, bool) {
	o, ok := current.(domain.Offset)
	if !ok || session == nil {
		return nil, false
	}
	delta, ok := session.TakeScrollDelta()
	if !ok {
		return nil, false
	}
	o.Value = o.Value.Add(axis.Project(delta))
	return o, true
}

// Compute dispatches a built-in change descriptor to its function.
// Unknown kinds yield nothing.
func Compute(current domain.Attribute, change domain.Change, session *domain.Session) (domain.Attribute, bool) {
	switch change.Kind {
	case domain.ChangeToggleVisible:
		return Toggle(current)
	case domain.ChangeAddVisible:
		return Show(current)
	case domain.ChangeRemoveVisible:
		return Hide(current)
	case domain.ChangeSwapSize:
		return SwapSize(current, change.From, change.To)
	case domain.ChangeUpdateSize:
		return ReplaceSize(current, change.To)
	case domain.ChangeDragAxis:
		return Drag(current, change.Axis, session)
	case domain.ChangeScrollAxis:
		return Scroll(current, change.Axis, session)
	default:
		return nil, false
	}
}
