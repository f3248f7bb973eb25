package domain

// Session is the small mutable record threaded through resolution and the
// change algebra. The input collaborator writes the deltas; the algebra
// consumes and clears them, so each delta is used at most once.
type Session struct {
	Dragging    *EntityID `json:"dragging,omitempty"`
	CursorDelta *Vec2     `json:"cursor_delta,omitempty"`
	ScrollDelta *Vec2     `json:"scroll_delta,omitempty"`
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// BeginDrag moves the drag state machine to Dragging(e).
func (s *Session) BeginDrag(e EntityID) {
	s.Dragging = &e
	s.CursorDelta = nil
}

// EndDrag moves the drag state machine back to NotDragging and discards any
// unconsumed cursor delta.
func (s *Session) EndDrag() {
	s.Dragging = nil
	s.CursorDelta = nil
}

// IsDragging reports whether a drag is active, and on which entity.
func (s *Session) IsDragging() (EntityID, bool) {
	if s.Dragging == nil {
		return 0, false
	}
	return *s.Dragging, true
}

// AddCursorDelta accumulates cursor movement until the algebra consumes it.
func (s *Session) AddCursorDelta(d Vec2) {
	s.CursorDelta = accumulate(s.CursorDelta, d)
}

// AddScrollDelta accumulates wheel movement until the algebra consumes it.
func (s *Session) AddScrollDelta(d Vec2) {
	s.ScrollDelta = accumulate(s.ScrollDelta, d)
}

// TakeCursorDelta returns and clears the pending cursor delta.
func (s *Session) TakeCursorDelta() (Vec2, bool) {
	return take(&s.CursorDelta)
}

// TakeScrollDelta returns and clears the pending scroll delta.
func (s *Session) TakeScrollDelta() (Vec2, bool) {
	return take(&s.ScrollDelta)
}

// DiscardDeltas drops cursor and scroll movement no rule consumed, closing
// the frame. The drag state is kept. It reports whether anything was dropped.
func (s *Session) DiscardDeltas() bool {
	dropped := s.CursorDelta != nil || s.ScrollDelta != nil
	s.CursorDelta = nil
	s.ScrollDelta = nil
	return dropped
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (s *Session) Snapshot() Session {
	cp := Session{}
	if s.Dragging != nil {
		e := *s.Dragging
		cp.Dragging = &e
	}
	if s.CursorDelta != nil {
		d := *s.CursorDelta
		cp.CursorDelta = &d
	}
	if s.ScrollDelta != nil {
		d := *s.ScrollDelta
		cp.ScrollDelta = &d
	}
	return cp
}

func accumulate(cur *Vec2, d Vec2) *Vec2 {
	if cur == nil {
		return &d
	}
	sum := cur.Add(d)
	return &sum
}

func take(slot **Vec2) (Vec2, bool) {
	if *slot == nil {
		return Vec2{}, false
	}
	v := **slot
	*slot = nil
	return v, true
}
