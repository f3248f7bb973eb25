package domain_test

import (
	"testing"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_DragStateMachine(t *testing.T) {
	s := domain.NewSession()
	_, dragging := s.IsDragging()
	assert.False(t, dragging)

	s.AddCursorDelta(domain.Vec2{X: 1})
	s.BeginDrag(3)
	assert.Nil(t, s.CursorDelta, "a new drag starts without stale movement")

	e, dragging := s.IsDragging()
	require.True(t, dragging)
	assert.Equal(t, domain.EntityID(3), e)

	s.AddCursorDelta(domain.Vec2{X: 1, Y: 2})
	s.AddCursorDelta(domain.Vec2{X: 1, Y: 2})
	d, ok := s.TakeCursorDelta()
	require.True(t, ok)
	assert.Equal(t, domain.Vec2{X: 2, Y: 4}, d)
	_, ok = s.TakeCursorDelta()
	assert.False(t, ok, "taken deltas are cleared")

	s.AddCursorDelta(domain.Vec2{Y: 1})
	s.EndDrag()
	_, dragging = s.IsDragging()
	assert.False(t, dragging)
	assert.Nil(t, s.CursorDelta)
}

func TestSession_SnapshotIsDeep(t *testing.T) {
	s := domain.NewSession()
	s.BeginDrag(1)
	s.AddScrollDelta(domain.Vec2{Y: -1})

	snap := s.Snapshot()
	s.AddScrollDelta(domain.Vec2{Y: -1})
	s.EndDrag()

	require.NotNil(t, snap.Dragging)
	assert.Equal(t, domain.EntityID(1), *snap.Dragging)
	assert.Equal(t, domain.Vec2{Y: -1}, *snap.ScrollDelta)
}

func TestSession_DiscardDeltasKeepsDrag(t *testing.T) {
	s := domain.NewSession()
	assert.False(t, s.DiscardDeltas())

	s.BeginDrag(2)
	s.AddCursorDelta(domain.Vec2{X: 3})
	s.AddScrollDelta(domain.Vec2{Y: 1})
	assert.True(t, s.DiscardDeltas())

	assert.Nil(t, s.CursorDelta)
	assert.Nil(t, s.ScrollDelta)
	e, dragging := s.IsDragging()
	require.True(t, dragging)
	assert.Equal(t, domain.EntityID(2), e)
}
