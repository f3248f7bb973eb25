package memory_test

import (
	"testing"

	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_Contract(t *testing.T) {
	tests.RunSceneGraphContract(t, func() tests.SceneBuilder {
		return memory.NewScene()
	})
}

func TestScene_ReparentRejectsCycle(t *testing.T) {
	s := memory.NewScene()
	root, _ := s.Spawn("root", 0)
	mid, _ := s.Spawn("mid", root)
	leaf, _ := s.Spawn("leaf", mid)

	err := s.Reparent(root, leaf)
	assert.Error(t, err)

	p, ok := s.Parent(mid)
	require.True(t, ok)
	assert.Equal(t, root, p, "failed reparent must leave adjacency untouched")

	require.NoError(t, s.Reparent(leaf, root))
	assert.Equal(t, []domain.EntityID{mid, leaf}, s.Children(root))
	assert.Empty(t, s.Children(mid))
}

func TestScene_DespawnRemovesSubtree(t *testing.T) {
	s := memory.NewScene()
	root, _ := s.Spawn("root", 0)
	panel, _ := s.Spawn("panel", root)
	item, _ := s.Spawn("item", panel)

	s.Despawn(panel)

	assert.True(t, s.Exists(root))
	assert.False(t, s.Exists(panel))
	assert.False(t, s.Exists(item))
	assert.Empty(t, s.Children(root))
	assert.Equal(t, []domain.EntityID{root}, s.Entities())

	_, found := s.Lookup("item")
	assert.False(t, found, "names of despawned entities are released")
}

func TestScene_ChangedSince(t *testing.T) {
	s := memory.NewScene()
	a, _ := s.Spawn("a", 0)
	b, _ := s.Spawn("b", 0)
	require.NoError(t, s.Insert(a, domain.Display{State: domain.DisplayFlex}))
	assert.Empty(t, s.ChangedSince(0), "Insert is construction, not a change")

	require.NoError(t, s.Set(b, domain.Size{Height: 1, Width: 2}))
	tick := s.Advance()
	require.NoError(t, s.Set(a, domain.Display{State: domain.DisplayNone}))

	assert.Equal(t, []domain.AttributeChange{
		{Entity: a, Kind: domain.KindDisplay, Tick: tick},
	}, s.ChangedSince(tick))
	assert.Len(t, s.ChangedSince(0), 2)
}

func TestScene_Describe(t *testing.T) {
	s := memory.NewScene()
	root, _ := s.Spawn("menu", 0, domain.GroupVisibility, domain.GroupDisplay)
	require.NoError(t, s.Insert(root, domain.Size{Height: 10, Width: 5}, domain.Display{State: domain.DisplayFlex}))

	id, ok := s.Lookup("menu")
	require.True(t, ok)
	snap, ok := s.Describe(id)
	require.True(t, ok)

	assert.Equal(t, "menu", snap.Name)
	assert.Equal(t, []domain.Group{domain.GroupDisplay, domain.GroupVisibility}, snap.Groups)
	assert.Equal(t, []domain.Attribute{
		domain.Display{State: domain.DisplayFlex},
		domain.Size{Height: 10, Width: 5},
	}, snap.Attributes)
}

func TestScene_SpawnErrors(t *testing.T) {
	s := memory.NewScene()
	_, err := s.Spawn("orphan", domain.EntityID(77))
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	_, err = s.Spawn("dup", 0)
	require.NoError(t, err)
	_, err = s.Spawn("dup", 0)
	assert.Error(t, err)
}
