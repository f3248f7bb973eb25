package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SceneBuilder is a SceneGraph that can also create entities, so the
// contract can lay out its own fixture.
type SceneBuilder interface {
	ports.SceneGraph
	Spawn(name string, parent domain.EntityID, groups ...domain.Group) (domain.EntityID, error)
	Insert(e domain.EntityID, attrs ...domain.Attribute) error
}

// RunSceneGraphContract runs a suite of tests to verify that a SceneGraph
// implementation adheres to the defined interface contract.
func RunSceneGraphContract(t *testing.T, newScene func() SceneBuilder) {
	t.Helper()

	t.Run("Adjacency", func(t *testing.T) {
		s := newScene()
		root, err := s.Spawn("root", 0, domain.GroupDisplay)
		require.NoError(t, err)
		a, err := s.Spawn("a", root, domain.GroupDisplay)
		require.NoError(t, err)
		b, err := s.Spawn("b", root)
		require.NoError(t, err)

		assert.True(t, s.Exists(root))
		assert.False(t, s.Exists(domain.EntityID(9999)))

		_, hasParent := s.Parent(root)
		assert.False(t, hasParent, "root has no parent")

		p, ok := s.Parent(a)
		require.True(t, ok)
		assert.Equal(t, root, p)

		assert.Equal(t, []domain.EntityID{a, b}, s.Children(root), "children keep insertion order")
		assert.Empty(t, s.Children(a))
		assert.ElementsMatch(t, []domain.EntityID{root, a, b}, s.Entities())
	})

	t.Run("Groups", func(t *testing.T) {
		s := newScene()
		e, err := s.Spawn("", 0, domain.GroupDisplay, domain.GroupSize)
		require.NoError(t, err)

		assert.True(t, s.HasGroup(e, domain.GroupDisplay))
		assert.True(t, s.HasGroup(e, domain.GroupSize))
		assert.False(t, s.HasGroup(e, domain.GroupVisibility))
	})

	t.Run("Attributes", func(t *testing.T) {
		s := newScene()
		e, err := s.Spawn("", 0)
		require.NoError(t, err)
		require.NoError(t, s.Insert(e, domain.Display{State: domain.DisplayFlex}))

		assert.True(t, s.Has(e, domain.KindDisplay))
		assert.False(t, s.Has(e, domain.KindSize))

		require.NoError(t, s.Set(e, domain.Display{State: domain.DisplayNone}))
		got, ok := s.Get(e, domain.KindDisplay)
		require.True(t, ok)
		assert.Equal(t, domain.Display{State: domain.DisplayNone}, got, "Set overwrites in place")
	})

	t.Run("Set Unknown Entity", func(t *testing.T) {
		s := newScene()
		err := s.Set(domain.EntityID(4242), domain.Size{Height: 1, Width: 1})
		assert.ErrorIs(t, err, domain.ErrUnknownEntity)
	})
}

// RunDescriptorQueueContract verifies FIFO, whole-batch hand-off for a
// DescriptorQueue implementation. The queue must be empty on entry.
func RunDescriptorQueueContract(t *testing.T, q ports.DescriptorQueue) {
	t.Helper()
	ctx := context.Background()

	t.Run("Drain Empty", func(t *testing.T) {
		batches, err := q.Drain(ctx)
		require.NoError(t, err)
		assert.Empty(t, batches)
	})

	t.Run("FIFO Whole Batches", func(t *testing.T) {
		first := domain.Batch{
			ID:   "b-1",
			Tick: 1,
			Signal: domain.Signal{
				Entity: 1,
				Kind:   domain.Clicked,
			},
			Descriptors: []domain.EventDescriptor{
				{Target: 2, Kind: domain.KindDisplay, Value: domain.Display{State: domain.DisplayNone}, Source: 1, Change: domain.ChangeToggleVisible},
				{Target: 3, Kind: domain.KindDisplay, Value: domain.Display{State: domain.DisplayNone}, Source: 1, Change: domain.ChangeToggleVisible},
			},
		}
		second := domain.Batch{
			ID:   "b-2",
			Tick: 1,
			Signal: domain.Signal{
				Entity: 4,
				Kind:   domain.Clicked,
			},
			Descriptors: []domain.EventDescriptor{
				{Target: 4, Kind: domain.KindSize, Value: domain.Size{Height: 100, Width: 20}, Source: 4, Change: domain.ChangeUpdateSize, Guard: domain.Minimized(100, 4)},
			},
		}

		require.NoError(t, q.Push(ctx, first))
		require.NoError(t, q.Push(ctx, second))

		batches, err := q.Drain(ctx)
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, "b-1", batches[0].ID)
		assert.Equal(t, "b-2", batches[1].ID)
		require.Len(t, batches[0].Descriptors, 2)
		assert.Equal(t, domain.Display{State: domain.DisplayNone}, batches[0].Descriptors[0].Value)
		assert.Equal(t, domain.EntityID(3), batches[0].Descriptors[1].Target)
		require.Len(t, batches[1].Descriptors, 1)
		assert.Equal(t, domain.Size{Height: 100, Width: 20}, batches[1].Descriptors[0].Value)
		require.NotNil(t, batches[1].Descriptors[0].Guard)
		assert.Equal(t, "size:minimized(100,4)", batches[1].Descriptors[0].Guard.String())

		again, err := q.Drain(ctx)
		require.NoError(t, err)
		assert.Empty(t, again, "Drain removes what it returns")
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := q.Push(cctx, domain.Batch{ID: "late"})
		assert.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got %v", err)
	})
}
