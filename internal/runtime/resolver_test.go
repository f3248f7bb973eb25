package runtime_test

import (
	"slices"
	"testing"

	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tree struct {
	scene *memory.Scene
	ids   map[string]domain.EntityID
}

// newTree lays out:
//
//	root
//	├── a
//	│   ├── a1 (id 1)
//	│   │   └── a11
//	│   └── a2 (unmarked)
//	├── b
//	│   └── b1
//	└── c
//	    └── c1
//	        └── c11 (id 5)
//	stray (id 1, unrelated root)
func newTree(t *testing.T) tree {
	t.Helper()
	s := memory.NewScene()
	ids := map[string]domain.EntityID{}
	spawn := func(name, parent string, groups ...domain.Group) {
		id, err := s.Spawn(name, ids[parent], groups...)
		require.NoError(t, err)
		ids[name] = id
	}
	g := domain.GroupDisplay
	spawn("root", "", g)
	spawn("a", "root", g)
	spawn("a1", "a", g)
	spawn("a11", "a1", g)
	spawn("a2", "a")
	spawn("b", "root", g)
	spawn("b1", "b", g)
	spawn("c", "root", g)
	spawn("c1", "c", g)
	spawn("c11", "c1", g)
	spawn("stray", "", g)

	require.NoError(t, s.Insert(ids["a1"], domain.Identity{Value: 1}))
	require.NoError(t, s.Insert(ids["c11"], domain.Identity{Value: 5}))
	require.NoError(t, s.Insert(ids["stray"], domain.Identity{Value: 1}))
	require.NoError(t, s.Insert(ids["b1"], domain.Identity{Value: 7}))
	return tree{scene: s, ids: ids}
}

func (tr tree) names(ids []domain.EntityID) []string {
	var out []string
	for _, id := range ids {
		for name, v := range tr.ids {
			if v == id {
				out = append(out, name)
			}
		}
	}
	return out
}

func TestResolver_Relationships(t *testing.T) {
	tr := newTree(t)
	r := runtime.NewResolver(tr.scene, nil)

	cases := []struct {
		name   string
		source string
		rel    domain.Relationship
		want   []string
	}{
		{"self", "b", domain.SelfState, []string{"b"}},
		{"parent", "b", domain.Parent, []string{"root"}},
		{"parent of root", "root", domain.Parent, nil},
		{"child", "a", domain.Child, []string{"a1"}},
		{"sibling", "b", domain.Sibling, []string{"a", "c"}},
		{"sibling of root", "root", domain.Sibling, nil},
		{"sibling child", "b", domain.SiblingChild, []string{"a1", "c1"}},
		{"child recursive", "a", domain.ChildRecursive, []string{"a1", "a11"}},
		{"sibling child recursive", "b", domain.SiblingChildRecursive, []string{"a1", "a11", "c1", "c11"}},
		{"custom", "b", domain.Custom(1, 5), []string{"a1", "c11", "stray"}},
		{"custom no match", "b", domain.Custom(42), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(tr.ids[tc.source], domain.GroupDisplay, tc.rel)
			assert.ElementsMatch(t, tc.want, tr.names(got))
		})
	}
}

func TestResolver_ChildNeverIncludesSource(t *testing.T) {
	tr := newTree(t)
	r := runtime.NewResolver(tr.scene, nil)

	for _, e := range tr.scene.Entities() {
		got := r.Resolve(e, domain.GroupDisplay, domain.Child)
		assert.NotContains(t, got, e)
		for _, c := range got {
			assert.True(t, tr.scene.HasGroup(c, domain.GroupDisplay))
			p, ok := tr.scene.Parent(c)
			require.True(t, ok)
			assert.Equal(t, e, p)
		}
	}
}

func TestResolver_GroupFilter(t *testing.T) {
	tr := newTree(t)
	r := runtime.NewResolver(tr.scene, nil)

	assert.Empty(t, r.Resolve(tr.ids["b"], domain.GroupSize, domain.SelfState), "source lacks the size marker")
	assert.Empty(t, r.Resolve(tr.ids["a"], domain.GroupSize, domain.Custom(1)))
}

func TestResolver_MissingSource(t *testing.T) {
	tr := newTree(t)
	r := runtime.NewResolver(tr.scene, nil)
	assert.Empty(t, r.Resolve(domain.EntityID(999), domain.GroupDisplay, domain.SelfState))
}

// cyclicGraph ignores the tree invariant on purpose.
type cyclicGraph struct {
	children map[domain.EntityID][]domain.EntityID
	parent   map[domain.EntityID]domain.EntityID
}

func (g cyclicGraph) Exists(e domain.EntityID) bool {
	_, ok := g.children[e]
	return ok
}

func (g cyclicGraph) Parent(e domain.EntityID) (domain.EntityID, bool) {
	p, ok := g.parent[e]
	return p, ok
}

func (g cyclicGraph) Children(e domain.EntityID) []domain.EntityID {
	return slices.Clone(g.children[e])
}

func (g cyclicGraph) Entities() []domain.EntityID {
	var out []domain.EntityID
	for e := range g.children {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

func (cyclicGraph) HasGroup(domain.EntityID, domain.Group) bool                   { return true }
func (cyclicGraph) Has(domain.EntityID, domain.AttrKind) bool                     { return false }
func (cyclicGraph) Get(domain.EntityID, domain.AttrKind) (domain.Attribute, bool) { return nil, false }
func (cyclicGraph) Set(domain.EntityID, domain.Attribute) error                   { return nil }

func TestResolver_CycleGuard(t *testing.T) {
	g := cyclicGraph{
		children: map[domain.EntityID][]domain.EntityID{
			1: {2},
			2: {1, 3, 3},
			3: {1, 2},
			4: {2, 1},
		},
		parent: map[domain.EntityID]domain.EntityID{
			1: 3, 2: 1, 3: 2,
		},
	}
	r := runtime.NewResolver(g, nil)

	got := r.Resolve(1, domain.GroupDisplay, domain.ChildRecursive)
	assert.ElementsMatch(t, []domain.EntityID{2, 3}, got)
	assert.NotContains(t, got, domain.EntityID(1))

	got = r.Resolve(1, domain.GroupDisplay, domain.SiblingChildRecursive)
	assert.ElementsMatch(t, []domain.EntityID{3, 2}, got)
	assert.Len(t, got, len(unique(got)), "no duplicates")
}

func unique(ids []domain.EntityID) []domain.EntityID {
	cp := slices.Clone(ids)
	slices.Sort(cp)
	return slices.Compact(cp)
}
