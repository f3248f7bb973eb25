package scene_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_LoadAndBuild(t *testing.T) {
	spec, err := scene.File("testdata/panel.yaml").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "panel", spec.Name, "name defaults to the file stem")
	require.Len(t, spec.Entities, 4)
	assert.Equal(t, []string{"display"}, spec.Entities[0].Groups)
	assert.Equal(t, &domain.Size{Height: 100, Width: 4}, spec.Entities[1].Size)
	assert.Equal(t, &domain.Vec2{X: 3, Y: 4}, spec.Entities[3].Position)

	in, err := scene.Build(spec)
	require.NoError(t, err)

	panel, ok := in.Graph.Lookup("panel")
	require.True(t, ok)
	row1, _ := in.Graph.Lookup("row1")
	p, ok := in.Graph.Parent(row1)
	require.True(t, ok)
	assert.Equal(t, panel, p, "children may be declared before their parent")

	require.Equal(t, []domain.EntityID{panel}, in.Order)
	rules := in.Tables[panel]
	require.Len(t, rules, 2)
	assert.Equal(t, domain.GroupSize, rules[0].Group, "group inferred from the change")
	assert.Equal(t, domain.GroupDisplay, rules[1].Group)
	assert.Equal(t, "size:minimized(100,4)", rules[0].Target.String())

	eng := cascade.New(in.Graph)
	require.NoError(t, in.Attach(eng))

	ctx := context.Background()
	batch, err := eng.Trigger(ctx, domain.Signal{Entity: panel, Kind: domain.Clicked})
	require.NoError(t, err)
	assert.Len(t, batch.Descriptors, 3)
	_, err = eng.Tick(ctx)
	require.NoError(t, err)

	size, _ := in.Graph.Get(panel, domain.KindSize)
	assert.Equal(t, domain.Size{Height: 100, Width: 20}, size)
}

func TestFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	doc := `{"name":"json-menu","entities":[{"name":"m","groups":["display"],"display":"flex","selected":true,"rules":[{"on":"hover","relationship":"custom:1,2","change":"change_visible(selection)","only":[1]}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	spec, err := scene.File(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "json-menu", spec.Name)

	rule, err := spec.Entities[0].Rules[0].Rule()
	require.NoError(t, err)
	assert.Equal(t, domain.GroupSelectable, rule.Group)
	assert.Equal(t, domain.Custom(1, 2), rule.Action.Relationship)
	require.NotNil(t, rule.Action.Change.Filter)
	assert.Equal(t, []float64{1}, rule.Action.Change.Filter.Include)
}

func TestDecode_Errors(t *testing.T) {
	_, err := scene.Decode(map[string]any{"entities": []any{map[string]any{"name": "x", "colour": "red"}}})
	assert.ErrorIs(t, err, scene.ErrInvalidScene, "unknown keys are rejected")

	_, err = scene.Decode(map[string]any{"entities": []any{map[string]any{"name": "x", "size": "tall"}}})
	assert.ErrorIs(t, err, scene.ErrInvalidScene)
}

func TestBuild_Errors(t *testing.T) {
	cases := map[string]*scene.Spec{
		"unknown parent": {Entities: []scene.EntitySpec{{Name: "a", Parent: "ghost"}}},
		"duplicate":      {Entities: []scene.EntitySpec{{Name: "a"}, {Name: "a"}}},
		"cycle":          {Entities: []scene.EntitySpec{{Name: "a", Parent: "b"}, {Name: "b", Parent: "a"}}},
		"unnamed":        {Entities: []scene.EntitySpec{{}}},
		"bad display":    {Entities: []scene.EntitySpec{{Name: "a", Display: "block"}}},
		"bad rule":       {Entities: []scene.EntitySpec{{Name: "a", Rules: []scene.RuleSpec{{On: "clicked", Relationship: "cousin", Change: "change_visible"}}}}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scene.Build(spec)
			assert.Error(t, err)
		})
	}
}

func TestBuilder(t *testing.T) {
	b := scene.New("dropdown")
	b.Entity("menu").In(domain.GroupDisplay).Display(domain.DisplayFlex).
		On(scene.RuleSpec{On: "clicked", Relationship: "child", Change: "change_visible", Source: "display:flex"})
	b.Entity("a").Under("menu").In(domain.GroupDisplay).Display(domain.DisplayFlex).Identity(1)
	b.Entity("b").Under("menu").In(domain.GroupDisplay).Display(domain.DisplayFlex).Selected(true)
	b.Entity("w").In(domain.GroupDrag, domain.GroupScroll).Position(1, 1).Scroll(0, 0).Size(10, 10).Visibility(domain.Hidden)

	spec, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, spec.Entities, 4)
	assert.Same(t, b.Entity("menu"), b.Entity("menu"))

	in, err := b.Build()
	require.NoError(t, err)
	w, _ := in.Graph.Lookup("w")
	snap, ok := in.Graph.Describe(w)
	require.True(t, ok)
	assert.Len(t, snap.Attributes, 4)

	eng := cascade.New(in.Graph)
	require.NoError(t, in.Attach(eng))
	menu, _ := in.Graph.Lookup("menu")
	batch, err := eng.Trigger(context.Background(), domain.Signal{Entity: menu, Kind: domain.Clicked})
	require.NoError(t, err)
	assert.Len(t, batch.Descriptors, 2)
}
