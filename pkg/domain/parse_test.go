package domain_test

import (
	"testing"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelationship(t *testing.T) {
	cases := map[string]domain.Relationship{
		"self":                    domain.SelfState,
		"self_state":              domain.SelfState,
		" Parent ":                domain.Parent,
		"child_recursive":         domain.ChildRecursive,
		"sibling_child_recursive": domain.SiblingChildRecursive,
		"custom:1,5":              domain.Custom(1, 5),
		"custom: 2.5":             domain.Custom(2.5),
	}
	for in, want := range cases {
		got, err := domain.ParseRelationship(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"cousin", "custom", "custom:x", ""} {
		_, err := domain.ParseRelationship(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidRule, bad)
	}

	r, err := domain.ParseRelationship(domain.Custom(1, 5).String())
	require.NoError(t, err)
	assert.Equal(t, domain.Custom(1, 5), r)
}

func TestParsePredicate(t *testing.T) {
	for _, in := range []string{
		"any",
		"display:flex",
		"display:none",
		"display:any",
		"visibility:hidden",
		"selection:selected",
		"selection:unselected",
		"size:any",
		"size:expanded(100,20)",
		"size:minimized(100,4)",
		"size:exact(10,10)",
	} {
		p, err := domain.ParsePredicate(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, p.String(), "String is the inverse of ParsePredicate")
	}

	p, err := domain.ParsePredicate("")
	require.NoError(t, err)
	assert.True(t, p.IsAny())

	for _, bad := range []string{"display", "display:block", "size:minimized(1)", "colour:red"} {
		_, err := domain.ParsePredicate(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidRule, bad)
	}
}

func TestPredicateMatches(t *testing.T) {
	assert.True(t, domain.DisplayIs(domain.DisplayFlex).Matches(domain.Display{State: domain.DisplayFlex}))
	assert.False(t, domain.DisplayIs(domain.DisplayFlex).Matches(domain.Display{State: domain.DisplayNone}))
	assert.False(t, domain.DisplayIs(domain.DisplayFlex).Matches(domain.Size{}), "wrong attribute kind")
	assert.True(t, domain.Minimized(100, 4).Matches(domain.Size{Height: 100, Width: 4}))
	assert.False(t, domain.Minimized(100, 4).Matches(domain.Size{Height: 100, Width: 20}))
	assert.True(t, domain.SelectionIs(false).Matches(domain.Selection{}))
	assert.True(t, domain.AnyState.Matches(nil))
}

func TestParseChange(t *testing.T) {
	cases := map[string]domain.Change{
		"change_visible":             domain.ChangeVisible(),
		"add_visible(visibility)":    domain.AddVisible().On(domain.KindVisibility),
		"remove_visible":             domain.RemoveVisible(),
		"change_size(100,20,100,4)":  domain.ChangeSize(100, 20, 100, 4),
		"update_size( 100 , 20 )":    domain.UpdateSize(100, 20),
		"drag_axis(x)":               domain.DragAxis(domain.AxisX),
		"scroll_axis":                domain.ScrollAxis(domain.AxisXY),
		"highlight":                  {Kind: "highlight"},
	}
	for in, want := range cases {
		got, err := domain.ParseChange(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "change_size(1,2)", "update_size(a,b)", "drag_axis(z)", "highlight(1)", "update_size(1,2"} {
		_, err := domain.ParseChange(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidRule, bad)
	}

	c := domain.ChangeSize(100, 20, 100, 4)
	back, err := domain.ParseChange(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestIDFilter(t *testing.T) {
	c := domain.ChangeVisible().Only(1, 2).Except(2)
	require.NotNil(t, c.Filter)
	assert.True(t, c.Filter.Allows(1, true))
	assert.False(t, c.Filter.Allows(2, true), "exclude wins")
	assert.False(t, c.Filter.Allows(3, true))
	assert.False(t, c.Filter.Allows(0, false), "include requires an identity")

	except := domain.ChangeVisible().Except(7)
	assert.True(t, except.Filter.Allows(0, false))
	assert.False(t, except.Filter.Allows(7, true))

	var nilFilter *domain.IDFilter
	assert.True(t, nilFilter.Allows(9, true))

	base := domain.ChangeVisible().Only(1)
	_ = base.Only(2)
	assert.Equal(t, []float64{1}, base.Filter.Include, "chaining does not alias the receiver's filter")
}

func TestRuleValidate(t *testing.T) {
	ok := domain.NewRule(domain.GroupDisplay, domain.Clicked, domain.Child, domain.ChangeVisible())
	require.NoError(t, ok.Validate())
	assert.Equal(t, "[display] on clicked child change_visible(display) when any where any", ok.String())

	noGroup := domain.NewRule("", domain.Clicked, domain.Child, domain.ChangeVisible())
	assert.ErrorIs(t, noGroup.Validate(), domain.ErrInvalidRule)

	badTrigger := domain.NewRule(domain.GroupDisplay, "tapped", domain.Child, domain.ChangeVisible())
	assert.ErrorIs(t, badTrigger.Validate(), domain.ErrInvalidRule)

	noChange := domain.NewRule(domain.GroupDisplay, domain.Clicked, domain.Child, domain.Change{})
	assert.ErrorIs(t, noChange.Validate(), domain.ErrInvalidRule)
}
