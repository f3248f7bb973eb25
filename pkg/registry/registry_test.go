package registry_test

import (
	"testing"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/aretw0/cascade/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_BuiltinTargets(t *testing.T) {
	r := registry.Default()

	cases := []struct {
		change domain.Change
		want   domain.AttrKind
	}{
		{domain.ChangeVisible(), domain.KindDisplay},
		{domain.AddVisible().On(domain.KindVisibility), domain.KindVisibility},
		{domain.RemoveVisible().On(domain.KindSelection), domain.KindSelection},
		{domain.Change{Kind: domain.ChangeToggleVisible}, domain.KindDisplay},
		{domain.ChangeSize(100, 20, 100, 4), domain.KindSize},
		{domain.UpdateSize(1, 2), domain.KindSize},
		{domain.DragAxis(domain.AxisX), domain.KindPosition},
		{domain.ScrollAxis(domain.AxisY), domain.KindScroll},
	}
	for _, tc := range cases {
		t.Run(tc.change.String(), func(t *testing.T) {
			b, err := r.Lookup(tc.change.Kind)
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.Target(tc.change))
		})
	}
	assert.Len(t, r.Kinds(), 7)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := registry.NewRegistry().Lookup(domain.ChangeToggleVisible)
	assert.ErrorIs(t, err, domain.ErrUnknownChange)
}

func TestRegister_CustomKind(t *testing.T) {
	r := registry.Default()
	const select1 domain.ChangeKind = "select_only"
	r.Register(select1, registry.Behavior{
		Target: func(domain.Change) domain.AttrKind { return domain.KindSelection },
		Algebra: ports.AlgebraFunc(func(cur domain.Attribute, _ domain.Change, _ *domain.Session) (domain.Attribute, bool) {
			return domain.Selection{Selected: true}, true
		}),
	})

	b, err := r.Lookup(select1)
	require.NoError(t, err)
	got, ok := b.Algebra.Compute(domain.Selection{}, domain.Change{Kind: select1}, nil)
	require.True(t, ok)
	assert.Equal(t, domain.Selection{Selected: true}, got)
	assert.Contains(t, r.Kinds(), select1)
}
