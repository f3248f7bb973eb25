package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/aretw0/cascade/pkg/registry"
	"github.com/aretw0/cascade/pkg/scene"
)

func TestValidateScene(t *testing.T) {
	// Scenario A: a valid dropdown
	valid := scene.New("dropdown")
	valid.Entity("button").On(scene.RuleSpec{On: "clicked", Relationship: "child", Change: "change_visible"})
	valid.Entity("item").Under("button").In(domain.GroupDisplay).Display(domain.DisplayFlex)

	if err := ValidateScene(valid.Spec(), nil); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}

	// Scenario B: every problem reported at once
	broken := &scene.Spec{Entities: []scene.EntitySpec{
		{Name: "a", Parent: "b"},
		{Name: "b", Parent: "a"},
		{Name: "a"},
		{Name: "orphan", Parent: "ghost"},
		{Name: "odd", Display: "sideways"},
		{Name: "btn", Rules: []scene.RuleSpec{
			{On: "clicked", Relationship: "custom", Change: "change_visible"},
			{On: "clicked", Relationship: "self", Change: "wobble"},
			{On: "clicked", Relationship: "self", Change: "change_size(1,1,1,1)"},
			{On: "clicked", Relationship: "self", Change: "scroll_axis(y)"},
			{On: "dragged", Relationship: "child", Change: "drag_axis(x)"},
		}},
		{},
	}}

	err := ValidateScene(broken, nil)
	if err == nil {
		t.Fatal("Scenario B (Broken) should have failed, but got nil")
	}
	msg := err.Error()
	for _, want := range []string{
		"found 11 errors",
		"Duplicate entity 'a'",
		"Entity 'a' is its own ancestor",
		"Entity 'b' is its own ancestor",
		"unknown parent 'ghost'",
		`unknown display "sideways"`,
		"Entity 'btn' rule 0",
		"Entity 'btn' rule 1",
		"Entity 'btn' rule 2",
		"Entity 'btn' rule 4",
		"drag_axis needs relationship self",
		"no entity carries group 'scroll'",
		"Entity 6 has no name",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in error, got:\n%v", want, msg)
		}
	}
}

func TestValidateScene_CustomRegistry(t *testing.T) {
	spec := &scene.Spec{Entities: []scene.EntitySpec{
		{Name: "list", Groups: []string{"selectable"}, Rules: []scene.RuleSpec{
			{Group: "selectable", On: "clicked", Relationship: "child", Change: "select_only"},
		}},
	}}

	if err := ValidateScene(spec, nil); err == nil {
		t.Error("unregistered change kind should fail against the default registry")
	}

	reg := registry.Default()
	reg.Register("select_only", registry.Behavior{
		Target:  func(domain.Change) domain.AttrKind { return domain.KindSelection },
		Algebra: ports.AlgebraFunc(func(current domain.Attribute, _ domain.Change, _ *domain.Session) (domain.Attribute, bool) {
			return current, true
		}),
	})
	if err := ValidateScene(spec, reg); err != nil {
		t.Errorf("registered change kind should validate: %v", err)
	}
}
