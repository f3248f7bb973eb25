package cascade_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/adapters/memory"
	"github.com/aretw0/cascade/pkg/domain"
)

// ExampleNew demonstrates a collapsible panel: clicking the header expands the
// panel and reveals its hidden rows one tick later.
func ExampleNew() {
	scene := memory.NewScene()
	panel, _ := scene.Spawn("panel", 0, domain.GroupSize, domain.GroupDisplay)
	_ = scene.Insert(panel, domain.Size{Height: 100, Width: 4})
	for _, name := range []string{"cpu", "mem"} {
		row, _ := scene.Spawn(name, panel, domain.GroupDisplay)
		_ = scene.Insert(row, domain.Display{State: domain.DisplayNone})
	}

	eng := cascade.New(scene)
	err := eng.Attach(panel,
		domain.NewRule(domain.GroupSize, domain.Clicked, domain.SelfState, domain.UpdateSize(100, 20)).
			WhenTarget(domain.Minimized(100, 4)),
		domain.NewRule(domain.GroupDisplay, domain.Clicked, domain.Child, domain.AddVisible()).
			WhenTarget(domain.DisplayIs(domain.DisplayNone)),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	batch, err := eng.Trigger(ctx, domain.Signal{Entity: panel, Kind: domain.Clicked})
	if err != nil {
		log.Fatal(err)
	}
	report, err := eng.Tick(ctx)
	if err != nil {
		log.Fatal(err)
	}

	size, _ := scene.Get(panel, domain.KindSize)
	fmt.Printf("Descriptors: %d\n", len(batch.Descriptors))
	fmt.Printf("Applied: %d\n", report.Applied())
	fmt.Printf("Panel: %s\n", size)
	// Output:
	// Descriptors: 3
	// Applied: 3
	// Panel: size(100,20)
}
