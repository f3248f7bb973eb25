/*
Package cascade is an entity-graph event propagation engine: the reactive core behind interactive menus, dropdowns, collapsible panels and visibility toggles.

Given a user interaction on one entity, the engine determines which other entities of a tree-shaped scene graph are affected, filters them by their current state, computes a new value for each with a small change algebra, and writes the results back one phase later.

# Concept

Cascade keeps the scene graph (the "Host" store) separate from the propagation rules. Interactive entities carry a rule table; each rule names a trigger, a relationship (self, parent, children, siblings, transitive closures or an id list), a change descriptor and the predicates that gate it. The engine never owns entities: it reads adjacency and attributes through ports.SceneGraph at call time.

# Two-phase tick

  - Write phase: Trigger resolves candidates and emits one batch of event descriptors. The graph is not mutated.
  - Read phase: Tick drains the queued batches in order, re-checks every target and applies or drops each descriptor exactly once.

Descriptors from one trigger are applied in the same pass and never interleaved with a later trigger's.

# Usage

	scene := memory.NewScene()
	menu, _ := scene.Spawn("menu", 0, domain.GroupDisplay)
	item, _ := scene.Spawn("item", menu, domain.GroupDisplay)
	_ = scene.Insert(menu, domain.Display{State: domain.DisplayFlex})
	_ = scene.Insert(item, domain.Display{State: domain.DisplayFlex})

	eng := cascade.New(scene)
	_ = eng.Attach(menu, domain.NewRule(domain.GroupDisplay, domain.Clicked, domain.Child, domain.ChangeVisible()))

	ctx := context.Background()
	_, _ = eng.Trigger(ctx, domain.Signal{Entity: menu, Kind: domain.Clicked})
	report, _ := eng.Tick(ctx)
	fmt.Println(report.Applied()) // 1

Scenes and rule tables can also be declared in YAML or in a Loam repository; see package scene.
*/
package cascade
