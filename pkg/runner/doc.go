/*
Package runner drives a cascade engine from a script or an interactive
command stream, reporting every batch and tick through a pluggable handler.

# Commands

One step per line (or per YAML list item):

	click <entity>             hover <entity>
	trigger <kind> <entity> [dx dy]
	press <entity>             release
	move <dx> <dy>             drag <entity> <dx> <dy>
	scroll <entity> <dx> <dy>  tick
	inspect <entity>

Entities are named or given as numeric handles.

# Usage

	r := runner.New(
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
		runner.WithAutoTick(true),
	)
	script, err := runner.LoadScript("demo.yaml")
	if err != nil {
		log.Fatal(err)
	}
	if err := r.Run(ctx, engine, script.Steps); err != nil {
		log.Fatal(err)
	}
*/
package runner
