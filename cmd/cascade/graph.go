package main

import (
	"fmt"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [scene]",
	Short: "Export the scene graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the entity tree and of the rule edges.
With --script the script runs first and the entities it changed are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		st, err := cli.NewStack(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		eng := st.Engine

		var overlay *graph.GraphOverlay
		if path, _ := cmd.Flags().GetString("script"); path != "" {
			script, err := runner.LoadScript(path)
			if err != nil {
				return err
			}
			r := runner.New(runner.WithHandler(runner.NewJSONHandler(cmd.ErrOrStderr())), runner.WithLogger(logger))
			if err := r.Run(cmd.Context(), eng, script.Steps); err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{}
			for _, c := range eng.Changes(0) {
				overlay.Changed = append(overlay.Changed, c.Entity)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Inspect(), graph.Edges(eng), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("script", "", "Run this script first and highlight what it changed")
}
