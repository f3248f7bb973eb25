package main

import (
	"os"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/presentation/tui"
	"github.com/aretw0/cascade/pkg/runner"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scene]",
	Short: "Drive a scene from a script or interactively",
	Long: `Runs interactions against the scene and prints every batch and tick.

With --script the steps of a YAML script are executed in order; otherwise
commands are read from standard input, one per line:

  click <entity>, hover <entity>, drag <entity> <dx> <dy>, scroll <entity> <dx> <dy>,
  press <entity>, move <dx> <dy>, release, tick, inspect <entity>, quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}

		scriptPath, _ := cmd.Flags().GetString("script")
		var script *runner.Script
		if scriptPath != "" {
			if script, err = runner.LoadScript(scriptPath); err != nil {
				return err
			}
			if cfg.Scene == "" {
				cfg.Scene = script.Scene
			}
		}

		st, err := cli.NewStack(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()

		jsonMode, _ := cmd.Flags().GetBool("json")
		autoTick, _ := cmd.Flags().GetBool("auto-tick")
		var handler runner.Handler
		if jsonMode {
			handler = runner.NewJSONHandler(cmd.OutOrStdout())
		} else {
			var opts []runner.TextHandlerOption
			if render, err := tui.NewRenderer(0); err == nil {
				opts = append(opts, runner.WithTextHandlerRenderer(render))
			}
			th := runner.NewTextHandler(cmd.OutOrStdout(), opts...)
			if th.Interactive() && script == nil {
				tui.PrintBanner(cmd.OutOrStdout(), cascade.Version)
			}
			handler = th
		}

		r := runner.New(
			runner.WithHandler(handler),
			runner.WithLogger(logger),
			runner.WithAutoTick(autoTick || (script != nil && script.AutoTick)),
		)
		if script != nil {
			return r.Run(cmd.Context(), st.Engine, script.Steps)
		}
		return r.RunInteractive(cmd.Context(), st.Engine, os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("script", "", "YAML script to run instead of reading stdin")
	simulateCmd.Flags().Bool("json", false, "Emit JSON Lines instead of text")
	simulateCmd.Flags().Bool("auto-tick", false, "Tick after every trigger")
}
