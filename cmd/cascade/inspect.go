package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/presentation/tui"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/runner"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [entity...]",
	Short: "Report the initial state of scene entities",
	Long: `Prints a markdown report of the named entities (all of them when none is
given): parent, children, groups, attributes and attached rules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		st, err := cli.NewStack(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		eng := st.Engine

		var snaps []domain.EntitySnapshot
		if len(args) == 0 {
			snaps = eng.Inspect()
		}
		for _, name := range args {
			id, ok := eng.Resolve(name)
			if !ok {
				return fmt.Errorf("%w: %s", runner.ErrUnknownEntity, name)
			}
			snap, _ := eng.Describe(id)
			snaps = append(snaps, snap)
		}

		var md strings.Builder
		fmt.Fprintf(&md, "# Scene %s\n\n", st.Spec.Name)
		for _, snap := range snaps {
			md.WriteString(runner.Describe(snap))
			if rules := eng.Rules(snap.ID); len(rules) > 0 {
				md.WriteString("Rules:\n\n")
				for _, r := range rules {
					fmt.Fprintf(&md, "- `%s`\n", r)
				}
				md.WriteString("\n")
			}
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			_, err = io.WriteString(cmd.OutOrStdout(), md.String())
			return err
		}
		render, err := tui.NewRenderer(0)
		if err != nil {
			return err
		}
		out, err := render(md.String())
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
