package main

import (
	"fmt"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/validator"
	"github.com/aretw0/cascade/pkg/registry"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scene]",
	Short: "Check a scene for consistency",
	Long: `Loads the scene and reports unknown parents, duplicate names, parent cycles,
rules that do not compile and groups no entity carries. All problems are listed at once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		spec, err := cli.LoadSpec(cmd.Context(), cfg.Scene)
		if err != nil {
			return err
		}
		if err := validator.ValidateScene(spec, registry.Default()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		rules := 0
		for _, e := range spec.Entities {
			rules += len(e.Rules)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scene %q is valid! ✅ (%d entities, %d rules)\n", spec.Name, len(spec.Entities), rules)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
