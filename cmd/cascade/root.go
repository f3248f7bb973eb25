package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Cascade propagates interactions through an entity graph",
	Long: `Cascade turns an interaction on one entity (click, hover, drag, scroll) into
state changes on related entities, following declarative rule tables.
Scenes are YAML/JSON files or directories with one document per entity.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cli.RegisterSceneFlags(rootCmd.PersistentFlags())
}

// loadConfig merges environment and flags. A positional argument names the
// scene when --scene is not set.
func loadConfig(cmd *cobra.Command, args []string) (cli.Config, *slog.Logger, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return cli.Config{}, nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return cli.Config{}, nil, err
	}
	if !cmd.Flags().Changed("scene") && len(args) > 0 {
		cfg.Scene = args[0]
	}
	return cfg, logging.NewWriter(os.Stderr, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel)), nil
}
