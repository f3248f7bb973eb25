package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/internal/presentation/tui"
	cascadehttp "github.com/aretw0/cascade/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scene]",
	Short: "Start the HTTP server",
	Long: `Serves the engine over a JSON API (trigger, press, release, tick, entities,
graph) with Prometheus metrics on /metrics. With --redis-addr several servers
share one descriptor queue and take turns applying it.`,
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

		handler, err := cascadehttp.NewHandler(st.Engine,
			cascadehttp.WithLogger(logger),
			cascadehttp.WithMetrics(st.Registry),
			cascadehttp.WithVersion(cascade.Version),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), cascade.Version)
			logger.Info("starting cascade server", "addr", srv.Addr, "scene", st.Spec.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			logger.Info("cascade server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	cli.RegisterServeFlags(serveCmd.Flags())
}
