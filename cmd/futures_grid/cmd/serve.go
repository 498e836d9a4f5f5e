package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"frizo/futures_grid/internal/api"
	"frizo/futures_grid/internal/margin"
	"frizo/futures_grid/internal/version"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Start the HTTP API:

  POST /api/v1/grid/calculate
  GET  /api/v1/margin/tiers
  GET  /health
  GET  /version

Host, port and CORS origins come from the environment (HOST, PORT,
CORS_ALLOWED_ORIGINS) unless overridden by flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			// Setup graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.Info("Starting Futures Grid Calculator",
				"version", version.Short(),
				"environment", a.cfg.Environment,
				"formula", a.cfg.Formula().String(),
				"address", a.cfg.Address(),
			)

			if err := api.NewServer(a.cfg, a.log, margin.Default()).Run(ctx); err != nil {
				a.log.Error("Server error", "error", err)
				return err
			}

			a.log.Info("Futures Grid Calculator stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from PORT)")
	return cmd
}
