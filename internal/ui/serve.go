package ui

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arveiter/blockplan/internal/api"
	"github.com/arveiter/blockplan/internal/logger"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the HTTP API server.

The server exposes note previewing, plan confirmation, block listing,
and block adjustment. It shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  blockplan serve
  blockplan serve --addr=:9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := api.New(addr, a.planner, a.repo, logger.New("api"))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}
