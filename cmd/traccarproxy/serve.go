package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	proxyhttp "github.com/awantoch/traccarproxy/http"
	"github.com/awantoch/traccarproxy/telemetry"
	"github.com/awantoch/traccarproxy/utils"
)

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /positions, /healthz and /metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return utils.Errorf("failed to load config: %w", err)
			}
			if addr == "" {
				addr = cfg.HTTP.Addr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Init(ctx, cfg)
			if err != nil {
				utils.Warn("tracing disabled: %v", err)
			}
			defer shutdown(context.Background())

			return proxyhttp.StartServer(ctx, cfg, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config http.host:http.port)")
	return cmd
}
