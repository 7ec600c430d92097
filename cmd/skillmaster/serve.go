package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zen-systems/skillmaster/pkg/server"
)

func serveCmd() *cobra.Command {
	var portFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			if portFlag != "" {
				cfg.Port = portFlag
			}
			opts, err := stageOptions(cfg)
			if err != nil {
				return err
			}

			srv := server.NewServer(server.RouterConfig{
				HealthHandler:  server.NewHealthHandler(),
				AnalyzeHandler: server.NewAnalyzeHandler(gatewayFactory(cfg, log), opts, cfg.Catalog, log),
				Logger:         log,
				CORSOrigins:    cfg.CORSOrigins,
			})

			if _, err := cfg.APIKey(); err != nil {
				log.Warn("provider credential missing; /api/analyze will fail until it is set", "provider", cfg.Provider, "error", err.Error())
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env, "provider", cfg.Provider, "model", opts.Model, "shape", string(opts.Shape))
			if err := srv.Run(ctx, cfg.Addr()); err != nil {
				log.Error("server stopped", "error", err.Error())
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&portFlag, "port", "", "listen port (overrides PORT)")
	return cmd
}
