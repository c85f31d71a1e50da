package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/lead-intel/internal/config"
	"github.com/jonathan/lead-intel/internal/notify"
	"github.com/jonathan/lead-intel/internal/server"
	"github.com/jonathan/lead-intel/internal/server/ratelimit"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lead intake and admin API server",
		Long:  `Start an HTTP server that accepts contact-form leads, scores and stores them, and exposes the token-protected admin endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			keys, err := config.NewAccessKeyConfig(cfg.Admin, os.Getenv)
			if err != nil {
				return fmt.Errorf("failed to create access key config: %w", err)
			}
			jwtConfig, err := config.NewJWTConfig(cfg.Admin)
			if err != nil {
				return fmt.Errorf("failed to create JWT config: %w", err)
			}
			jwtService := server.NewJWTService(jwtConfig)

			ctx := cmd.Context()
			store, backend, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			scorer, closeScorer, err := newScorer(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeScorer()

			srv, err := server.New(server.Config{
				Port:           cfg.Server.Port,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}, server.Deps{
				Scorer:     scorer,
				Store:      store,
				Auth:       server.NewAuthorizer(keys, jwtService),
				JWT:        jwtService,
				Notifier:   notify.New(cfg.Notify),
				RateLimits: ratelimit.LoadConfig(os.Getenv),
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "Port to listen on (overrides config)")
	return cmd
}
