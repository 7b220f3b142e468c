package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pulsegram/pulse"
	"github.com/pulsegram/pulse/internal/config"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
		apiBaseURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interaction server",
		Long: `Run the websocket server browsers connect to.

Configuration is read from pulse.json in the working directory (or the
file given with --config), then overridden by PULSE_-prefixed
environment variables and finally by flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if apiBaseURL != "" {
				cfg.API.BaseURL = apiBaseURL
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := pulse.New(cfg)
			if err := app.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to pulse.json")
	cmd.Flags().StringVar(&host, "host", "", "Bind host (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Bind port (overrides config)")
	cmd.Flags().StringVar(&apiBaseURL, "api", "", "Backend API base URL (overrides config)")

	return cmd
}
