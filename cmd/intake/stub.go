package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"intake/internal/devstub"
	"intake/internal/platform/config"
	"intake/internal/platform/logger"
)

// NewStubCmd creates the stub command, which runs the in-memory development
// backend so the rest of the CLI has something to talk to.
func NewStubCmd() *cobra.Command {
	var (
		addr   string
		secret string
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run the in-memory development backend",
		Long: `Run an in-memory backend implementing the API the client consumes.
State lives only as long as the process; useful for demos and local
development without the hosted backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			log := logger.New(logger.ParseLevel(cfg.LogLevel))

			server := &http.Server{
				Addr:              addr,
				Handler:           devstub.New(secret, devstub.WithLogger(log)),
				ReadHeaderTimeout: 5 * time.Second,
			}
			log.Info("stub backend listening", "addr", addr)
			return server.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":4000", "listen address")
	cmd.Flags().StringVar(&secret, "secret", "dev-secret-change-me", "JWT signing secret")
	return cmd
}
