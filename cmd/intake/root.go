package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"intake/internal/api"
	appservice "intake/internal/application/service"
	authservice "intake/internal/auth/service"
	authstore "intake/internal/auth/store"
	emailservice "intake/internal/email/service"
	emailstore "intake/internal/email/store"
	"intake/internal/guard"
	"intake/internal/platform/config"
	"intake/internal/platform/logger"
	"intake/internal/platform/metrics"
	userservice "intake/internal/user/service"
)

// app bundles the wired service stack shared by every subcommand.
type app struct {
	cfg    config.Client
	logger *slog.Logger
	creds  *authstore.FileRepository
	auth   *authservice.Service
	guard  *guard.Guard
	apps   *appservice.Service
	emails *emailservice.Service
	users  *userservice.Service
}

// buildApp wires the client stack from environment configuration. The auth
// endpoints get a non-retrying client so a login stays a single attempt;
// read-heavy services share a retrying one.
func buildApp() *app {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	creds := authstore.NewFile(cfg.CredentialsFile)
	m := metrics.New()

	tokens := api.TokenFunc(func() string { return creds.Load().Token })
	evict := func() { _ = creds.Clear() }

	authClient := api.New(cfg.APIBaseURL, cfg.HTTPTimeout,
		api.WithTokenSource(tokens),
		api.WithUnauthorizedHook(evict),
		api.WithLogger(log),
		api.WithMetrics(m),
	)
	dataClient := api.New(cfg.APIBaseURL, cfg.HTTPTimeout,
		api.WithTokenSource(tokens),
		api.WithUnauthorizedHook(evict),
		api.WithLogger(log),
		api.WithMetrics(m),
		api.WithRetries(2),
	)

	auth := authservice.NewService(authClient, creds,
		authservice.WithLogger(log),
		authservice.WithMetrics(m),
	)
	templates := emailstore.NewTemplateStore(filepath.Join(filepath.Dir(cfg.CredentialsFile), "templates.json"))

	return &app{
		cfg:    cfg,
		logger: log,
		creds:  creds,
		auth:   auth,
		guard:  guard.New(auth, guard.WithRemoteVerify()),
		apps:   appservice.New(dataClient, appservice.WithLogger(log)),
		emails: emailservice.New(dataClient, templates, emailservice.WithLogger(log)),
		users:  userservice.New(dataClient, creds, userservice.WithLogger(log)),
	}
}

// NewRootCmd creates the root command for the intake CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "intake - job application management from the terminal",
		Long: `intake manages job application forms, submissions and applicant
emails against an intake backend. Credentials are cached locally, so a
login survives across invocations until it is revoked or expires.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewAuthCmd())
	cmd.AddCommand(NewApplicationsCmd())
	cmd.AddCommand(NewEmailsCmd())
	cmd.AddCommand(NewFormCmd())
	cmd.AddCommand(NewStubCmd())

	return cmd
}
