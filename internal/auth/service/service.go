// Package service implements the single path through which session state
// transitions occur: login, registration, logout, verification and refresh.
// It owns the legacy single-admin fallback and translates every lower-level
// failure into the domain error taxonomy before it reaches the UI layer.
package service

import (
	"context"
	"log/slog"

	"intake/internal/auth/models"
	"intake/internal/auth/store"
	"intake/internal/platform/metrics"
)

// Backend is the slice of the API client the auth service needs. The remote
// system is always authoritative when reachable; this interface exists so
// unit tests can script its availability.
type Backend interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// LegacyCredentials is the hardcoded credential pair honored after a failed
// remote login, preserving the prior single-admin deployment without a data
// migration.
type LegacyCredentials struct {
	Email    string
	Password string
}

func defaultLegacyCredentials() LegacyCredentials {
	return LegacyCredentials{Email: "admin@example.com", Password: "admin123"}
}

// Service coordinates the credential store and the remote auth endpoints.
type Service struct {
	backend Backend
	creds   store.Repository
	legacy  LegacyCredentials
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLegacyCredentials overrides the fallback credential pair, mainly for
// tests.
func WithLegacyCredentials(lc LegacyCredentials) Option {
	return func(s *Service) { s.legacy = lc }
}

// NewService constructs the auth service.
func NewService(backend Backend, creds store.Repository, opts ...Option) *Service {
	svc := &Service{
		backend: backend,
		creds:   creds,
		legacy:  defaultLegacyCredentials(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// IsAuthenticated is the pure local check used for instantaneous gating
// decisions. It never touches the network; VerifyToken is the authoritative
// asynchronous counterpart.
func (s *Service) IsAuthenticated() bool {
	return s.creds.Load().Valid()
}

// CurrentUser returns the cached user snapshot, or nil when logged out.
func (s *Service) CurrentUser() *models.User {
	return s.creds.Load().User
}

// CurrentSession returns the cached session as-is, without verification.
func (s *Service) CurrentSession() models.Session {
	return s.creds.Load()
}

func (s *Service) incLogin() {
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}
}

func (s *Service) incLegacyFallback() {
	if s.metrics != nil {
		s.metrics.LegacyFallbackLogins.Inc()
	}
}

func (s *Service) incAuthFailure(code string) {
	if s.metrics != nil {
		s.metrics.AuthFailures.WithLabelValues(code).Inc()
	}
}

func (s *Service) incVerification(outcome string) {
	if s.metrics != nil {
		s.metrics.TokenVerifications.WithLabelValues(outcome).Inc()
	}
}
