// Package service implements profile and form configuration management for
// the signed-in user. Profile updates keep the cached session user in sync,
// so the rest of the client sees the new name without a re-login.
package service

import (
	"context"
	"io"
	"log/slog"

	"intake/internal/api"
	authmodels "intake/internal/auth/models"
	authstore "intake/internal/auth/store"
	"intake/internal/user/models"
	dErrors "intake/pkg/domain-errors"
)

// Service wraps the user profile and form-config endpoints.
type Service struct {
	client *api.Client
	creds  authstore.Repository
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the user service. The credential repository is used to
// refresh the cached user after successful profile updates.
func New(client *api.Client, creds authstore.Repository, opts ...Option) *Service {
	s := &Service{client: client, creds: creds}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

type profileResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    authmodels.User `json:"user"`
}

type formConfigResponse struct {
	Success bool              `json:"success"`
	Config  models.FormConfig `json:"formConfig"`
}

type statsResponse struct {
	Success bool                  `json:"success"`
	Stats   models.DashboardStats `json:"stats"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Profile fetches the authoritative profile from the backend.
func (s *Service) Profile(ctx context.Context) (*authmodels.User, error) {
	var resp profileResponse
	if err := s.client.Get(ctx, "/users/profile", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile applies the edit remotely and, on success, rewrites the
// cached session user so the local snapshot matches the backend.
func (s *Service) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*authmodels.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp profileResponse
	if err := s.client.Put(ctx, "/users/profile", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "profile update was not applied"))
	}

	s.syncCachedUser(ctx, &resp.User)
	return &resp.User, nil
}

// syncCachedUser rewrites the stored user under the session's own scheme.
// A failure here only means the cache is stale until the next login.
func (s *Service) syncCachedUser(ctx context.Context, user *authmodels.User) {
	sess := s.creds.Load()
	if !sess.Valid() {
		return
	}
	var err error
	if sess.Scheme == authmodels.SchemeLegacy {
		err = s.creds.SaveLegacy(user)
	} else {
		err = s.creds.Save(sess.Token, user)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "cached profile not refreshed", "error", err)
	}
}

// FormConfig fetches the owner's application form definition.
func (s *Service) FormConfig(ctx context.Context) (*models.FormConfig, error) {
	var resp formConfigResponse
	if err := s.client.Get(ctx, "/users/form-config", &resp); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

// PublicFormConfig fetches another user's form for the public application
// view. No session is required.
func (s *Service) PublicFormConfig(ctx context.Context, ownerID string) (*models.FormConfig, error) {
	if ownerID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "form owner id is required")
	}
	var resp formConfigResponse
	if err := s.client.Get(ctx, "/users/"+ownerID+"/form-config", &resp); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

// UpdateFormConfig validates the form definition locally and saves it.
func (s *Service) UpdateFormConfig(ctx context.Context, cfg models.FormConfig) (*models.FormConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var resp formConfigResponse
	if err := s.client.Put(ctx, "/users/form-config", cfg, &resp); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "form configuration saved", "fields", len(cfg.Fields))
	return &resp.Config, nil
}

// DashboardStats fetches the dashboard header numbers. Failures degrade to
// zeroed counters so the page still renders.
func (s *Service) DashboardStats(ctx context.Context) models.DashboardStats {
	var resp statsResponse
	if err := s.client.Get(ctx, "/users/dashboard-stats", &resp); err != nil {
		s.logger.WarnContext(ctx, "dashboard stats unavailable", "error", err)
		return models.DashboardStats{}
	}
	return resp.Stats
}

// UploadProfilePicture replaces the avatar and returns its serving URL.
func (s *Service) UploadProfilePicture(ctx context.Context, filename string, file io.Reader) (string, error) {
	return s.upload(ctx, "/users/profile-picture", filename, file)
}

// DeleteProfilePicture removes the avatar.
func (s *Service) DeleteProfilePicture(ctx context.Context) error {
	return s.client.Delete(ctx, "/users/profile-picture", nil)
}

// UploadAdvertisement replaces the banner shown on the public form.
func (s *Service) UploadAdvertisement(ctx context.Context, filename string, file io.Reader) (string, error) {
	return s.upload(ctx, "/users/advertisement", filename, file)
}

// DeleteAdvertisement removes the public form banner.
func (s *Service) DeleteAdvertisement(ctx context.Context) error {
	return s.client.Delete(ctx, "/users/advertisement", nil)
}

func (s *Service) upload(ctx context.Context, path, filename string, file io.Reader) (string, error) {
	if filename == "" {
		return "", dErrors.New(dErrors.CodeValidation, "filename is required")
	}
	var resp uploadResponse
	if err := s.client.Upload(ctx, path, "image", filename, file, nil, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "upload was not accepted"))
	}
	return resp.URL, nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
