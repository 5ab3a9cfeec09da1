package service

import (
	"context"
	"crypto/subtle"

	"intake/internal/auth/models"
	dErrors "intake/pkg/domain-errors"
)

// Login authenticates against the remote API and persists the resulting
// session. The legacy fallback is evaluated only after the remote attempt has
// failed: the backend is authoritative whenever it is reachable, even if the
// submitted credentials happen to match the legacy pair.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Session{}, err
	}

	var resp models.AuthResponse
	err := s.backend.Post(ctx, "/users/login", req, &resp)
	if err == nil && resp.Success && resp.Token != "" && resp.User != nil {
		if saveErr := s.creds.Save(resp.Token, resp.User); saveErr != nil {
			return models.Session{}, dErrors.Wrap(saveErr, dErrors.CodeInternal, "persist session")
		}
		s.incLogin()
		s.logger.InfoContext(ctx, "login succeeded", "user_id", resp.User.UserID)
		return models.Session{Token: resp.Token, Scheme: models.SchemeModern, User: resp.User}, nil
	}
	if err == nil {
		err = dErrors.New(dErrors.CodeInvalidCredentials, nonEmpty(resp.Message, "login rejected"))
	}

	if s.matchesLegacy(req) {
		user := models.LegacyAdminUser()
		if saveErr := s.creds.SaveLegacy(user); saveErr != nil {
			return models.Session{}, dErrors.Wrap(saveErr, dErrors.CodeInternal, "persist session")
		}
		s.incLegacyFallback()
		s.logger.InfoContext(ctx, "legacy admin fallback login", "remote_error", err.Error())
		return models.Session{Token: models.LegacyToken, Scheme: models.SchemeLegacy, User: user}, nil
	}

	classified := classifyAuthError(err)
	s.incAuthFailure(string(dErrors.CodeOf(classified)))
	return models.Session{}, classified
}

// Register creates a multi-user account and logs it in. There is no legacy
// fallback for registration.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.Session, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return models.Session{}, err
	}

	var resp models.AuthResponse
	if err := s.backend.Post(ctx, "/users/register", req, &resp); err != nil {
		classified := classifyAuthError(err)
		s.incAuthFailure(string(dErrors.CodeOf(classified)))
		return models.Session{}, classified
	}
	if !resp.Success || resp.Token == "" || resp.User == nil {
		return models.Session{}, dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "registration failed"))
	}

	if err := s.creds.Save(resp.Token, resp.User); err != nil {
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist session")
	}
	s.incLogin()
	s.logger.InfoContext(ctx, "registration succeeded", "user_id", resp.User.UserID)
	return models.Session{Token: resp.Token, Scheme: models.SchemeModern, User: resp.User}, nil
}

// matchesLegacy compares the submitted credentials against the hardcoded
// legacy pair in constant time.
func (s *Service) matchesLegacy(req models.LoginRequest) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.legacy.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.legacy.Password)) == 1
	return emailOK && passOK
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
