package service

import (
	"context"

	"intake/internal/auth/models"
	dErrors "intake/pkg/domain-errors"
)

// RefreshToken exchanges the current token for a rotated one and persists it.
// A failed refresh clears the session: the old token is assumed spent.
func (s *Service) RefreshToken(ctx context.Context) (models.Session, error) {
	sess := s.creds.Load()
	if !sess.Valid() {
		return models.Session{}, dErrors.New(dErrors.CodeUnauthorized, "no session to refresh")
	}
	if sess.Scheme == models.SchemeLegacy {
		// Legacy tokens are a local sentinel; there is nothing to rotate.
		return sess, nil
	}

	var resp models.AuthResponse
	err := s.backend.Post(ctx, "/users/refresh-token", nil, &resp)
	if err != nil || !resp.Success || resp.Token == "" || resp.User == nil {
		if clearErr := s.creds.Clear(); clearErr != nil {
			s.logger.WarnContext(ctx, "clearing credentials failed", "error", clearErr)
		}
		if err == nil {
			return models.Session{}, dErrors.New(dErrors.CodeUnauthorized, nonEmpty(resp.Message, "token refresh rejected"))
		}
		// Wrap preserves the original domain code (network, server, auth).
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token refresh failed")
	}

	if saveErr := s.creds.Save(resp.Token, resp.User); saveErr != nil {
		return models.Session{}, dErrors.Wrap(saveErr, dErrors.CodeInternal, "persist session")
	}
	return models.Session{Token: resp.Token, Scheme: models.SchemeModern, User: resp.User}, nil
}
