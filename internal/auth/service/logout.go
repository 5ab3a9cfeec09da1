package service

import (
	"context"

	"intake/internal/auth/models"
)

// Logout notifies the backend best-effort and then clears the credential
// store unconditionally. Legacy sessions skip the remote call since there is
// no server-side session to invalidate. Logout never fails from the caller's
// perspective.
func (s *Service) Logout(ctx context.Context) {
	sess := s.creds.Load()
	if sess.Valid() && sess.Scheme == models.SchemeModern {
		if err := s.backend.Post(ctx, "/users/logout", nil, nil); err != nil {
			s.logger.WarnContext(ctx, "backend logout failed, clearing locally", "error", err)
		}
	}
	if err := s.creds.Clear(); err != nil {
		s.logger.WarnContext(ctx, "clearing credentials failed", "error", err)
	}
}
