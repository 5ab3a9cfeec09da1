package service

import (
	"context"

	"intake/internal/auth/models"
	dErrors "intake/pkg/domain-errors"
)

// VerifyToken performs the authoritative session check.
//
// Legacy sessions are locally authoritative and verify without a network
// call. Modern sessions ask the whoami endpoint; an active rejection clears
// the session, while a transport failure trusts the local token so the
// dashboard stays usable when the backend is unreachable.
func (s *Service) VerifyToken(ctx context.Context) bool {
	sess := s.creds.Load()
	if !sess.Valid() {
		s.incVerification("absent")
		return false
	}
	if sess.Scheme == models.SchemeLegacy {
		s.incVerification("legacy_local")
		return true
	}

	var resp models.ProfileResponse
	err := s.backend.Get(ctx, "/users/profile", &resp)
	switch {
	case err == nil && resp.Success:
		s.incVerification("accepted")
		return true
	case dErrors.HasCode(err, dErrors.CodeNetworkUnreachable):
		// Backend unreachable is not a rejection; keep the session intact.
		s.incVerification("offline_trusted")
		s.logger.WarnContext(ctx, "verification skipped, backend unreachable", "error", err)
		return true
	default:
		s.incVerification("rejected")
		s.logger.InfoContext(ctx, "token rejected during verification", "error", err)
		if clearErr := s.creds.Clear(); clearErr != nil {
			s.logger.WarnContext(ctx, "clearing credentials failed", "error", clearErr)
		}
		return false
	}
}
