package service

import (
	"context"

	"intake/internal/auth/models"
	dErrors "intake/pkg/domain-errors"
)

func (s *AuthServiceSuite) TestVerifyAbsentSession() {
	s.False(s.svc.VerifyToken(context.Background()))
	s.Empty(s.backend.calls)
}

func (s *AuthServiceSuite) TestVerifyLegacySkipsNetwork() {
	s.Require().NoError(s.creds.SaveLegacy(models.LegacyAdminUser()))

	s.True(s.svc.VerifyToken(context.Background()))
	s.False(s.backend.called("GET /users/profile"))
}

func (s *AuthServiceSuite) TestVerifyModernAccepted() {
	s.loginModern()
	s.backend.profileResp = models.ProfileResponse{Success: true, User: s.modernUser()}

	s.True(s.svc.VerifyToken(context.Background()))
	s.True(s.backend.called("GET /users/profile"))
	s.True(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestVerifyModernRejectedClearsSession() {
	s.loginModern()
	s.backend.profileErr = dErrors.New(dErrors.CodeUnauthorized, "token expired")

	s.False(s.svc.VerifyToken(context.Background()))
	s.False(s.creds.Load().Valid())
}

func (s *AuthServiceSuite) TestVerifyNetworkFailureTrustsLocalToken() {
	s.loginModern()
	s.backend.profileErr = dErrors.New(dErrors.CodeNetworkUnreachable, "no route to host")

	s.True(s.svc.VerifyToken(context.Background()))

	loaded := s.creds.Load()
	s.True(loaded.Valid())
	s.Equal("tok_live", loaded.Token)
}

func (s *AuthServiceSuite) TestVerifyServerErrorClearsSession() {
	s.loginModern()
	s.backend.profileErr = dErrors.New(dErrors.CodeServerError, "boom")

	s.False(s.svc.VerifyToken(context.Background()))
	s.False(s.creds.Load().Valid())
}
