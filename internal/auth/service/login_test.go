package service

import (
	"context"

	"intake/internal/auth/models"
	dErrors "intake/pkg/domain-errors"
)

func (s *AuthServiceSuite) TestLoginRemoteSuccess() {
	s.backend.loginResp = models.AuthResponse{Success: true, Token: "tok_live", User: s.modernUser()}

	sess, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "Pat@Example.com", Password: "pw"})
	s.Require().NoError(err)
	s.Equal(models.SchemeModern, sess.Scheme)
	s.Equal("tok_live", sess.Token)

	loaded := s.creds.Load()
	s.Equal(models.SchemeModern, loaded.Scheme)
	s.False(loaded.User.IsLegacy)
	s.True(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestRemoteWinsOverMatchingLegacyCredentials() {
	// The submitted pair matches the legacy fallback, but the backend is
	// reachable and accepts it as a real account: the remote result must win.
	s.backend.loginResp = models.AuthResponse{Success: true, Token: "tok_real", User: s.modernUser()}

	sess, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	s.Require().NoError(err)
	s.Equal(models.SchemeModern, sess.Scheme)
	s.NotEqual(models.LegacyToken, sess.Token)
	s.False(s.creds.Load().IsLegacy())
}

func (s *AuthServiceSuite) TestLegacyFallbackWhenBackendUnreachable() {
	s.backend.loginErr = dErrors.New(dErrors.CodeNetworkUnreachable, "connection refused")

	sess, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "ADMIN@example.com", Password: "admin123"})
	s.Require().NoError(err)
	s.Equal(models.SchemeLegacy, sess.Scheme)
	s.Equal(models.LegacyToken, sess.Token)

	loaded := s.creds.Load()
	s.True(loaded.User.IsLegacy)
	s.True(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestLegacyFallbackAfterRemoteRejection() {
	s.backend.loginErr = dErrors.New(dErrors.CodeUnauthorized, "unknown account")

	sess, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	s.Require().NoError(err)
	s.Equal(models.SchemeLegacy, sess.Scheme)
}

func (s *AuthServiceSuite) TestLoginInvalidCredentials() {
	s.backend.loginErr = dErrors.New(dErrors.CodeUnauthorized, "bad password")

	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "pat@example.com", Password: "wrong"})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
	s.False(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestLoginUnreachableWithoutLegacyMatch() {
	s.backend.loginErr = dErrors.New(dErrors.CodeNetworkUnreachable, "timeout")

	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "pat@example.com", Password: "pw"})
	s.True(dErrors.HasCode(err, dErrors.CodeNetworkUnreachable))
	s.False(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestLoginRateLimited() {
	s.backend.loginErr = dErrors.New(dErrors.CodeRateLimited, "slow down")

	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "pat@example.com", Password: "pw"})
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *AuthServiceSuite) TestLoginServerError() {
	s.backend.loginErr = dErrors.New(dErrors.CodeServerError, "boom")

	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "pat@example.com", Password: "pw"})
	s.True(dErrors.HasCode(err, dErrors.CodeServerError))
}

func (s *AuthServiceSuite) TestLoginRejectionWithUnsuccessfulBody() {
	s.backend.loginResp = models.AuthResponse{Success: false, Message: "account disabled"}

	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "pat@example.com", Password: "pw"})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
}

func (s *AuthServiceSuite) TestLoginValidationShortCircuitsNetwork() {
	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "", Password: "pw"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.backend.calls)
}

func (s *AuthServiceSuite) TestRegisterSuccess() {
	s.backend.regResp = models.AuthResponse{Success: true, Token: "tok_new", User: s.modernUser()}

	sess, err := s.svc.Register(context.Background(), models.RegisterRequest{
		Email: "pat@example.com", Password: "longenough", FirstName: "Pat",
	})
	s.Require().NoError(err)
	s.Equal(models.SchemeModern, sess.Scheme)
	s.True(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestRegisterNoLegacyFallback() {
	s.backend.regErr = dErrors.New(dErrors.CodeNetworkUnreachable, "down")

	_, err := s.svc.Register(context.Background(), models.RegisterRequest{
		Email: "admin@example.com", Password: "admin123admin", FirstName: "Admin",
	})
	s.Error(err)
	s.False(s.svc.IsAuthenticated())
}
