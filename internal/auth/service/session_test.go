package service

import (
	"context"

	"intake/internal/auth/models"
	dErrors "intake/pkg/domain-errors"
)

func (s *AuthServiceSuite) TestLogoutModernNotifiesBackend() {
	s.loginModern()

	s.svc.Logout(context.Background())

	s.True(s.backend.called("POST /users/logout"))
	s.False(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestLogoutLegacySkipsBackend() {
	s.Require().NoError(s.creds.SaveLegacy(models.LegacyAdminUser()))

	s.svc.Logout(context.Background())

	s.False(s.backend.called("POST /users/logout"))
	s.False(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestLogoutClearsEvenWhenBackendFails() {
	s.loginModern()
	s.backend.logoutErr = dErrors.New(dErrors.CodeServerError, "boom")

	s.svc.Logout(context.Background())

	s.False(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestLogoutWithoutSessionIsNoop() {
	s.svc.Logout(context.Background())
	s.Empty(s.backend.calls)
}

func (s *AuthServiceSuite) TestRefreshRotatesToken() {
	s.loginModern()
	rotated := s.modernUser()
	s.backend.refreshResp = models.AuthResponse{Success: true, Token: "tok_rotated", User: rotated}

	sess, err := s.svc.RefreshToken(context.Background())
	s.Require().NoError(err)
	s.Equal("tok_rotated", sess.Token)
	s.Equal("tok_rotated", s.creds.Load().Token)
}

func (s *AuthServiceSuite) TestRefreshFailureClearsSession() {
	s.loginModern()
	s.backend.refreshErr = dErrors.New(dErrors.CodeUnauthorized, "refresh token spent")

	_, err := s.svc.RefreshToken(context.Background())
	s.Error(err)
	s.False(s.svc.IsAuthenticated())
}

func (s *AuthServiceSuite) TestRefreshLegacyIsLocalNoop() {
	s.Require().NoError(s.creds.SaveLegacy(models.LegacyAdminUser()))

	sess, err := s.svc.RefreshToken(context.Background())
	s.Require().NoError(err)
	s.Equal(models.LegacyToken, sess.Token)
	s.Empty(s.backend.calls)
}

func (s *AuthServiceSuite) TestCurrentUser() {
	s.Nil(s.svc.CurrentUser())
	s.loginModern()
	s.Equal("usr_7", s.svc.CurrentUser().UserID)
}

func (s *AuthServiceSuite) TestChangePasswordRequiresSession() {
	err := s.svc.ChangePassword(context.Background(), "old", "newpassword")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *AuthServiceSuite) TestForgotPasswordValidatesEmail() {
	err := s.svc.ForgotPassword(context.Background(), "  ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
