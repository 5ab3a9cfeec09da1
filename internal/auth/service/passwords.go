package service

import (
	"context"
	"strings"

	dErrors "intake/pkg/domain-errors"
)

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ForgotPassword asks the backend to send a reset link. The response is
// intentionally indistinguishable for known and unknown addresses.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	var resp statusResponse
	if err := s.backend.Post(ctx, "/users/forgot-password", map[string]string{"email": email}, &resp); err != nil {
		return classifyAuthError(err)
	}
	return nil
}

// ResetPassword completes a reset flow with the token from the email link.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return dErrors.New(dErrors.CodeValidation, "reset token is required")
	}
	if len(newPassword) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	body := map[string]string{"token": token, "password": newPassword}
	var resp statusResponse
	if err := s.backend.Post(ctx, "/users/reset-password", body, &resp); err != nil {
		return classifyAuthError(err)
	}
	if !resp.Success {
		return dErrors.New(dErrors.CodeBadRequest, nonEmpty(resp.Message, "password reset rejected"))
	}
	return nil
}

// ChangePassword rotates the password for the logged-in account.
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if !s.IsAuthenticated() {
		return dErrors.New(dErrors.CodeUnauthorized, "not logged in")
	}
	if len(newPassword) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	var resp statusResponse
	if err := s.backend.Post(ctx, "/users/change-password", body, &resp); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "change password")
	}
	if !resp.Success {
		return dErrors.New(dErrors.CodeBadRequest, nonEmpty(resp.Message, "password change rejected"))
	}
	return nil
}
