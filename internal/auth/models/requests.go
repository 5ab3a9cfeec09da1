package models

import (
	"net/mail"
	"strings"

	dErrors "intake/pkg/domain-errors"
)

// LoginRequest carries the credentials submitted to POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize lowercases the email the way the web client does before sending.
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate checks the request before any network call is attempted.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// RegisterRequest carries the payload for POST /users/register.
type RegisterRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization,omitempty"`
}

const minPasswordLength = 8

// Normalize lowercases the email and defaults the username to it.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Username == "" {
		r.Username = r.Email
	}
}

// Validate checks the request before any network call is attempted.
func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	if len(r.Password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if r.FirstName == "" {
		return dErrors.New(dErrors.CodeValidation, "first name is required")
	}
	return nil
}

// AuthResponse is the shape returned by login, register and refresh calls.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// ProfileResponse is the shape returned by the whoami endpoint.
type ProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}
