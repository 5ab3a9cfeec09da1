package models

// This file contains pure domain models for authentication: entities
// that should not depend on transport or HTTP-specific concerns.

// TokenScheme distinguishes the two credential storage conventions: the
// multi-user scheme issued by the remote API and the single-admin scheme
// retained for backward compatibility.
type TokenScheme string

const (
	SchemeNone   TokenScheme = ""
	SchemeModern TokenScheme = "modern"
	SchemeLegacy TokenScheme = "legacy"
)

// LegacyToken is the sentinel token value for legacy admin sessions. It is
// never sent to the remote API; legacy sessions are locally authoritative.
const LegacyToken = "legacy-admin-token"

// User is the denormalized profile snapshot cached alongside the token.
type User struct {
	ID             string `json:"id,omitempty"`
	UserID         string `json:"userId"`
	Username       string `json:"username,omitempty"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Organization   string `json:"organization,omitempty"`
	FormLink       string `json:"formLink,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsLegacy       bool   `json:"isLegacy,omitempty"`
}

// FullName returns the display name used by dashboard views.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Session is the client-side representation of "is someone logged in, and as
// whom". A session is valid only when both the token and the user snapshot
// are present; scheme-specific verification rules live in the auth service.
type Session struct {
	Token  string
	Scheme TokenScheme
	User   *User
}

// Valid reports whether the session carries both a token and a user record.
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// IsLegacy reports whether the session uses the legacy single-admin scheme.
func (s Session) IsLegacy() bool {
	return s.Scheme == SchemeLegacy
}

// LegacyAdminUser returns the fixed profile for the legacy admin account.
func LegacyAdminUser() *User {
	return &User{
		ID:           "admin",
		UserID:       "LEGACY_ADMIN_001",
		Username:     "admin",
		Email:        "admin@example.com",
		FirstName:    "Admin",
		LastName:     "User",
		Organization: "System Administration",
		FormLink:     "/form/LEGACY_ADMIN_001",
		IsLegacy:     true,
	}
}
