package devstub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authmodels "intake/internal/auth/models"
)

type ctxKey int

const userKey ctxKey = iota

// requireAuth resolves the bearer token to an account. The client-side legacy
// sentinel token is honored as the fixed legacy admin so a fallback session
// can still exercise the stub.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if token == authmodels.LegacyToken {
			ctx := context.WithValue(r.Context(), userKey, *authmodels.LegacyAdminUser())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "token rejected")
			return
		}

		email, _ := claims["email"].(string)
		s.mu.RLock()
		acct, ok := s.accounts[strings.ToLower(email)]
		s.mu.RUnlock()
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, acct.user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) authmodels.User {
	user, _ := r.Context().Value(userKey).(authmodels.User)
	return user
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authmodels.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	req.Normalize()

	s.mu.RLock()
	acct, ok := s.accounts[req.Email]
	s.mu.RUnlock()
	if !ok || !s.checkPassword(acct.passwordHash, req.Password) {
		s.writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.issueToken(acct.user.UserID, acct.user.Email)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}
	s.writeJSON(w, http.StatusOK, authmodels.AuthResponse{
		Success: true,
		Token:   token,
		User:    &acct.user,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authmodels.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "password hashing failed")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		s.writeError(w, http.StatusConflict, "an account with this email already exists")
		return
	}
	user := authmodels.User{
		UserID:       "usr_" + uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Organization: req.Organization,
	}
	user.FormLink = "/form/" + user.UserID
	s.accounts[req.Email] = &account{user: user, passwordHash: hash}
	s.mu.Unlock()

	token, err := s.issueToken(user.UserID, user.Email)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}
	s.writeJSON(w, http.StatusCreated, authmodels.AuthResponse{
		Success: true,
		Token:   token,
		User:    &user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout exists so clients can notify and move on.
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName    string `json:"firstName"`
		LastName     string `json:"lastName"`
		Organization string `json:"organization"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}

	user := currentUser(r)
	if user.IsLegacy {
		// The legacy admin is synthetic; reflect the change without storing it.
		applyProfile(&user, req.FirstName, req.LastName, req.Organization)
		s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(user.Email)]
	if !ok {
		s.mu.Unlock()
		s.writeError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	applyProfile(&acct.user, req.FirstName, req.LastName, req.Organization)
	updated := acct.user
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": updated})
}

func applyProfile(user *authmodels.User, firstName, lastName, organization string) {
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if organization != "" {
		user.Organization = organization
	}
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.IsLegacy {
		s.writeError(w, http.StatusBadRequest, "legacy sessions do not refresh")
		return
	}
	token, err := s.issueToken(user.UserID, user.Email)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}
	s.writeJSON(w, http.StatusOK, authmodels.AuthResponse{
		Success: true,
		Token:   token,
		User:    &user,
	})
}
