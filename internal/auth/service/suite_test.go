package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"intake/internal/auth/models"
	"intake/internal/auth/store"
	dErrors "intake/pkg/domain-errors"
)

// fakeBackend scripts the remote API per path so tests control availability
// and rejection independently of the HTTP layer (which has its own suite).
type fakeBackend struct {
	loginResp   models.AuthResponse
	loginErr    error
	regResp     models.AuthResponse
	regErr      error
	profileResp models.ProfileResponse
	profileErr  error
	refreshResp models.AuthResponse
	refreshErr  error
	logoutErr   error

	calls []string
}

func (f *fakeBackend) Post(_ context.Context, path string, _, out any) error {
	f.calls = append(f.calls, "POST "+path)
	switch path {
	case "/users/login":
		if f.loginErr != nil {
			return f.loginErr
		}
		*out.(*models.AuthResponse) = f.loginResp
		return nil
	case "/users/register":
		if f.regErr != nil {
			return f.regErr
		}
		*out.(*models.AuthResponse) = f.regResp
		return nil
	case "/users/logout":
		return f.logoutErr
	case "/users/refresh-token":
		if f.refreshErr != nil {
			return f.refreshErr
		}
		*out.(*models.AuthResponse) = f.refreshResp
		return nil
	default:
		if out != nil {
			*out.(*statusResponse) = statusResponse{Success: true}
		}
		return nil
	}
}

func (f *fakeBackend) Get(_ context.Context, path string, out any) error {
	f.calls = append(f.calls, "GET "+path)
	if path == "/users/profile" {
		if f.profileErr != nil {
			return f.profileErr
		}
		*out.(*models.ProfileResponse) = f.profileResp
		return nil
	}
	return dErrors.New(dErrors.CodeNotFound, "unexpected path "+path)
}

func (f *fakeBackend) called(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

type AuthServiceSuite struct {
	suite.Suite
	backend *fakeBackend
	creds   *store.MemoryRepository
	svc     *Service
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.backend = &fakeBackend{}
	s.creds = store.NewMemory()
	s.svc = NewService(s.backend, s.creds)
}

func (s *AuthServiceSuite) modernUser() *models.User {
	return &models.User{
		UserID:    "usr_7",
		Email:     "pat@example.com",
		FirstName: "Pat",
		LastName:  "Doe",
	}
}

func (s *AuthServiceSuite) loginModern() {
	s.backend.loginResp = models.AuthResponse{Success: true, Token: "tok_live", User: s.modernUser()}
	_, err := s.svc.Login(context.Background(), models.LoginRequest{Email: "pat@example.com", Password: "pw-anything"})
	s.Require().NoError(err)
}
