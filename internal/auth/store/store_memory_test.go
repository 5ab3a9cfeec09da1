package store

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"intake/internal/auth/models"
)

type MemoryRepositorySuite struct {
	suite.Suite
	repo *MemoryRepository
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositorySuite))
}

func (s *MemoryRepositorySuite) SetupTest() {
	s.repo = NewMemory()
}

func (s *MemoryRepositorySuite) user() *models.User {
	return &models.User{
		UserID:       "usr_42",
		Email:        "reviewer@example.com",
		FirstName:    "Rey",
		LastName:     "Viewer",
		Organization: "Acme Recruiting",
	}
}

func (s *MemoryRepositorySuite) TestSaveThenLoadRoundTrips() {
	user := s.user()
	s.Require().NoError(s.repo.Save("tok_abc", user))

	loaded := s.repo.Load()
	s.True(loaded.Valid())
	s.Equal(models.SchemeModern, loaded.Scheme)
	s.Equal("tok_abc", loaded.Token)
	s.Equal(user, loaded.User)
}

func (s *MemoryRepositorySuite) TestSaveEvictsLegacySlots() {
	s.Require().NoError(s.repo.SaveLegacy(models.LegacyAdminUser()))
	s.Require().NoError(s.repo.Save("tok_new", s.user()))

	loaded := s.repo.Load()
	s.Equal(models.SchemeModern, loaded.Scheme)
	s.False(loaded.User.IsLegacy)
}

func (s *MemoryRepositorySuite) TestSaveLegacyEvictsModernSlots() {
	s.Require().NoError(s.repo.Save("tok_old", s.user()))
	s.Require().NoError(s.repo.SaveLegacy(models.LegacyAdminUser()))

	loaded := s.repo.Load()
	s.Equal(models.SchemeLegacy, loaded.Scheme)
	s.Equal(models.LegacyToken, loaded.Token)
	s.True(loaded.User.IsLegacy)
}

func (s *MemoryRepositorySuite) TestClearIsIdempotent() {
	s.Require().NoError(s.repo.Save("tok_abc", s.user()))

	s.Require().NoError(s.repo.Clear())
	s.Require().NoError(s.repo.Clear())

	s.False(s.repo.Load().Valid())
}

func (s *MemoryRepositorySuite) TestLoadFailsClosedOnCorruptUser() {
	s.repo.Corrupt()
	s.False(s.repo.Load().Valid())
}

func (s *MemoryRepositorySuite) TestLoadEmptyRepository() {
	loaded := s.repo.Load()
	s.False(loaded.Valid())
	s.Equal(models.SchemeNone, loaded.Scheme)
	s.Nil(loaded.User)
}
