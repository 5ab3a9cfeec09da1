package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"intake/internal/auth/models"
)

type fakeAuth struct {
	session     models.Session
	verifyOK    bool
	verifyCalls int
}

func (f *fakeAuth) IsAuthenticated() bool          { return f.session.Valid() }
func (f *fakeAuth) CurrentSession() models.Session { return f.session }

func (f *fakeAuth) VerifyToken(context.Context) bool {
	f.verifyCalls++
	if !f.verifyOK {
		f.session = models.Session{}
	}
	return f.verifyOK
}

type GuardSuite struct {
	suite.Suite
	auth *fakeAuth
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) SetupTest() {
	s.auth = &fakeAuth{}
}

func (s *GuardSuite) modernSession() models.Session {
	return models.Session{
		Token:  "tok_1",
		Scheme: models.SchemeModern,
		User:   &models.User{UserID: "usr_1", FirstName: "Pat"},
	}
}

func (s *GuardSuite) TestDeniedWhenLoggedOut() {
	g := New(s.auth)
	res := g.Check(context.Background())
	s.Equal(Denied, res.State)
	s.Nil(res.User)
	s.Zero(s.auth.verifyCalls)
}

func (s *GuardSuite) TestGrantedLocalOnly() {
	s.auth.session = s.modernSession()

	g := New(s.auth)
	res := g.Check(context.Background())
	s.Equal(Granted, res.State)
	s.Equal("usr_1", res.User.UserID)
	s.Zero(s.auth.verifyCalls, "local-only guard must not verify remotely")
}

func (s *GuardSuite) TestGrantedWithRemoteVerify() {
	s.auth.session = s.modernSession()
	s.auth.verifyOK = true

	g := New(s.auth, WithRemoteVerify())
	res := g.Check(context.Background())
	s.Equal(Granted, res.State)
	s.Equal(1, s.auth.verifyCalls, "exactly one verification attempt per check")
}

func (s *GuardSuite) TestDeniedWhenVerificationRejects() {
	s.auth.session = s.modernSession()
	s.auth.verifyOK = false

	g := New(s.auth, WithRemoteVerify())
	res := g.Check(context.Background())
	s.Equal(Denied, res.State)
	s.Equal(1, s.auth.verifyCalls)
}

func (s *GuardSuite) TestLegacySessionSkipsRemoteVerify() {
	s.auth.session = models.Session{
		Token:  models.LegacyToken,
		Scheme: models.SchemeLegacy,
		User:   models.LegacyAdminUser(),
	}
	s.auth.verifyOK = false // would deny if consulted

	g := New(s.auth, WithRemoteVerify())
	res := g.Check(context.Background())
	s.Equal(Granted, res.State)
	s.True(res.User.IsLegacy)
	s.Zero(s.auth.verifyCalls)
}

func (s *GuardSuite) TestEachCheckRunsFresh() {
	s.auth.session = s.modernSession()
	s.auth.verifyOK = true

	g := New(s.auth, WithRemoteVerify())
	s.Equal(Granted, g.Check(context.Background()).State)
	s.Equal(Granted, g.Check(context.Background()).State)
	s.Equal(2, s.auth.verifyCalls)
}

func (s *GuardSuite) TestStateString() {
	s.Equal("checking", Checking.String())
	s.Equal("granted", Granted.String())
	s.Equal("denied", Denied.String())
}
