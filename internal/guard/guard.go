// Package guard implements the view-level session gate for protected routes.
// The guard is a pure decision function: it never navigates or renders, it
// only reports whether the caller should. The view layer acts on the result.
package guard

import (
	"context"

	"intake/internal/auth/models"
)

// State is the tri-state outcome of a guard check.
type State int

const (
	// Checking is the initial state; render a neutral placeholder and do not
	// navigate.
	Checking State = iota
	// Granted means the wrapped content renders, with the resolved user.
	Granted
	// Denied means the caller should redirect to the login view.
	Denied
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Result carries the terminal state of a check plus the resolved user when
// access was granted.
type Result struct {
	State State
	User  *models.User
}

// Authenticator is the slice of the auth service the guard consumes.
type Authenticator interface {
	IsAuthenticated() bool
	CurrentSession() models.Session
	VerifyToken(ctx context.Context) bool
}

// Guard gates protected content on session validity. Each Check performs at
// most one verification attempt; re-entering a protected route runs a fresh
// check.
type Guard struct {
	auth         Authenticator
	remoteVerify bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithRemoteVerify enables the authoritative whoami check for modern-scheme
// sessions. Without it the guard trusts the local credential check alone.
func WithRemoteVerify() Option {
	return func(g *Guard) { g.remoteVerify = true }
}

// New constructs a session guard.
func New(auth Authenticator, opts ...Option) *Guard {
	g := &Guard{auth: auth}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check resolves the gate for one mount of a protected view. The local check
// runs first and fails fast; remote verification, when enabled, only runs for
// modern-scheme sessions since legacy sessions are locally authoritative.
func (g *Guard) Check(ctx context.Context) Result {
	if !g.auth.IsAuthenticated() {
		return Result{State: Denied}
	}

	sess := g.auth.CurrentSession()
	if g.remoteVerify && sess.Scheme == models.SchemeModern {
		if !g.auth.VerifyToken(ctx) {
			return Result{State: Denied}
		}
		// Re-read: verification may have refreshed the cached snapshot.
		sess = g.auth.CurrentSession()
	}
	return Result{State: Granted, User: sess.User}
}
