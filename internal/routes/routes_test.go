package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"intake/internal/auth/models"
	"intake/internal/guard"
)

func granted() guard.Result {
	return guard.Result{State: guard.Granted, User: &models.User{UserID: "usr_1"}}
}

func denied() guard.Result {
	return guard.Result{State: guard.Denied}
}

func TestPublicRoutesRenderRegardlessOfSession(t *testing.T) {
	for _, path := range []string{"/", "/login", "/signup", "/application"} {
		dec := Resolve(path, denied())
		assert.Equal(t, Render, dec.Kind, "path %s", path)
	}
}

func TestDynamicFormRouteExtractsUserID(t *testing.T) {
	dec := Resolve("/form/usr_99", denied())
	assert.Equal(t, Render, dec.Kind)
	assert.Equal(t, "application-form", dec.Route)
	assert.Equal(t, "usr_99", dec.Params["userID"])
}

func TestProtectedRouteDeniedRedirectsToLogin(t *testing.T) {
	for _, path := range []string{"/dashboard", "/form-builder", "/dashboard/applications", "/emails", "/analytics"} {
		dec := Resolve(path, denied())
		assert.Equal(t, RedirectTo, dec.Kind, "path %s", path)
		assert.Equal(t, LoginPath, dec.Target, "path %s", path)
	}
}

func TestProtectedRouteGrantedRenders(t *testing.T) {
	dec := Resolve("/dashboard", granted())
	assert.Equal(t, Render, dec.Kind)
	assert.Equal(t, "dashboard", dec.Route)
}

func TestProtectedRoutePendingShowsPlaceholder(t *testing.T) {
	dec := Resolve("/dashboard", guard.Result{State: guard.Checking})
	assert.Equal(t, Pending, dec.Kind)
}

func TestAdminRedirectsToDashboard(t *testing.T) {
	dec := Resolve("/admin", granted())
	assert.Equal(t, RedirectTo, dec.Kind)
	assert.Equal(t, "/dashboard", dec.Target)
}

func TestUnknownPathFallsThroughToLanding(t *testing.T) {
	dec := Resolve("/no/such/page", granted())
	assert.Equal(t, RedirectTo, dec.Kind)
	assert.Equal(t, "/", dec.Target)
}

func TestTrailingSlashNormalized(t *testing.T) {
	dec := Resolve("/dashboard/", granted())
	assert.Equal(t, Render, dec.Kind)
	assert.Equal(t, "dashboard", dec.Route)
}

func TestEmptyFormUserIDDoesNotMatch(t *testing.T) {
	// "/form/" normalizes to "/form", which no pattern matches.
	dec := Resolve("/form/", granted())
	assert.Equal(t, RedirectTo, dec.Kind)
	assert.Equal(t, "/", dec.Target)
}
