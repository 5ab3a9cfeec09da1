// Package routes declares the application's route table and resolves a path
// plus a guard result into a render decision. Navigation itself belongs to
// the view layer; this package only decides.
package routes

import (
	"strings"

	"intake/internal/guard"
)

// Access classifies who may see a route.
type Access int

const (
	// Public routes render for everyone.
	Public Access = iota
	// Protected routes render only behind a granted session guard.
	Protected
)

// Route is one entry of the table.
type Route struct {
	Pattern  string
	Access   Access
	Name     string
	Redirect string // non-empty for pure redirect entries
}

// LoginPath is where denied protected routes send the visitor.
const LoginPath = "/login"

// Table returns the route table. Patterns use a single {userID}-style
// placeholder segment; everything else matches literally.
func Table() []Route {
	return []Route{
		{Pattern: "/", Access: Public, Name: "landing"},
		{Pattern: "/login", Access: Public, Name: "login"},
		{Pattern: "/signup", Access: Public, Name: "signup"},
		{Pattern: "/form/{userID}", Access: Public, Name: "application-form"},
		{Pattern: "/application", Access: Public, Name: "application-form-legacy"},
		{Pattern: "/dashboard", Access: Protected, Name: "dashboard"},
		{Pattern: "/form-builder", Access: Protected, Name: "form-builder"},
		{Pattern: "/dashboard/applications", Access: Protected, Name: "applications"},
		{Pattern: "/applications", Access: Protected, Name: "applications-legacy"},
		{Pattern: "/emails", Access: Protected, Name: "email-templates"},
		{Pattern: "/analytics", Access: Protected, Name: "analytics"},
		{Pattern: "/admin", Redirect: "/dashboard", Name: "admin-redirect"},
	}
}

// DecisionKind says what the caller should do with a resolved path.
type DecisionKind int

const (
	// Render the named view.
	Render DecisionKind = iota
	// RedirectTo the Target path.
	RedirectTo
	// Pending means the guard has not finished; show the placeholder.
	Pending
)

// Decision is the outcome of resolving a path against the table.
type Decision struct {
	Kind   DecisionKind
	Route  string
	Target string
	Params map[string]string
}

// Resolve maps a request path and the current guard result onto a decision.
// Unknown paths fall through to the landing page, matching the catch-all
// route of the original application.
func Resolve(path string, res guard.Result) Decision {
	route, params, ok := match(path)
	if !ok {
		return Decision{Kind: RedirectTo, Target: "/"}
	}
	if route.Redirect != "" {
		return Decision{Kind: RedirectTo, Target: route.Redirect, Route: route.Name}
	}
	if route.Access == Public {
		return Decision{Kind: Render, Route: route.Name, Params: params}
	}

	switch res.State {
	case guard.Checking:
		return Decision{Kind: Pending, Route: route.Name}
	case guard.Granted:
		return Decision{Kind: Render, Route: route.Name, Params: params}
	default:
		return Decision{Kind: RedirectTo, Target: LoginPath, Route: route.Name}
	}
}

func match(path string) (Route, map[string]string, bool) {
	path = normalize(path)
	segs := split(path)
	for _, route := range Table() {
		if params, ok := matchPattern(split(route.Pattern), segs); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

func matchPattern(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[strings.Trim(p, "{}")] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func split(path string) []string {
	if path == "/" {
		return []string{""}
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
