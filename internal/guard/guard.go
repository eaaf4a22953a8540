// Package guard decides, per request path and sign-in state, whether a request
// proceeds, is redirected or is refused. It has no I/O; the HTTP middleware applies the result.
package guard

import "strings"

// Category groups paths that share an access rule.
type Category int

const (
	// Protected is everything not named below.
	Protected Category = iota
	// PublicAuth is the landing page and the sign-in/sign-up pages.
	PublicAuth
	// Dashboard is the signed-in home page.
	Dashboard
	// PublicAPI is readable without a session.
	PublicAPI
	// ProtectedAPI is every other /api path. Callers are scripts, not browsers.
	ProtectedAPI
)

func (c Category) String() string {
	switch c {
	case PublicAuth:
		return "public_auth"
	case Dashboard:
		return "dashboard"
	case PublicAPI:
		return "public_api"
	case ProtectedAPI:
		return "protected_api"
	default:
		return "protected"
	}
}

// Outcome is what the middleware should do with the request.
type Outcome int

const (
	Allow Outcome = iota
	RedirectHome
	RedirectSignIn
	// Unauthorized answers 401 instead of redirecting.
	Unauthorized
)

// Redirect targets.
const (
	HomePath   = "/home"
	SignInPath = "/signin"
)

// Classify maps a request path to its category.
func Classify(path string) Category {
	path = normalize(path)
	switch {
	case path == "/":
		return PublicAuth
	case matchesPrefix(path, "/signin"), matchesPrefix(path, "/signup"):
		return PublicAuth
	case path == "/home":
		return Dashboard
	case path == "/api/videos":
		return PublicAPI
	case matchesPrefix(path, "/api"):
		return ProtectedAPI
	default:
		return Protected
	}
}

// Decide applies the access table.
func Decide(category Category, signedIn bool) Outcome {
	switch category {
	case PublicAuth:
		if signedIn {
			return RedirectHome
		}
		return Allow
	case PublicAPI:
		return Allow
	case ProtectedAPI:
		if signedIn {
			return Allow
		}
		return Unauthorized
	default:
		// Dashboard and Protected both need a session.
		if signedIn {
			return Allow
		}
		return RedirectSignIn
	}
}

// Bypass reports paths the guard never looks at: static assets and operational endpoints.
func Bypass(path string) bool {
	path = normalize(path)
	switch path {
	case "/ping", "/healthz", "/metrics", "/favicon.ico":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// Location returns the redirect target for an outcome, or "" when it is not a redirect.
func Location(o Outcome) string {
	switch o {
	case RedirectHome:
		return HomePath
	case RedirectSignIn:
		return SignInPath
	default:
		return ""
	}
}

// matchesPrefix matches p itself or anything below it.
func matchesPrefix(path, p string) bool {
	return path == p || strings.HasPrefix(path, p+"/")
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
