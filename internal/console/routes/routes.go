// Package routes declares the console's navigation surface and the gate
// evaluated before entering any protected view.
package routes

import (
	"net/url"

	"logdeck/internal/console/models"
)

// Well-known navigation targets.
const (
	// LoginPath is the unauthenticated entry point.
	LoginPath = "/login"
	// DefaultPath is the landing route for authenticated users, and where
	// an authenticated-but-unauthorized navigation is redirected.
	DefaultPath = "/dashboard"
)

// Route is static per-view metadata. An empty Roles set means "any
// authenticated user".
type Route struct {
	Name  string
	Path  string
	Roles []models.Role
}

// Table returns the console's route table. Upload is restricted to analysts
// and administrators; file management is administrator-only.
func Table() []Route {
	return []Route{
		{Name: "dashboard", Path: "/dashboard"},
		{Name: "search", Path: "/search"},
		{Name: "results", Path: "/results"},
		{Name: "upload", Path: "/upload", Roles: []models.Role{models.RoleAnalyst, models.RoleAdmin}},
		{Name: "files", Path: "/files", Roles: []models.Role{models.RoleAdmin}},
	}
}

// Find looks a route up by name or path.
func Find(nameOrPath string) (Route, bool) {
	for _, r := range Table() {
		if r.Name == nameOrPath || r.Path == nameOrPath {
			return r, true
		}
	}
	return Route{}, false
}

// LoginRedirectURL composes the login entry point with the returnUrl
// convention so navigation can resume after a successful login.
func LoginRedirectURL(returnURL string) string {
	if returnURL == "" {
		return LoginPath
	}
	return LoginPath + "?returnUrl=" + url.QueryEscape(returnURL)
}
