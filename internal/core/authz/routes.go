package authz

import (
	"net/http"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

var (
	attorneyOnly    = Allow(domain.RoleAttorney)
	adminOnly       = Allow(domain.RoleAdmin)
	attorneyOrAdmin = Allow(domain.RoleAttorney, domain.RoleAdmin)
	anyRole         = Allow(domain.RoleAttorney, domain.RoleSheriff, domain.RoleAdmin)
	fieldWorkers    = Allow(domain.RoleAttorney, domain.RoleSheriff)
)

// Route is one row of the API access table.
type Route struct {
	Method string
	Path   string
	// Public routes skip token verification and the role gate.
	Public bool
	Allow  AllowList
}

// Key identifies the route for handler lookup.
func (r Route) Key() string { return r.Method + " " + r.Path }

// Routes is the authoritative access table. The router registers exactly
// these routes, each behind token verification and its allow-list.
var Routes = []Route{
	{Method: http.MethodPost, Path: "/auth/register", Public: true},
	{Method: http.MethodPost, Path: "/auth/login", Public: true},

	{Method: http.MethodGet, Path: "/documents", Allow: attorneyOrAdmin},
	{Method: http.MethodPost, Path: "/documents", Allow: attorneyOnly},
	{Method: http.MethodGet, Path: "/documents/:id", Allow: attorneyOrAdmin},
	{Method: http.MethodPut, Path: "/documents/:id", Allow: attorneyOnly},
	{Method: http.MethodDelete, Path: "/documents/:id", Allow: attorneyOnly},
	{Method: http.MethodPost, Path: "/documents/:id/attempts", Allow: attorneyOnly},
	{Method: http.MethodPost, Path: "/documents/:id/attachments", Allow: attorneyOnly},
	{Method: http.MethodGet, Path: "/documents/:id/attachments/*", Allow: attorneyOrAdmin},

	{Method: http.MethodGet, Path: "/instructions", Allow: anyRole},
	{Method: http.MethodGet, Path: "/instructions/:id", Allow: anyRole},
	{Method: http.MethodPost, Path: "/instructions", Allow: attorneyOnly},
	{Method: http.MethodPut, Path: "/instructions/:id", Allow: fieldWorkers},
	{Method: http.MethodDelete, Path: "/instructions/:id", Allow: attorneyOnly},

	{Method: http.MethodGet, Path: "/users/profile/:role/:id", Allow: anyRole},
	{Method: http.MethodPut, Path: "/users/:id", Allow: anyRole},
	{Method: http.MethodGet, Path: "/users", Allow: adminOnly},
	{Method: http.MethodPost, Path: "/users", Allow: adminOnly},
	{Method: http.MethodDelete, Path: "/users/:id", Allow: adminOnly},

	{Method: http.MethodGet, Path: "/clients", Allow: attorneyOrAdmin},
	{Method: http.MethodPost, Path: "/clients", Allow: attorneyOrAdmin},
	{Method: http.MethodGet, Path: "/clients/:id", Allow: attorneyOrAdmin},

	{Method: http.MethodGet, Path: "/deputies", Allow: attorneyOrAdmin},
	{Method: http.MethodPost, Path: "/deputies", Allow: attorneyOrAdmin},
	{Method: http.MethodGet, Path: "/deputies/:id", Allow: attorneyOrAdmin},
	{Method: http.MethodPost, Path: "/deputies/:id/reindex", Allow: adminOnly},
}

// Lookup returns the table row for method and path.
func Lookup(method, path string) (Route, bool) {
	for _, r := range Routes {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
