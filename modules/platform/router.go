// Package platform exposes the directory and session services over HTTP.
// Handlers are thin JSON shims over the repositories; authentication is
// injected as a middleware around the protected routes, typically
// pkg/authn's Handler.
package platform

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/metriclab/platformkit/pkg/directory"
	"github.com/metriclab/platformkit/pkg/session"
)

// Deps carries the services the router is built on. All fields are
// required.
type Deps struct {
	Users    *directory.UserRepository
	Orgs     *directory.OrgRepository
	Teams    *directory.TeamRepository
	Sessions *session.Manager
}

// Router builds the platform HTTP surface. Signup and login stay outside
// the authenticate middleware because their callers have no credential
// yet; everything else runs behind it.
//
// Example:
//
//	mw := authn.New(sessions, users, routes)
//	r := chi.NewRouter()
//	r.Mount("/", platform.Router(deps, mw.Handler))
func Router(deps Deps, authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", handleSignup(deps.Users, deps.Sessions))
	r.Post("/login", handleLogin(deps.Users, deps.Sessions))

	r.Group(func(protected chi.Router) {
		if authenticate != nil {
			protected.Use(authenticate)
		}

		protected.Post("/logout", handleLogout(deps.Sessions))
		protected.Get("/profile", handleProfile())

		protected.Route("/orgs", func(orgs chi.Router) {
			orgs.Post("/", handleCreateOrg(deps.Orgs))
			orgs.Get("/{id}", handleGetOrg(deps.Orgs))
			orgs.Delete("/{id}", handleDeleteOrg(deps.Orgs))
		})

		protected.Route("/teams", func(teams chi.Router) {
			teams.Post("/", handleCreateTeam(deps.Teams))
			teams.Get("/{id}", handleGetTeam(deps.Teams))
			teams.Delete("/{id}", handleDeleteTeam(deps.Teams))
		})
	})

	return r
}
