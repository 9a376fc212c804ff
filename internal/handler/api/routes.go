// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/entrehub/entrehub-go/internal/middleware"
	"github.com/entrehub/entrehub-go/internal/model"
)

// Version is the API version reported at the API root.
const Version = "1.0.0"

// access is the minimum privilege a route requires. Routes declare their
// access level in the route table below instead of checking roles inside
// handlers.
type access int

const (
	// accessPublic routes never consult the token.
	accessPublic access = iota
	// accessOptional routes resolve the token when present but allow
	// anonymous requests.
	accessOptional
	// accessEditor routes require a valid token for any role.
	accessEditor
	// accessSuperAdmin routes require the SUPER_ADMIN role.
	accessSuperAdmin
)

type route struct {
	method  string
	pattern string
	access  access
	handler http.HandlerFunc
}

// routeTable is the single place routes and their minimum privilege are
// declared.
func (h *Handler) routeTable() []route {
	return []route{
		{http.MethodGet, "/api", accessPublic, h.Root},

		// Auth. Login registers separately so the login protection
		// middleware wraps it; register is the only SUPER_ADMIN route.
		{http.MethodGet, "/api/auth/verify", accessEditor, h.Verify},
		{http.MethodPost, "/api/auth/logout", accessOptional, h.Logout},
		{http.MethodPost, "/api/auth/register", accessSuperAdmin, h.Register},

		// Event log, super admin only.
		{http.MethodGet, "/api/events", accessSuperAdmin, h.ListEvents},
		{http.MethodDelete, "/api/events", accessSuperAdmin, h.PruneEvents},

		// Blog. Reads resolve the token optionally so admins see drafts.
		{http.MethodGet, "/api/blog", accessOptional, h.ListPosts},
		{http.MethodGet, "/api/blog/{slug}", accessOptional, h.GetPost},
		{http.MethodPost, "/api/blog", accessEditor, h.CreatePost},
		{http.MethodPut, "/api/blog/{slug}", accessEditor, h.UpdatePost},
		{http.MethodDelete, "/api/blog/{slug}", accessEditor, h.DeletePost},

		// Taxonomy.
		{http.MethodGet, "/api/blog/categories", accessPublic, h.ListCategories},
		{http.MethodPost, "/api/blog/categories", accessEditor, h.CreateCategory},
		{http.MethodPut, "/api/blog/categories/{id}", accessEditor, h.UpdateCategory},
		{http.MethodDelete, "/api/blog/categories/{id}", accessEditor, h.DeleteCategory},
		{http.MethodGet, "/api/blog/tags", accessPublic, h.ListTags},
		{http.MethodPost, "/api/blog/tags", accessEditor, h.CreateTag},
		{http.MethodPut, "/api/blog/tags/{id}", accessEditor, h.UpdateTag},
		{http.MethodDelete, "/api/blog/tags/{id}", accessEditor, h.DeleteTag},
		{http.MethodGet, "/api/blog/authors", accessPublic, h.ListAuthors},
		{http.MethodPost, "/api/blog/authors", accessEditor, h.CreateAuthor},
		{http.MethodPut, "/api/blog/authors/{id}", accessEditor, h.UpdateAuthor},
		{http.MethodDelete, "/api/blog/authors/{id}", accessEditor, h.DeleteAuthor},

		// Contact messages. Submission is public, triage is not.
		{http.MethodPost, "/api/contact", accessPublic, h.CreateMessage},
		{http.MethodGet, "/api/contact", accessEditor, h.ListMessages},
		{http.MethodGet, "/api/contact/{id}", accessEditor, h.GetMessage},
		{http.MethodPut, "/api/contact/{id}", accessEditor, h.UpdateMessage},
		{http.MethodDelete, "/api/contact/{id}", accessEditor, h.DeleteMessage},

		// Marketing sections.
		{http.MethodGet, "/api/services", accessPublic, h.ListServices},
		{http.MethodPost, "/api/services", accessEditor, h.CreateService},
		{http.MethodPut, "/api/services/{id}", accessEditor, h.UpdateService},
		{http.MethodDelete, "/api/services/{id}", accessEditor, h.DeleteService},
		{http.MethodGet, "/api/portfolio", accessPublic, h.ListPortfolioProjects},
		{http.MethodPost, "/api/portfolio", accessEditor, h.CreatePortfolioProject},
		{http.MethodPut, "/api/portfolio/{id}", accessEditor, h.UpdatePortfolioProject},
		{http.MethodDelete, "/api/portfolio/{id}", accessEditor, h.DeletePortfolioProject},
		{http.MethodGet, "/api/team", accessPublic, h.ListTeamMembers},
		{http.MethodPost, "/api/team", accessEditor, h.CreateTeamMember},
		{http.MethodPut, "/api/team/{id}", accessEditor, h.UpdateTeamMember},
		{http.MethodDelete, "/api/team/{id}", accessEditor, h.DeleteTeamMember},
		{http.MethodGet, "/api/about", accessPublic, h.ListAboutSections},
		{http.MethodPut, "/api/about/{type}", accessEditor, h.UpsertAboutSection},
		{http.MethodPatch, "/api/about/{type}", accessEditor, h.UpsertAboutSection},
	}
}

// Routes builds the API router. Every route registers through the policy
// table; the gate middleware is picked from the declared access level.
func (h *Handler) Routes(gate *middleware.Gate) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	// Login carries its own protection: per-IP rate limit plus account
	// lockout, applied before the credential check runs.
	r.With(h.loginProt.Middleware()).Post("/api/auth/login", h.Login)

	for _, rt := range h.routeTable() {
		switch rt.access {
		case accessPublic:
			r.Method(rt.method, rt.pattern, rt.handler)
		case accessOptional:
			r.With(gate.Optional).Method(rt.method, rt.pattern, rt.handler)
		case accessEditor:
			r.With(gate.Authenticate).Method(rt.method, rt.pattern, rt.handler)
		case accessSuperAdmin:
			r.With(gate.Authenticate, middleware.RequireRole(model.RoleSuperAdmin)).
				Method(rt.method, rt.pattern, rt.handler)
		}
	}

	return r
}

// RootResponse is the body of GET /api.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Root handles GET /api.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, RootResponse{
		Name:    "entrehub",
		Version: Version,
		Status:  "ok",
	})
}
