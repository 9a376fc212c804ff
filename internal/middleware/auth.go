// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/entrehub/entrehub-go/internal/auth"
	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
)

// AuthCookieName is the cookie the admin UI stores its token in. API
// clients may send the same token as a Bearer header instead.
const AuthCookieName = "auth-token"

// LoginPath is where unauthenticated browser requests are redirected.
const LoginPath = "/admin/login"

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped auth data.
const (
	ContextKeyUser   ContextKey = "user"
	ContextKeyClaims ContextKey = "claims"
)

// Gate authenticates requests with a signed token from the auth cookie or
// an Authorization header, and loads the account behind it.
type Gate struct {
	tokens  *auth.TokenService
	queries *store.Queries
}

// NewGate creates an authentication gate backed by the given token service
// and database.
func NewGate(tokens *auth.TokenService, db *sql.DB) *Gate {
	return &Gate{
		tokens:  tokens,
		queries: store.New(db),
	}
}

// Authenticate requires a valid token. The account is loaded from the
// database so deleted users and role changes take effect on the next
// request, not at token expiry. Failures answer API clients with a JSON
// 401 and browsers with a redirect to the login page; an invalid cookie is
// cleared either way.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, claims, ok := g.resolve(r)
		if !ok {
			ClearAuthCookie(w)
			deny(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		ctx = context.WithValue(ctx, ContextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the account to the request context when a valid token
// is present and continues anonymously otherwise. Used on public routes
// that behave differently for signed-in staff.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, claims, ok := g.resolve(r); ok {
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyClaims, claims)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) resolve(r *http.Request) (model.User, *auth.Claims, bool) {
	token := TokenFromRequest(r)
	if token == "" {
		return model.User{}, nil, false
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		slog.Debug("token verification failed", "error", err)
		return model.User{}, nil, false
	}

	userID, err := claims.UserID()
	if err != nil {
		return model.User{}, nil, false
	}

	user, err := g.queries.GetUserByID(r.Context(), userID)
	if err != nil {
		return model.User{}, nil, false
	}
	return user, claims, true
}

// RequireRole allows only accounts with the given role. SUPER_ADMIN passes
// every role check. Must run after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				deny(w, r)
				return
			}
			if user.Role != role && !user.IsSuperAdmin() {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the authenticated account from the request context.
// Returns nil for anonymous requests.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetClaims retrieves the verified token claims from the request context.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(ContextKeyClaims).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// TokenFromRequest extracts the auth token from the cookie or, failing
// that, from a Bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AuthCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return auth.ExtractBearerToken(r.Header.Get("Authorization"))
}

// SetAuthCookie stores the token in an HttpOnly cookie scoped to the whole
// site.
func SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// deny answers an unauthenticated request: API clients get a JSON 401,
// browser navigations get a redirect to the login page.
func deny(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// isAPIRequest reports whether the request came from an API client rather
// than a browser navigation.
func isAPIRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
		return true
	}
	if r.Header.Get("Authorization") != "" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
