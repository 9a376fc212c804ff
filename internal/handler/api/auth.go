// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/entrehub/entrehub-go/internal/auth"
	"github.com/entrehub/entrehub-go/internal/middleware"
	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
	"github.com/entrehub/entrehub-go/internal/util"
)

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login. The token is also set as
// an HttpOnly cookie for the admin UI.
type LoginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required", nil)
		return
	}

	if locked, remaining := h.loginProt.IsAccountLocked(email); locked {
		slog.Warn("login attempt on locked account", "email", email, "remaining", remaining)
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			"Account temporarily locked. Try again later.", nil)
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			WriteInternalError(w, "Failed to look up account")
			return
		}
		// Unknown account: burn a failed attempt and answer the same as a
		// wrong password so emails cannot be probed.
		h.loginProt.RecordFailedAttempt(email)
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		if locked, duration := h.loginProt.RecordFailedAttempt(email); locked {
			slog.Warn("account locked after failed logins", "email", email, "duration", duration)
		}
		WriteUnauthorized(w, "Invalid email or password")
		return
	}

	h.loginProt.RecordSuccessfulLogin(email)

	token, err := h.tokens.Issue(&user)
	if err != nil {
		slog.Error("issuing token", "error", err, "user_id", user.ID)
		WriteInternalError(w, "Failed to issue token")
		return
	}

	middleware.SetAuthCookie(w, token, h.tokenTTL, h.secure)
	slog.Info("user signed in", "user_id", user.ID, "email", user.Email)

	WriteSuccess(w, LoginResponse{Token: token, User: user.Public()}, nil)
}

// VerifyResponse is returned by GET /api/auth/verify.
type VerifyResponse struct {
	User model.PublicUser `json:"user"`
}

// Verify handles GET /api/auth/verify. It runs behind the auth gate, so
// reaching it means the token checked out.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Unauthorized")
		return
	}
	WriteSuccess(w, VerifyResponse{User: user.Public()}, nil)
}

// RegisterRequest is the request body for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register handles POST /api/auth/register. Only SUPER_ADMIN accounts can
// create users; the route is guarded accordingly.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	email := util.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	role := req.Role
	if role == "" {
		role = model.RoleEditor
	}

	validationErrors := make(map[string]string)
	if email == "" || !util.IsValidEmail(email) {
		validationErrors["email"] = "A valid email is required"
	}
	if name == "" {
		validationErrors["name"] = "Name is required"
	}
	if !model.IsValidRole(role) {
		validationErrors["role"] = "Role must be EDITOR or SUPER_ADMIN"
	}
	if ok, problems := auth.ValidatePasswordStrength(req.Password); !ok {
		validationErrors["password"] = strings.Join(problems, "; ")
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	exists, err := h.queries.UserEmailExists(r.Context(), email)
	if err != nil {
		WriteInternalError(w, "Failed to check email")
		return
	}
	if exists != 0 {
		WriteConflict(w, "An account with this email already exists")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		WriteInternalError(w, "Failed to create account")
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create account")
		return
	}

	creator := middleware.GetUser(r)
	slog.Info("user account created",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role,
		"created_by", creator.ID,
	)

	WriteCreated(w, user.Public())
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logout
// just clears the cookie; an extracted token stays valid until expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookie(w)
	if user := middleware.GetUser(r); user != nil {
		slog.Info("user signed out", "user_id", user.ID)
	}
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}
