// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrehub/entrehub-go/internal/auth"
	"github.com/entrehub/entrehub-go/internal/middleware"
	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin123"
	testSecret        = "0123456789abcdef0123456789abcdef"
)

// testServer bundles the router with the pieces tests need to mint tokens
// and seed data directly.
type testServer struct {
	srv     *httptest.Server
	db      *sql.DB
	queries *store.Queries
	tokens  *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	if err := store.Seed(context.Background(), db, store.SeedParams{
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
		AdminName:     "Admin",
	}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	tokens := auth.NewTokenService(testSecret, time.Hour)
	loginProt := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	h := NewHandler(db, tokens, loginProt, Config{TokenTTL: time.Hour})
	gate := middleware.NewGate(tokens, db)

	srv := httptest.NewServer(h.Routes(gate))
	t.Cleanup(srv.Close)

	return &testServer{
		srv:     srv,
		db:      db,
		queries: store.New(db),
		tokens:  tokens,
	}
}

// adminToken returns a signed token for the seeded super admin.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	user, err := ts.queries.GetUserByEmail(context.Background(), testAdminEmail)
	if err != nil {
		t.Fatalf("looking up admin: %v", err)
	}
	token, err := ts.tokens.Issue(&user)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return token
}

// editorToken creates an EDITOR user and returns a signed token for it.
func (ts *testServer) editorToken(t *testing.T, email string) string {
	t.Helper()
	hash, err := auth.HashPassword("editorpass1")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := ts.queries.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         "Editor",
		PasswordHash: hash,
		Role:         model.RoleEditor,
	})
	if err != nil {
		t.Fatalf("creating editor: %v", err)
	}
	token, err := ts.tokens.Issue(&user)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return token
}

// request sends a JSON request to the test server. A non-empty token is
// sent as a Bearer header. The caller owns closing the response body.
func (ts *testServer) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeData decodes the "data" field of a response envelope into dst.
func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			t.Fatalf("decoding response data: %v", err)
		}
	}
}

// decodeMeta decodes the full envelope and returns pagination metadata.
func decodeMeta(t *testing.T, resp *http.Response, dst any) *Meta {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			t.Fatalf("decoding response data: %v", err)
		}
	}
	return envelope.Meta
}

// wantStatus fails the test when the response status differs, draining the
// body into the failure message for context.
func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, buf.String())
	}
}
