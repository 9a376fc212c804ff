// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/entrehub/entrehub-go/internal/model"
)

func TestContactSubmissionFlow(t *testing.T) {
	ts := newTestServer(t)

	// Anonymous visitors can submit.
	resp := ts.request(t, http.MethodPost, "/api/contact", "", ContactRequest{
		Name:    "Prospect",
		Email:   "prospect@example.com",
		Phone:   "+1 555 0100",
		Message: "We need a rebrand.",
	})
	wantStatus(t, resp, http.StatusCreated)
	var created model.Message
	decodeData(t, resp, &created)
	if created.Status != model.MessageStatusUnread {
		t.Errorf("new message status = %q, want UNREAD", created.Status)
	}

	// But cannot read the inbox.
	resp = ts.request(t, http.MethodGet, "/api/contact", "", nil)
	wantStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	admin := ts.adminToken(t)
	var inbox []model.Message
	resp = ts.request(t, http.MethodGet, "/api/contact", admin, nil)
	wantStatus(t, resp, http.StatusOK)
	meta := decodeMeta(t, resp, &inbox)
	if len(inbox) != 1 || inbox[0].Email != "prospect@example.com" {
		t.Fatalf("inbox = %+v, want the one submission", inbox)
	}
	if meta == nil || meta.Total != 1 {
		t.Errorf("meta = %+v, want total 1", meta)
	}

	// Triage: mark read with a note.
	notes := "Replied by phone."
	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/contact/%d", created.ID), admin, UpdateMessageRequest{
		Status: "read",
		Notes:  &notes,
	})
	wantStatus(t, resp, http.StatusOK)
	var updated model.Message
	decodeData(t, resp, &updated)
	if updated.Status != model.MessageStatusRead || updated.Notes != notes {
		t.Errorf("after triage: %+v", updated)
	}
	// The visitor's submission itself is untouched.
	if updated.Message != created.Message || updated.Email != created.Email {
		t.Errorf("submission mutated: %+v", updated)
	}

	// Status filter.
	inbox = nil
	resp = ts.request(t, http.MethodGet, "/api/contact?status=UNREAD", admin, nil)
	wantStatus(t, resp, http.StatusOK)
	decodeMeta(t, resp, &inbox)
	if len(inbox) != 0 {
		t.Errorf("UNREAD filter returned %d messages, want 0", len(inbox))
	}

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/contact/%d", created.ID), admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/contact/%d", created.ID), admin, nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestContactValidation(t *testing.T) {
	ts := newTestServer(t)

	for name, req := range map[string]ContactRequest{
		"missing name":  {Email: "a@example.com", Message: "hi"},
		"missing email": {Name: "A", Message: "hi"},
		"bad email":     {Name: "A", Email: "not-an-email", Message: "hi"},
		"empty message": {Name: "A", Email: "a@example.com", Message: "   "},
	} {
		resp := ts.request(t, http.MethodPost, "/api/contact", "", req)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", name, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestMessageStatusValidation(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	resp := ts.request(t, http.MethodPost, "/api/contact", "", ContactRequest{
		Name: "P", Email: "p@example.com", Message: "hello",
	})
	wantStatus(t, resp, http.StatusCreated)
	var created model.Message
	decodeData(t, resp, &created)

	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/contact/%d", created.ID), admin, UpdateMessageRequest{
		Status: "SNOOZED",
	})
	wantStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	resp = ts.request(t, http.MethodGet, "/api/contact?status=bogus", admin, nil)
	wantStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()
}
