// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/entrehub/entrehub-go/internal/model"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestServiceLifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	resp := ts.request(t, http.MethodPost, "/api/services", admin, ServiceRequest{
		Title:       strPtr("Brand Strategy"),
		Description: strPtr("Positioning and identity."),
		Included:    &[]string{"Workshops", "Brand book"},
		Position:    i64Ptr(2),
	})
	wantStatus(t, resp, http.StatusCreated)
	var second model.Service
	decodeData(t, resp, &second)
	if len(second.Included) != 2 {
		t.Errorf("included = %+v, want 2 items", second.Included)
	}

	resp = ts.request(t, http.MethodPost, "/api/services", admin, ServiceRequest{
		Title:    strPtr("SEO"),
		Position: i64Ptr(1),
	})
	wantStatus(t, resp, http.StatusCreated)
	var first model.Service
	decodeData(t, resp, &first)
	if first.Included == nil || len(first.Included) != 0 {
		t.Errorf("included = %#v, want empty non-nil list", first.Included)
	}

	// Public listing, ordered by position.
	var listed []model.Service
	resp = ts.request(t, http.MethodGet, "/api/services", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &listed)
	if len(listed) != 2 || listed[0].Title != "SEO" || listed[1].Title != "Brand Strategy" {
		t.Fatalf("listed = %+v, want [SEO, Brand Strategy]", listed)
	}

	// Partial update leaves other fields alone.
	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/services/%d", second.ID), admin, ServiceRequest{
		Description: strPtr("Positioning, identity and voice."),
	})
	wantStatus(t, resp, http.StatusOK)
	var updated model.Service
	decodeData(t, resp, &updated)
	if updated.Title != "Brand Strategy" || len(updated.Included) != 2 {
		t.Errorf("after update: %+v", updated)
	}

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/services/%d", first.ID), admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Mutations require auth.
	resp = ts.request(t, http.MethodPost, "/api/services", "", ServiceRequest{Title: strPtr("Nope")})
	wantStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestPortfolioAndTeamOrdering(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	for i, title := range []string{"Acme Rebrand", "Globex Launch"} {
		resp := ts.request(t, http.MethodPost, "/api/portfolio", admin, PortfolioProjectRequest{
			Title:       strPtr(title),
			Category:    strPtr("Branding"),
			Metric:      strPtr("+120%"),
			MetricLabel: strPtr("organic traffic"),
			Position:    i64Ptr(int64(2 - i)),
		})
		wantStatus(t, resp, http.StatusCreated)
		resp.Body.Close()
	}

	var projects []model.PortfolioProject
	resp := ts.request(t, http.MethodGet, "/api/portfolio", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &projects)
	if len(projects) != 2 || projects[0].Title != "Globex Launch" {
		t.Fatalf("projects = %+v, want Globex Launch first", projects)
	}

	for i, name := range []string{"Dana", "Chris"} {
		resp := ts.request(t, http.MethodPost, "/api/team", admin, TeamMemberRequest{
			Name:     strPtr(name),
			Role:     strPtr("Designer"),
			Position: i64Ptr(int64(2 - i)),
		})
		wantStatus(t, resp, http.StatusCreated)
		resp.Body.Close()
	}

	var members []model.TeamMember
	resp = ts.request(t, http.MethodGet, "/api/team", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &members)
	if len(members) != 2 || members[0].Name != "Chris" {
		t.Fatalf("members = %+v, want Chris first", members)
	}
}

func TestAboutSectionUpsert(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	// Seeded defaults are present and public.
	var sections []model.AboutSection
	resp := ts.request(t, http.MethodGet, "/api/about", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &sections)
	if len(sections) != 3 {
		t.Fatalf("seeded sections = %d, want 3", len(sections))
	}

	resp = ts.request(t, http.MethodPut, "/api/about/mission", admin, AboutSectionRequest{
		Title:   "Our Mission",
		Content: "Make small brands loud.",
	})
	wantStatus(t, resp, http.StatusOK)
	var mission model.AboutSection
	decodeData(t, resp, &mission)
	if mission.Content != "Make small brands loud." {
		t.Errorf("mission = %+v", mission)
	}

	// Writing again replaces the same row, keyed by type.
	resp = ts.request(t, http.MethodPut, "/api/about/mission", admin, AboutSectionRequest{
		Title:   "Our Mission",
		Content: "Make small brands unmissable.",
	})
	wantStatus(t, resp, http.StatusOK)
	var again model.AboutSection
	decodeData(t, resp, &again)
	if again.ID != mission.ID {
		t.Errorf("upsert created a new row: %d -> %d", mission.ID, again.ID)
	}

	// A new type creates a section.
	resp = ts.request(t, http.MethodPatch, "/api/about/values", admin, AboutSectionRequest{
		Title: "Values", Content: "Candor, craft.",
	})
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	sections = nil
	resp = ts.request(t, http.MethodGet, "/api/about", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &sections)
	if len(sections) != 4 {
		t.Errorf("sections = %d, want 4", len(sections))
	}

	resp = ts.request(t, http.MethodPut, "/api/about/empty", admin, AboutSectionRequest{Content: "no title"})
	wantStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodGet, "/health", "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = ts.request(t, http.MethodGet, "/api", "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}
