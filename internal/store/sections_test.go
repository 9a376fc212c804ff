// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"reflect"
	"testing"
)

func TestServiceRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	created, err := q.CreateService(ctx, CreateServiceParams{
		Title:       "Paid Media",
		Description: "Full-funnel campaign management",
		Icon:        "megaphone",
		Included:    []string{"Strategy", "Creative", "Reporting"},
		Position:    2,
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if !reflect.DeepEqual(created.Included, []string{"Strategy", "Creative", "Reporting"}) {
		t.Errorf("Included = %v", created.Included)
	}

	updated, err := q.UpdateService(ctx, UpdateServiceParams{
		ID:          created.ID,
		Title:       "Paid Media",
		Description: created.Description,
		Icon:        created.Icon,
		Included:    []string{"Strategy"},
		Position:    1,
	})
	if err != nil {
		t.Fatalf("UpdateService: %v", err)
	}
	if len(updated.Included) != 1 || updated.Position != 1 {
		t.Errorf("updated = %+v", updated)
	}

	// Included survives a nil slice as an empty JSON array.
	empty, err := q.CreateService(ctx, CreateServiceParams{Title: "Bare"})
	if err != nil {
		t.Fatalf("CreateService bare: %v", err)
	}
	if empty.Included == nil || len(empty.Included) != 0 {
		t.Errorf("bare Included = %v, want []", empty.Included)
	}
}

func TestListServicesOrdering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	for i, title := range []string{"Third", "First", "Second"} {
		positions := []int64{3, 1, 2}
		if _, err := q.CreateService(ctx, CreateServiceParams{
			Title: title, Position: positions[i],
		}); err != nil {
			t.Fatalf("CreateService: %v", err)
		}
	}

	services, err := q.ListServices(ctx)
	if err != nil {
		t.Fatalf("ListServices: %v", err)
	}
	var titles []string
	for _, s := range services {
		titles = append(titles, s.Title)
	}
	want := []string{"First", "Second", "Third"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("order = %v, want %v", titles, want)
	}
}

func TestPortfolioProjectCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	project, err := q.CreatePortfolioProject(ctx, CreatePortfolioProjectParams{
		Title:       "Retail Relaunch",
		Category:    "E-commerce",
		Metric:      "+240%",
		MetricLabel: "revenue growth",
	})
	if err != nil {
		t.Fatalf("CreatePortfolioProject: %v", err)
	}

	updated, err := q.UpdatePortfolioProject(ctx, UpdatePortfolioProjectParams{
		ID:       project.ID,
		Title:    "Retail Relaunch 2.0",
		Category: project.Category,
		Metric:   project.Metric, MetricLabel: project.MetricLabel,
	})
	if err != nil {
		t.Fatalf("UpdatePortfolioProject: %v", err)
	}
	if updated.Title != "Retail Relaunch 2.0" {
		t.Errorf("Title = %q", updated.Title)
	}

	if err := q.DeletePortfolioProject(ctx, project.ID); err != nil {
		t.Fatalf("DeletePortfolioProject: %v", err)
	}
	projects, err := q.ListPortfolioProjects(ctx)
	if err != nil {
		t.Fatalf("ListPortfolioProjects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("project count after delete = %d, want 0", len(projects))
	}
}

func TestTeamMemberCRUD(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	member, err := q.CreateTeamMember(ctx, CreateTeamMemberParams{
		Name: "Alex Founder", Role: "CEO",
	})
	if err != nil {
		t.Fatalf("CreateTeamMember: %v", err)
	}

	got, err := q.GetTeamMemberByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("GetTeamMemberByID: %v", err)
	}
	if got.Role != "CEO" {
		t.Errorf("Role = %q", got.Role)
	}

	if err := q.DeleteTeamMember(ctx, member.ID); err != nil {
		t.Fatalf("DeleteTeamMember: %v", err)
	}
}

func TestUpsertAboutSection(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	first, err := q.UpsertAboutSection(ctx, UpsertAboutSectionParams{
		Type: "mission", Title: "Our Mission", Content: "Initial copy",
	})
	if err != nil {
		t.Fatalf("UpsertAboutSection: %v", err)
	}

	second, err := q.UpsertAboutSection(ctx, UpsertAboutSectionParams{
		Type: "mission", Title: "Our Mission", Content: "Revised copy",
	})
	if err != nil {
		t.Fatalf("UpsertAboutSection again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %d != %d", second.ID, first.ID)
	}
	if second.Content != "Revised copy" {
		t.Errorf("Content = %q", second.Content)
	}

	sections, err := q.ListAboutSections(ctx)
	if err != nil {
		t.Fatalf("ListAboutSections: %v", err)
	}
	if len(sections) != 1 {
		t.Errorf("section count = %d, want 1", len(sections))
	}
}
