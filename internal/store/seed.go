// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/entrehub/entrehub-go/internal/auth"
	"github.com/entrehub/entrehub-go/internal/model"
)

// SeedParams configures the initial data created on first boot.
type SeedParams struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Seed creates the initial administrator account and baseline site content.
// Safe to call on every startup; it is a no-op once data exists.
func Seed(ctx context.Context, db *sql.DB, params SeedParams) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries, params); err != nil {
		return err
	}
	if err := seedAboutSections(ctx, queries); err != nil {
		return err
	}
	if err := seedTaxonomy(ctx, queries); err != nil {
		return err
	}
	return nil
}

func seedAdmin(ctx context.Context, q *Queries, params SeedParams) error {
	_, err := q.GetUserByEmail(ctx, params.AdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(params.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	name := params.AdminName
	if name == "" {
		name = "Administrator"
	}
	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        params.AdminEmail,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         model.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
	)
	return nil
}

// seedAboutSections guarantees the about page always has its fixed blocks,
// so the public endpoint never returns an empty page on a fresh install.
func seedAboutSections(ctx context.Context, q *Queries) error {
	defaults := []UpsertAboutSectionParams{
		{Type: "hero", Title: "About Us", Content: "We are a full-service marketing agency."},
		{Type: "mission", Title: "Our Mission", Content: "Help ambitious brands grow with measurable results."},
		{Type: "vision", Title: "Our Vision", Content: "Be the most trusted growth partner for our clients."},
	}
	for _, d := range defaults {
		if _, err := q.GetAboutSectionByType(ctx, d.Type); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking about section %q: %w", d.Type, err)
		}
		if _, err := q.UpsertAboutSection(ctx, d); err != nil {
			return fmt.Errorf("seeding about section %q: %w", d.Type, err)
		}
	}
	return nil
}

// seedTaxonomy creates a starter category, tag set and house author so the
// first post can be filed somewhere. Skipped entirely once any taxonomy
// rows exist.
func seedTaxonomy(ctx context.Context, q *Queries) error {
	categories, err := q.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(categories) > 0 {
		return nil
	}

	if _, err := q.CreateCategory(ctx, CreateCategoryParams{
		Name: "News", Slug: "news", Description: "Agency news and announcements",
	}); err != nil {
		return fmt.Errorf("seeding category: %w", err)
	}
	for _, tag := range []CreateTagParams{
		{Name: "Marketing", Slug: "marketing"},
		{Name: "Design", Slug: "design"},
	} {
		if _, err := q.CreateTag(ctx, tag); err != nil {
			return fmt.Errorf("seeding tag %q: %w", tag.Slug, err)
		}
	}
	if _, err := q.CreateAuthor(ctx, CreateAuthorParams{
		Name: "EntreHub Team", Email: "hello@entrehub.example",
	}); err != nil {
		return fmt.Errorf("seeding author: %w", err)
	}

	slog.Info("seeded baseline taxonomy")
	return nil
}
