// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
	"github.com/entrehub/entrehub-go/internal/util"
)

// Categories

// CategoryRequest is the request body for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ListCategories handles GET /api/blog/categories. Each category carries its
// post count.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		slog.Error("listing categories", "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}
	WriteSuccess(w, categories, nil)
}

// CreateCategory handles POST /api/blog/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CategoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if msg := validateNameSlug(req.Name, req.Slug); msg != nil {
		WriteValidationError(w, msg)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.CategorySlugExists(ctx, req.Slug)
	}) {
		return
	}

	category, err := h.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create category")
		return
	}

	slog.Info("category created", "category_id", category.ID, "slug", category.Slug)
	WriteCreated(w, category)
}

// UpdateCategory handles PUT /api/blog/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(ctx, id)
	})
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	name := existing.Name
	slug := existing.Slug
	description := existing.Description
	if strings.TrimSpace(req.Name) != "" {
		name = strings.TrimSpace(req.Name)
	}
	if req.Slug != "" && req.Slug != existing.Slug {
		if !util.IsValidSlug(req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Invalid slug"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.CategorySlugExistsExcluding(ctx, store.CategorySlugExistsExcludingParams{
				Slug: req.Slug, ID: existing.ID,
			})
		}) {
			return
		}
		slug = req.Slug
	}
	if req.Description != "" {
		description = req.Description
	}

	category, err := h.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID:          existing.ID,
		Name:        name,
		Slug:        slug,
		Description: description,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update category")
		return
	}
	WriteSuccess(w, category, nil)
}

// DeleteCategory handles DELETE /api/blog/categories/{id}. A category still
// referenced by posts cannot be removed.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(ctx, id)
	})
	if !ok {
		return
	}

	inUse, err := h.queries.CountPostsForCategory(ctx, category.ID)
	if err != nil {
		WriteInternalError(w, "Failed to delete category")
		return
	}
	if inUse > 0 {
		WriteConflict(w, "Category is referenced by existing posts")
		return
	}

	if err := h.queries.DeleteCategory(ctx, category.ID); err != nil {
		WriteInternalError(w, "Failed to delete category")
		return
	}

	slog.Info("category deleted", "category_id", category.ID, "slug", category.Slug)
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// Tags

// TagRequest is the request body for creating or updating a tag.
type TagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListTags handles GET /api/blog/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.ListTags(r.Context())
	if err != nil {
		slog.Error("listing tags", "error", err)
		WriteInternalError(w, "Failed to list tags")
		return
	}
	WriteSuccess(w, tags, nil)
}

// CreateTag handles POST /api/blog/tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TagRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if msg := validateNameSlug(req.Name, req.Slug); msg != nil {
		WriteValidationError(w, msg)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.TagSlugExists(ctx, req.Slug)
	}) {
		return
	}

	tag, err := h.queries.CreateTag(ctx, store.CreateTagParams{Name: req.Name, Slug: req.Slug})
	if err != nil {
		WriteInternalError(w, "Failed to create tag")
		return
	}

	slog.Info("tag created", "tag_id", tag.ID, "slug", tag.Slug)
	WriteCreated(w, tag)
}

// UpdateTag handles PUT /api/blog/tags/{id}.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "tag", func(id int64) (model.Tag, error) {
		return h.queries.GetTagByID(ctx, id)
	})
	if !ok {
		return
	}

	var req TagRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	name := existing.Name
	slug := existing.Slug
	if strings.TrimSpace(req.Name) != "" {
		name = strings.TrimSpace(req.Name)
	}
	if req.Slug != "" && req.Slug != existing.Slug {
		if !util.IsValidSlug(req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Invalid slug"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.TagSlugExistsExcluding(ctx, store.TagSlugExistsExcludingParams{
				Slug: req.Slug, ID: existing.ID,
			})
		}) {
			return
		}
		slug = req.Slug
	}

	tag, err := h.queries.UpdateTag(ctx, store.UpdateTagParams{ID: existing.ID, Name: name, Slug: slug})
	if err != nil {
		WriteInternalError(w, "Failed to update tag")
		return
	}
	WriteSuccess(w, tag, nil)
}

// DeleteTag handles DELETE /api/blog/tags/{id}.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tag, ok := requireEntityByID(w, r, "tag", func(id int64) (model.Tag, error) {
		return h.queries.GetTagByID(ctx, id)
	})
	if !ok {
		return
	}

	inUse, err := h.queries.CountPostsForTag(ctx, tag.ID)
	if err != nil {
		WriteInternalError(w, "Failed to delete tag")
		return
	}
	if inUse > 0 {
		WriteConflict(w, "Tag is referenced by existing posts")
		return
	}

	if err := h.queries.DeleteTag(ctx, tag.ID); err != nil {
		WriteInternalError(w, "Failed to delete tag")
		return
	}

	slog.Info("tag deleted", "tag_id", tag.ID, "slug", tag.Slug)
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// Authors

// AuthorRequest is the request body for creating or updating an author.
type AuthorRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

// ListAuthors handles GET /api/blog/authors.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.queries.ListAuthors(r.Context())
	if err != nil {
		slog.Error("listing authors", "error", err)
		WriteInternalError(w, "Failed to list authors")
		return
	}
	WriteSuccess(w, authors, nil)
}

// CreateAuthor handles POST /api/blog/authors.
func (h *Handler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AuthorRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = util.NormalizeEmail(req.Email)

	validationErrors := make(map[string]string)
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	}
	if req.Email == "" || !util.IsValidEmail(req.Email) {
		validationErrors["email"] = "A valid email is required"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	exists, err := h.queries.AuthorEmailExists(ctx, req.Email)
	if err != nil {
		WriteInternalError(w, "Failed to check email")
		return
	}
	if exists != 0 {
		WriteConflict(w, "An author with this email already exists")
		return
	}

	author, err := h.queries.CreateAuthor(ctx, store.CreateAuthorParams{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
		Bio:    req.Bio,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create author")
		return
	}

	slog.Info("author created", "author_id", author.ID, "email", author.Email)
	WriteCreated(w, author)
}

// UpdateAuthor handles PUT /api/blog/authors/{id}.
func (h *Handler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "author", func(id int64) (model.Author, error) {
		return h.queries.GetAuthorByID(ctx, id)
	})
	if !ok {
		return
	}

	var req AuthorRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdateAuthorParams{
		ID:     existing.ID,
		Name:   existing.Name,
		Email:  existing.Email,
		Avatar: existing.Avatar,
		Bio:    existing.Bio,
	}
	if strings.TrimSpace(req.Name) != "" {
		params.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email := util.NormalizeEmail(req.Email)
		if !util.IsValidEmail(email) {
			WriteValidationError(w, map[string]string{"email": "Invalid email"})
			return
		}
		if email != existing.Email {
			exists, err := h.queries.AuthorEmailExistsExcluding(ctx, store.AuthorEmailExistsExcludingParams{
				Email: email, ID: existing.ID,
			})
			if err != nil {
				WriteInternalError(w, "Failed to check email")
				return
			}
			if exists != 0 {
				WriteConflict(w, "An author with this email already exists")
				return
			}
		}
		params.Email = email
	}
	if req.Avatar != "" {
		params.Avatar = req.Avatar
	}
	if req.Bio != "" {
		params.Bio = req.Bio
	}

	author, err := h.queries.UpdateAuthor(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update author")
		return
	}
	WriteSuccess(w, author, nil)
}

// DeleteAuthor handles DELETE /api/blog/authors/{id}.
func (h *Handler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, ok := requireEntityByID(w, r, "author", func(id int64) (model.Author, error) {
		return h.queries.GetAuthorByID(ctx, id)
	})
	if !ok {
		return
	}

	inUse, err := h.queries.CountPostsForAuthor(ctx, author.ID)
	if err != nil {
		WriteInternalError(w, "Failed to delete author")
		return
	}
	if inUse > 0 {
		WriteConflict(w, "Author is referenced by existing posts")
		return
	}

	if err := h.queries.DeleteAuthor(ctx, author.ID); err != nil {
		WriteInternalError(w, "Failed to delete author")
		return
	}

	slog.Info("author deleted", "author_id", author.ID)
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// validateNameSlug validates the shared name/slug pair used by categories
// and tags. Returns nil when valid.
func validateNameSlug(name, slug string) map[string]string {
	errs := make(map[string]string)
	if name == "" {
		errs["name"] = "Name is required"
	}
	if slug == "" {
		errs["slug"] = "Slug is required"
	} else if !util.IsValidSlug(slug) {
		errs["slug"] = "Slug may only contain lowercase letters, digits and hyphens"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
