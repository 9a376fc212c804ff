// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/entrehub/entrehub-go/internal/middleware"
	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
	"github.com/entrehub/entrehub-go/internal/util"
)

// viewCountTimeout bounds the background view counter write.
const viewCountTimeout = 5 * time.Second

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Excerpt    string  `json:"excerpt"`
	Content    string  `json:"content"`
	CoverImage string  `json:"cover_image"`
	Featured   bool    `json:"featured"`
	Published  bool    `json:"published"`
	ReadTime   string  `json:"read_time"`
	AuthorID   int64   `json:"author_id"`
	CategoryID int64   `json:"category_id"`
	TagIDs     []int64 `json:"tag_ids"`
}

// UpdatePostRequest is the request body for partially updating a post.
// Nil fields are left unchanged.
type UpdatePostRequest struct {
	Title      *string  `json:"title,omitempty"`
	Slug       *string  `json:"slug,omitempty"`
	Excerpt    *string  `json:"excerpt,omitempty"`
	Content    *string  `json:"content,omitempty"`
	CoverImage *string  `json:"cover_image,omitempty"`
	Featured   *bool    `json:"featured,omitempty"`
	Published  *bool    `json:"published,omitempty"`
	ReadTime   *string  `json:"read_time,omitempty"`
	AuthorID   *int64   `json:"author_id,omitempty"`
	CategoryID *int64   `json:"category_id,omitempty"`
	TagIDs     *[]int64 `json:"tag_ids,omitempty"`
}

// ListPosts handles GET /api/blog.
// Anonymous callers only ever see published posts; authenticated staff
// get the unrestricted listing, drafts included.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := store.PostFilter{
		Page:     parsePageParam(r),
		Limit:    parseLimitParam(r, store.DefaultPostPageSize, 100),
		Category: query.Get("category"),
		Search:   strings.TrimSpace(query.Get("search")),
	}
	if v := query.Get("featured"); v != "" {
		featured := v == "true" || v == "1"
		filter.Featured = &featured
	}

	// A valid token alone lifts the published-only filter; anonymous
	// callers never see drafts.
	filter.IncludeDrafts = middleware.GetUser(r) != nil
	filter.Normalize()

	posts, err := h.queries.ListPosts(ctx, filter)
	if err != nil {
		slog.Error("listing posts", "error", err)
		WriteInternalError(w, "Failed to list posts")
		return
	}
	total, err := h.queries.CountPosts(ctx, filter)
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}

	views, err := h.buildPostViews(ctx, posts)
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}

	WriteSuccess(w, views, newMeta(total, filter.Page, filter.Limit))
}

// GetPost handles GET /api/blog/{slug}.
// Every successful fetch bumps the view counter in the background; the
// response never waits on it.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required", nil)
		return
	}

	post, err := h.queries.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Post not found")
		} else {
			WriteInternalError(w, "Failed to retrieve post")
		}
		return
	}

	// Drafts are invisible to anonymous visitors, indistinguishable from
	// a missing post.
	user := middleware.GetUser(r)
	if !post.IsPublished() && user == nil {
		WriteNotFound(w, "Post not found")
		return
	}

	h.countView(post.ID)

	views, err := h.buildPostViews(ctx, []model.Post{post})
	if err != nil {
		WriteInternalError(w, "Failed to retrieve post")
		return
	}

	WriteSuccess(w, views[0], nil)
}

// countView increments the post view counter without blocking the
// response. Failures are logged and dropped.
func (h *Handler) countView(postID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), viewCountTimeout)
		defer cancel()
		if err := h.queries.IncrementPostViews(ctx, postID); err != nil {
			slog.Warn("incrementing post views", "error", err, "post_id", postID)
		}
	}()
}

// CreatePost handles POST /api/blog.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePostRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Slug == "" && req.Title != "" {
		req.Slug = util.Slugify(req.Title)
	}

	validationErrors := make(map[string]string)
	if req.Title == "" {
		validationErrors["title"] = "Title is required"
	}
	if req.Slug == "" {
		validationErrors["slug"] = "Slug is required"
	} else if !util.IsValidSlug(req.Slug) {
		validationErrors["slug"] = "Slug may only contain lowercase letters, digits and hyphens"
	}
	if req.AuthorID == 0 {
		validationErrors["author_id"] = "Author is required"
	}
	if req.CategoryID == 0 {
		validationErrors["category_id"] = "Category is required"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.PostSlugExists(ctx, req.Slug)
	}) {
		return
	}

	if !h.checkPostRelations(ctx, w, req.AuthorID, req.CategoryID, req.TagIDs) {
		return
	}

	params := store.CreatePostParams{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    h.sanitizer.Sanitize(req.Content),
		CoverImage: req.CoverImage,
		Featured:   req.Featured,
		Published:  req.Published,
		ReadTime:   req.ReadTime,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	}
	if req.Published {
		params.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	post, err := h.queries.CreatePost(ctx, params)
	if err != nil {
		slog.Error("creating post", "error", err)
		WriteInternalError(w, "Failed to create post")
		return
	}

	if len(req.TagIDs) > 0 {
		if err := h.queries.SetPostTags(ctx, post.ID, req.TagIDs); err != nil {
			slog.Error("setting post tags", "error", err, "post_id", post.ID)
			WriteInternalError(w, "Failed to create post")
			return
		}
	}

	views, err := h.buildPostViews(ctx, []model.Post{post})
	if err != nil {
		WriteInternalError(w, "Failed to create post")
		return
	}

	slog.Info("post created", "post_id", post.ID, "slug", post.Slug, "published", post.Published)
	WriteCreated(w, views[0])
}

// UpdatePost handles PUT /api/blog/{slug}. Updates are partial; the
// publish timestamp is set once, on the draft-to-published transition,
// and survives later unpublish/republish cycles.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	existing, err := h.queries.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Post not found")
		} else {
			WriteInternalError(w, "Failed to retrieve post")
		}
		return
	}

	var req UpdatePostRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdatePostParams{
		ID:          existing.ID,
		Title:       existing.Title,
		Slug:        existing.Slug,
		Excerpt:     existing.Excerpt,
		Content:     existing.Content,
		CoverImage:  existing.CoverImage,
		Featured:    existing.Featured,
		Published:   existing.Published,
		PublishedAt: existing.PublishedAt,
		ReadTime:    existing.ReadTime,
		AuthorID:    existing.AuthorID,
		CategoryID:  existing.CategoryID,
	}

	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != existing.Slug {
		if !util.IsValidSlug(*req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Slug may only contain lowercase letters, digits and hyphens"})
			return
		}
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.PostSlugExistsExcluding(ctx, store.PostSlugExistsExcludingParams{
				Slug: *req.Slug, ID: existing.ID,
			})
		}) {
			return
		}
		params.Slug = *req.Slug
	}
	if req.Excerpt != nil {
		params.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		params.Content = h.sanitizer.Sanitize(*req.Content)
	}
	if req.CoverImage != nil {
		params.CoverImage = *req.CoverImage
	}
	if req.Featured != nil {
		params.Featured = *req.Featured
	}
	if req.ReadTime != nil {
		params.ReadTime = *req.ReadTime
	}
	if req.AuthorID != nil {
		params.AuthorID = *req.AuthorID
	}
	if req.CategoryID != nil {
		params.CategoryID = *req.CategoryID
	}
	if req.Published != nil {
		params.Published = *req.Published
		if *req.Published && !params.PublishedAt.Valid {
			params.PublishedAt = sql.NullTime{Time: time.Now(), Valid: true}
		}
	}

	var tagIDs []int64
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
	}
	if !h.checkPostRelations(ctx, w, params.AuthorID, params.CategoryID, tagIDs) {
		return
	}

	post, err := h.queries.UpdatePost(ctx, params)
	if err != nil {
		slog.Error("updating post", "error", err, "post_id", existing.ID)
		WriteInternalError(w, "Failed to update post")
		return
	}

	if req.TagIDs != nil {
		if err := h.queries.SetPostTags(ctx, post.ID, *req.TagIDs); err != nil {
			slog.Error("setting post tags", "error", err, "post_id", post.ID)
			WriteInternalError(w, "Failed to update post")
			return
		}
	}

	views, err := h.buildPostViews(ctx, []model.Post{post})
	if err != nil {
		WriteInternalError(w, "Failed to update post")
		return
	}

	WriteSuccess(w, views[0], nil)
}

// DeletePost handles DELETE /api/blog/{slug}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Post not found")
		} else {
			WriteInternalError(w, "Failed to retrieve post")
		}
		return
	}

	if err := h.queries.DeletePost(ctx, post.ID); err != nil {
		slog.Error("deleting post", "error", err, "post_id", post.ID)
		WriteInternalError(w, "Failed to delete post")
		return
	}

	slog.Info("post deleted", "post_id", post.ID, "slug", post.Slug)
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// checkPostRelations verifies the referenced author, category and tags
// exist, answering 422 otherwise. Returns true when all references hold.
func (h *Handler) checkPostRelations(ctx context.Context, w http.ResponseWriter, authorID, categoryID int64, tagIDs []int64) bool {
	if _, err := h.queries.GetAuthorByID(ctx, authorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteValidationError(w, map[string]string{"author_id": "Author does not exist"})
		} else {
			WriteInternalError(w, "Failed to check author")
		}
		return false
	}
	if _, err := h.queries.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteValidationError(w, map[string]string{"category_id": "Category does not exist"})
		} else {
			WriteInternalError(w, "Failed to check category")
		}
		return false
	}
	if len(tagIDs) > 0 {
		tags, err := h.queries.GetTagsByIDs(ctx, tagIDs)
		if err != nil {
			WriteInternalError(w, "Failed to check tags")
			return false
		}
		if len(tags) != len(tagIDs) {
			WriteValidationError(w, map[string]string{"tag_ids": "One or more tags do not exist"})
			return false
		}
	}
	return true
}

// buildPostViews joins posts with their authors, categories and tags
// using batched lookups.
func (h *Handler) buildPostViews(ctx context.Context, posts []model.Post) ([]model.PostView, error) {
	views := make([]model.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]int64, 0, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	categoryIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
		categoryIDs = append(categoryIDs, p.CategoryID)
	}

	authors, err := h.queries.GetAuthorsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	categories, err := h.queries.GetCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	tagsByPost, err := h.queries.GetTagsForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		v := model.NewPostView(p)
		if author, ok := authors[p.AuthorID]; ok {
			v.Author = &author
		}
		if category, ok := categories[p.CategoryID]; ok {
			v.Category = &category
		}
		if tags, ok := tagsByPost[p.ID]; ok {
			v.Tags = tags
		}
		views = append(views, v)
	}
	return views, nil
}
