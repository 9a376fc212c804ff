// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
)

func TestCategoryLifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	resp := ts.request(t, http.MethodPost, "/api/blog/categories", admin, CategoryRequest{
		Name: "Digital Marketing",
	})
	wantStatus(t, resp, http.StatusCreated)
	var category model.Category
	decodeData(t, resp, &category)
	if category.Slug != "digital-marketing" {
		t.Errorf("generated slug = %q, want digital-marketing", category.Slug)
	}

	// Duplicate slug conflicts.
	resp = ts.request(t, http.MethodPost, "/api/blog/categories", admin, CategoryRequest{
		Name: "Other", Slug: "digital-marketing",
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	// Rename keeping the slug.
	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/blog/categories/%d", category.ID), admin, CategoryRequest{
		Name: "Performance Marketing",
	})
	wantStatus(t, resp, http.StatusOK)
	var renamed model.Category
	decodeData(t, resp, &renamed)
	if renamed.Name != "Performance Marketing" || renamed.Slug != "digital-marketing" {
		t.Errorf("after rename: %+v", renamed)
	}

	// Reads are public and include post counts.
	resp = ts.request(t, http.MethodGet, "/api/blog/categories", "", nil)
	wantStatus(t, resp, http.StatusOK)
	var listed []store.CategoryWithCount
	decodeData(t, resp, &listed)
	var found bool
	for _, c := range listed {
		if c.Slug == "digital-marketing" {
			found = true
			if c.PostCount != 0 {
				t.Errorf("post count = %d, want 0", c.PostCount)
			}
		}
	}
	if !found {
		t.Fatalf("listed = %+v, want digital-marketing present", listed)
	}

	// Writes are not public.
	resp = ts.request(t, http.MethodPost, "/api/blog/categories", "", CategoryRequest{Name: "Nope"})
	wantStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/blog/categories/%d", category.ID), admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/blog/categories/%d", category.ID), admin, nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestDeleteReferencedTaxonomyConflicts(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)
	admin := ts.adminToken(t)

	post := seedPost(t, ts, "Anchored", "anchored", true, authorID, categoryID)
	tag, err := ts.queries.CreateTag(context.Background(), store.CreateTagParams{Name: "Pinned", Slug: "pinned"})
	if err != nil {
		t.Fatalf("creating tag: %v", err)
	}
	if err := ts.queries.SetPostTags(context.Background(), post.ID, []int64{tag.ID}); err != nil {
		t.Fatalf("tagging post: %v", err)
	}

	for _, tc := range []struct {
		name string
		path string
	}{
		{"category", fmt.Sprintf("/api/blog/categories/%d", categoryID)},
		{"tag", fmt.Sprintf("/api/blog/tags/%d", tag.ID)},
		{"author", fmt.Sprintf("/api/blog/authors/%d", authorID)},
	} {
		resp := ts.request(t, http.MethodDelete, tc.path, admin, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("deleting referenced %s: status = %d, want 409", tc.name, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Once the post is gone the taxonomy rows delete cleanly.
	resp := ts.request(t, http.MethodDelete, "/api/blog/"+post.Slug, admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/blog/tags/%d", tag.ID), admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestAuthorEmailConflicts(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	resp := ts.request(t, http.MethodPost, "/api/blog/authors", admin, AuthorRequest{
		Name: "Jane", Email: "jane@example.com",
	})
	wantStatus(t, resp, http.StatusCreated)
	var jane model.Author
	decodeData(t, resp, &jane)

	// Same address, different case.
	resp = ts.request(t, http.MethodPost, "/api/blog/authors", admin, AuthorRequest{
		Name: "Impostor", Email: "JANE@Example.com",
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = ts.request(t, http.MethodPost, "/api/blog/authors", admin, AuthorRequest{
		Name: "John", Email: "john@example.com",
	})
	wantStatus(t, resp, http.StatusCreated)
	var john model.Author
	decodeData(t, resp, &john)

	// John cannot take Jane's address.
	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/blog/authors/%d", john.ID), admin, AuthorRequest{
		Email: "jane@example.com",
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	// But may keep his own while updating the bio.
	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/api/blog/authors/%d", john.ID), admin, AuthorRequest{
		Email: "john@example.com", Bio: "Writes about growth.",
	})
	wantStatus(t, resp, http.StatusOK)
	var updated model.Author
	decodeData(t, resp, &updated)
	if updated.Bio != "Writes about growth." {
		t.Errorf("bio = %q", updated.Bio)
	}
}

func TestTagValidation(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	resp := ts.request(t, http.MethodPost, "/api/blog/tags", admin, TagRequest{Name: ""})
	wantStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	resp = ts.request(t, http.MethodPost, "/api/blog/tags", admin, TagRequest{
		Name: "SEO", Slug: "Not A Slug",
	})
	wantStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	resp = ts.request(t, http.MethodPost, "/api/blog/tags", admin, TagRequest{Name: "SEO"})
	wantStatus(t, resp, http.StatusCreated)
	var tag model.Tag
	decodeData(t, resp, &tag)
	if tag.Slug != "seo" {
		t.Errorf("generated slug = %q, want seo", tag.Slug)
	}
}
