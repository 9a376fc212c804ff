// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
)

// seedBlogFixture creates one author and one category and returns their IDs.
func seedBlogFixture(t *testing.T, ts *testServer) (authorID, categoryID int64) {
	t.Helper()
	ctx := context.Background()

	author, err := ts.queries.CreateAuthor(ctx, store.CreateAuthorParams{
		Name: "Jane Writer", Email: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("creating author: %v", err)
	}
	category, err := ts.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name: "Strategy", Slug: "strategy",
	})
	if err != nil {
		t.Fatalf("creating category: %v", err)
	}
	return author.ID, category.ID
}

// seedPost inserts a post directly through the store.
func seedPost(t *testing.T, ts *testServer, title, slug string, published bool, authorID, categoryID int64) model.Post {
	t.Helper()

	var publishedAt sql.NullTime
	if published {
		publishedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}
	post, err := ts.queries.CreatePost(context.Background(), store.CreatePostParams{
		Title:       title,
		Slug:        slug,
		Excerpt:     "Excerpt for " + title,
		Content:     "<p>Content</p>",
		Published:   published,
		PublishedAt: publishedAt,
		AuthorID:    authorID,
		CategoryID:  categoryID,
	})
	if err != nil {
		t.Fatalf("creating post %q: %v", slug, err)
	}
	return post
}

func TestListPostsPaginationEnvelope(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)

	for i := 0; i < 25; i++ {
		seedPost(t, ts, fmt.Sprintf("Post %02d", i), fmt.Sprintf("post-%02d", i), true, authorID, categoryID)
	}

	var posts []model.PostView
	resp := ts.request(t, http.MethodGet, "/api/blog?limit=10", "", nil)
	wantStatus(t, resp, http.StatusOK)
	meta := decodeMeta(t, resp, &posts)

	if len(posts) != 10 {
		t.Errorf("page 1 size = %d, want 10", len(posts))
	}
	if meta == nil {
		t.Fatal("list response has no pagination meta")
	}
	if meta.Total != 25 || meta.TotalPages != 3 {
		t.Errorf("meta = %+v, want total 25, totalPages 3", meta)
	}

	posts = nil
	resp = ts.request(t, http.MethodGet, "/api/blog?limit=10&page=3", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeMeta(t, resp, &posts)
	if len(posts) != 5 {
		t.Errorf("page 3 size = %d, want 5", len(posts))
	}

	// A page past the end is empty, not an error.
	posts = nil
	resp = ts.request(t, http.MethodGet, "/api/blog?limit=10&page=4", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeMeta(t, resp, &posts)
	if len(posts) != 0 {
		t.Errorf("page 4 size = %d, want 0", len(posts))
	}
}

func TestAnonymousNeverSeesDrafts(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)

	seedPost(t, ts, "Published Plans", "published-plans", true, authorID, categoryID)
	draft := seedPost(t, ts, "Future Roadmap", "future-roadmap", false, authorID, categoryID)

	// Plain anonymous listing.
	var posts []model.PostView
	resp := ts.request(t, http.MethodGet, "/api/blog", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeMeta(t, resp, &posts)
	if len(posts) != 1 || posts[0].Slug != "published-plans" {
		t.Fatalf("anonymous listing = %d posts, want only published-plans", len(posts))
	}

	// A search hit on the draft must not leak it, regardless of case.
	for _, q := range []string{"future", "FUTURE"} {
		posts = nil
		resp = ts.request(t, http.MethodGet, "/api/blog?search="+q, "", nil)
		wantStatus(t, resp, http.StatusOK)
		decodeMeta(t, resp, &posts)
		if len(posts) != 0 {
			t.Errorf("anonymous search %q returned %d posts, want 0", q, len(posts))
		}
	}

	// Nor does asking for drafts outright.
	posts = nil
	resp = ts.request(t, http.MethodGet, "/api/blog?drafts=true", "", nil)
	wantStatus(t, resp, http.StatusOK)
	decodeMeta(t, resp, &posts)
	if len(posts) != 1 {
		t.Errorf("anonymous drafts=true returned %d posts, want 1", len(posts))
	}

	// Direct fetch of the draft slug is a 404 for anonymous callers.
	resp = ts.request(t, http.MethodGet, "/api/blog/"+draft.Slug, "", nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	// Staff see everything without asking; a valid token alone lifts the
	// published-only filter.
	admin := ts.adminToken(t)
	posts = nil
	resp = ts.request(t, http.MethodGet, "/api/blog", admin, nil)
	wantStatus(t, resp, http.StatusOK)
	decodeMeta(t, resp, &posts)
	if len(posts) != 2 {
		t.Errorf("admin listing returned %d posts, want 2", len(posts))
	}
	resp = ts.request(t, http.MethodGet, "/api/blog/"+draft.Slug, admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestCreatePostThroughAPI(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)
	admin := ts.adminToken(t)

	tag, err := ts.queries.CreateTag(context.Background(), store.CreateTagParams{Name: "Growth", Slug: "growth"})
	if err != nil {
		t.Fatalf("creating tag: %v", err)
	}

	resp := ts.request(t, http.MethodPost, "/api/blog", admin, CreatePostRequest{
		Title:      "Launching Our New Brand",
		Content:    `<p>Body</p><script>alert("x")</script>`,
		Published:  true,
		AuthorID:   authorID,
		CategoryID: categoryID,
		TagIDs:     []int64{tag.ID},
	})
	wantStatus(t, resp, http.StatusCreated)

	var created model.PostView
	decodeData(t, resp, &created)
	if created.Slug != "launching-our-new-brand" {
		t.Errorf("generated slug = %q, want launching-our-new-brand", created.Slug)
	}
	if created.PublishedAt == nil {
		t.Error("published post has no published_at")
	}
	if want := "<p>Body</p>"; created.Content != want {
		t.Errorf("sanitized content = %q, want %q", created.Content, want)
	}
	if len(created.Tags) != 1 || created.Tags[0].Slug != "growth" {
		t.Errorf("tags = %+v, want [growth]", created.Tags)
	}

	// Same slug again conflicts.
	resp = ts.request(t, http.MethodPost, "/api/blog", admin, CreatePostRequest{
		Title:      "Launching Our New Brand",
		Content:    "<p>Other</p>",
		AuthorID:   authorID,
		CategoryID: categoryID,
	})
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	// Unknown relations are a validation error.
	resp = ts.request(t, http.MethodPost, "/api/blog", admin, CreatePostRequest{
		Title:      "Orphan",
		Content:    "<p>x</p>",
		AuthorID:   9999,
		CategoryID: categoryID,
	})
	wantStatus(t, resp, http.StatusUnprocessableEntity)
	resp.Body.Close()

	// Anonymous writes are rejected.
	resp = ts.request(t, http.MethodPost, "/api/blog", "", CreatePostRequest{
		Title: "Nope", Content: "x", AuthorID: authorID, CategoryID: categoryID,
	})
	wantStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestUpdatePostPublishTimestampSetOnce(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)
	admin := ts.adminToken(t)

	draft := seedPost(t, ts, "Draft Piece", "draft-piece", false, authorID, categoryID)

	publish := true
	resp := ts.request(t, http.MethodPut, "/api/blog/"+draft.Slug, admin, UpdatePostRequest{
		Published: &publish,
	})
	wantStatus(t, resp, http.StatusOK)
	var first model.PostView
	decodeData(t, resp, &first)
	if first.PublishedAt == nil {
		t.Fatal("publishing did not set published_at")
	}

	// Toggling published again must not move the timestamp.
	title := "Draft Piece, Revised"
	resp = ts.request(t, http.MethodPut, "/api/blog/"+draft.Slug, admin, UpdatePostRequest{
		Title:     &title,
		Published: &publish,
	})
	wantStatus(t, resp, http.StatusOK)
	var second model.PostView
	decodeData(t, resp, &second)
	if second.PublishedAt == nil || !second.PublishedAt.Equal(*first.PublishedAt) {
		t.Errorf("published_at moved on re-publish: %v -> %v", first.PublishedAt, second.PublishedAt)
	}
	if second.Title != title {
		t.Errorf("title = %q, want %q", second.Title, title)
	}
}

func TestGetPostCountsViews(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)
	admin := ts.adminToken(t)

	post := seedPost(t, ts, "Viewed", "viewed", true, authorID, categoryID)

	resp := ts.request(t, http.MethodGet, "/api/blog/"+post.Slug, "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Every successful fetch counts, staff included.
	resp = ts.request(t, http.MethodGet, "/api/blog/"+post.Slug, admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// The counter writes are fire-and-forget, so give them a moment.
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := ts.queries.GetPostByID(context.Background(), post.ID)
		if err != nil {
			t.Fatalf("reloading post: %v", err)
		}
		if got.Views == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("views = %d, want 2", got.Views)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	authorID, categoryID := seedBlogFixture(t, ts)
	admin := ts.adminToken(t)

	post := seedPost(t, ts, "Doomed", "doomed", true, authorID, categoryID)

	resp := ts.request(t, http.MethodDelete, "/api/blog/"+post.Slug, admin, nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = ts.request(t, http.MethodGet, "/api/blog/"+post.Slug, admin, nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	resp = ts.request(t, http.MethodDelete, "/api/blog/"+post.Slug, admin, nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}
