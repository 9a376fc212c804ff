// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
)

// DefaultPostPageSize is the post list page size used when none is requested.
const DefaultPostPageSize = 10

// PostFilter describes the visibility predicate and pagination window for
// post list queries. IncludeDrafts must only be set for verified admin
// callers: when false the predicate forces published = 1 regardless of the
// other parameters, so anonymous visitors can never observe unpublished
// content, including via search or category filters.
type PostFilter struct {
	Page          int
	Limit         int
	Category      string // category slug
	Search        string // case-insensitive substring on title or excerpt
	Featured      *bool
	IncludeDrafts bool
}

// Normalize clamps pagination parameters to their defaults.
func (f *PostFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPostPageSize
	}
}

// Offset returns the number of rows to skip for the current page.
func (f PostFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// where builds the SQL predicate and arguments for the filter.
func (f PostFilter) where() (string, []any) {
	var conds []string
	var args []any

	if !f.IncludeDrafts {
		conds = append(conds, "p.published = 1")
	}
	if f.Category != "" {
		conds = append(conds, "p.category_id IN (SELECT id FROM categories WHERE slug = ?)")
		args = append(args, f.Category)
	}
	if f.Featured != nil {
		conds = append(conds, "p.featured = ?")
		args = append(args, *f.Featured)
	}
	if f.Search != "" {
		conds = append(conds, "(lower(p.title) LIKE '%' || lower(?) || '%' OR lower(p.excerpt) LIKE '%' || lower(?) || '%')")
		args = append(args, f.Search, f.Search)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const postColumns = `p.id, p.title, p.slug, p.excerpt, p.content, p.cover_image,
	p.featured, p.published, p.published_at, p.read_time, p.views,
	p.author_id, p.category_id, p.created_at, p.updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage,
		&p.Featured, &p.Published, &p.PublishedAt, &p.ReadTime, &p.Views,
		&p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListPosts returns the page of posts matching the filter, most recently
// published first. Drafts (NULL published_at) sort after published posts;
// id breaks ties so the order is stable across repeated calls.
func (q *Queries) ListPosts(ctx context.Context, f PostFilter) ([]model.Post, error) {
	f.Normalize()
	where, args := f.where()

	query := "SELECT " + postColumns + " FROM posts p" + where +
		" ORDER BY p.published_at IS NULL, p.published_at DESC, p.id DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset())

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts returns the number of posts matching the filter, ignoring
// pagination. This is the pre-pagination total for the result envelope.
func (q *Queries) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	where, args := f.where()
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&count)
	return count, err
}

// GetPostBySlug looks up a post by slug. Returns sql.ErrNoRows if absent.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.slug = ?", slug)
	return scanPost(row)
}

// GetPostByID looks up a post by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.id = ?", id)
	return scanPost(row)
}

// PostSlugExists returns a non-zero count if a post with the slug exists.
func (q *Queries) PostSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE slug = ?", slug).Scan(&count)
	return count, err
}

// PostSlugExistsExcludingParams holds the fields for PostSlugExistsExcluding.
type PostSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// PostSlugExistsExcluding returns a non-zero count if another post already
// uses the slug.
func (q *Queries) PostSlugExistsExcluding(ctx context.Context, arg PostSlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?", arg.Slug, arg.ID).Scan(&count)
	return count, err
}

// CreatePostParams holds the fields for CreatePost.
type CreatePostParams struct {
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverImage  string
	Featured    bool
	Published   bool
	PublishedAt sql.NullTime
	ReadTime    string
	AuthorID    int64
	CategoryID  int64
}

// CreatePost inserts a new post and returns it.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (title, slug, excerpt, content, cover_image, featured,
			published, published_at, read_time, author_id, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.CoverImage, arg.Featured,
		arg.Published, arg.PublishedAt, arg.ReadTime, arg.AuthorID, arg.CategoryID, now, now)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return q.GetPostByID(ctx, id)
}

// UpdatePostParams holds the full row state for UpdatePost. Handlers load
// the current row, apply partial changes and write the whole row back.
type UpdatePostParams struct {
	ID          int64
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverImage  string
	Featured    bool
	Published   bool
	PublishedAt sql.NullTime
	ReadTime    string
	AuthorID    int64
	CategoryID  int64
}

// UpdatePost writes the full post row and returns the updated post.
// Concurrent updates are last-write-wins; there is no version check.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?, cover_image = ?,
			featured = ?, published = ?, published_at = ?, read_time = ?,
			author_id = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.CoverImage,
		arg.Featured, arg.Published, arg.PublishedAt, arg.ReadTime,
		arg.AuthorID, arg.CategoryID, time.Now(), arg.ID)
	if err != nil {
		return model.Post{}, err
	}
	return q.GetPostByID(ctx, arg.ID)
}

// DeletePost removes a post by ID. Returns sql.ErrNoRows if no row matched.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementPostViews bumps the view counter for a post. Best-effort: the
// caller dispatches this in the background and ignores failures.
func (q *Queries) IncrementPostViews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "UPDATE posts SET views = views + 1 WHERE id = ?", id)
	return err
}

// SetPostTags replaces the tag associations for a post. Run inside a
// transaction together with the post write.
func (q *Queries) SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id = ?", postID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := q.db.ExecContext(ctx,
			"INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)", postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// GetTagsForPost returns the tags attached to a post, name-ordered.
func (q *Queries) GetTagsForPost(ctx context.Context, postID int64) ([]model.Tag, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.slug, t.created_at, t.updated_at
		 FROM tags t JOIN post_tags pt ON pt.tag_id = t.id
		 WHERE pt.post_id = ? ORDER BY t.name`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagsForPosts returns the tags for a batch of posts keyed by post ID.
func (q *Queries) GetTagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Tag, error) {
	result := make(map[int64][]model.Tag)
	if len(postIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(postIDs))
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT pt.post_id, t.id, t.name, t.slug, t.created_at, t.updated_at
		 FROM tags t JOIN post_tags pt ON pt.tag_id = t.id
		 WHERE pt.post_id IN (%s) ORDER BY t.name`, strings.Join(placeholders, ","))

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var t model.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result[postID] = append(result[postID], t)
	}
	return result, rows.Err()
}
