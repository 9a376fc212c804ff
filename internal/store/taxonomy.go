// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
)

// CategoryWithCount is a category joined with its post usage count.
type CategoryWithCount struct {
	model.Category
	PostCount int64 `json:"post_count"`
}

// TagWithCount is a tag joined with its post usage count.
type TagWithCount struct {
	model.Tag
	PostCount int64 `json:"post_count"`
}

// AuthorWithCount is an author joined with their post count.
type AuthorWithCount struct {
	model.Author
	PostCount int64 `json:"post_count"`
}

// ============================================================================
// Categories
// ============================================================================

// ListCategories returns all categories with post counts, name-ordered.
func (q *Queries) ListCategories(ctx context.Context) ([]CategoryWithCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.slug, c.description, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id) AS post_count
		 FROM categories c ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []CategoryWithCount
	for rows.Next() {
		var c CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.PostCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByID looks up a category by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, slug, description, created_at, updated_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CategorySlugExists returns a non-zero count if the slug is taken.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE slug = ?", slug).Scan(&count)
	return count, err
}

// CategorySlugExistsExcludingParams holds the fields for CategorySlugExistsExcluding.
type CategorySlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// CategorySlugExistsExcluding returns a non-zero count if another category
// already uses the slug.
func (q *Queries) CategorySlugExistsExcluding(ctx context.Context, arg CategorySlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE slug = ? AND id != ?", arg.Slug, arg.ID).Scan(&count)
	return count, err
}

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
	Name        string
	Slug        string
	Description string
}

// CreateCategory inserts a new category and returns it.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		arg.Name, arg.Slug, arg.Description, now, now)
	if err != nil {
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// UpdateCategoryParams holds the full row state for UpdateCategory.
type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
}

// UpdateCategory writes the full category row and returns it.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, slug = ?, description = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.Slug, arg.Description, time.Now(), arg.ID)
	if err != nil {
		return model.Category{}, err
	}
	return q.GetCategoryByID(ctx, arg.ID)
}

// DeleteCategory removes a category. Callers must check CountPostsForCategory
// first; the RESTRICT foreign key is the backstop.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	return err
}

// CountPostsForCategory returns how many posts reference the category.
func (q *Queries) CountPostsForCategory(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE category_id = ?", id).Scan(&count)
	return count, err
}

// GetCategoriesByIDs returns categories for a batch of IDs keyed by ID.
func (q *Queries) GetCategoriesByIDs(ctx context.Context, ids []int64) (map[int64]model.Category, error) {
	result := make(map[int64]model.Category)
	if len(ids) == 0 {
		return result, nil
	}

	query, args := inClause("SELECT id, name, slug, description, created_at, updated_at FROM categories WHERE id IN", ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result[c.ID] = c
	}
	return result, rows.Err()
}

// ============================================================================
// Tags
// ============================================================================

// ListTags returns all tags with post counts, name-ordered.
func (q *Queries) ListTags(ctx context.Context) ([]TagWithCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.slug, t.created_at, t.updated_at,
			(SELECT COUNT(*) FROM post_tags pt WHERE pt.tag_id = t.id) AS post_count
		 FROM tags t ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []TagWithCount
	for rows.Next() {
		var t TagWithCount
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt, &t.PostCount); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagByID looks up a tag by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetTagByID(ctx context.Context, id int64) (model.Tag, error) {
	var t model.Tag
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, slug, created_at, updated_at FROM tags WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// TagSlugExists returns a non-zero count if the slug is taken.
func (q *Queries) TagSlugExists(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tags WHERE slug = ?", slug).Scan(&count)
	return count, err
}

// TagSlugExistsExcludingParams holds the fields for TagSlugExistsExcluding.
type TagSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// TagSlugExistsExcluding returns a non-zero count if another tag already
// uses the slug.
func (q *Queries) TagSlugExistsExcluding(ctx context.Context, arg TagSlugExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tags WHERE slug = ? AND id != ?", arg.Slug, arg.ID).Scan(&count)
	return count, err
}

// CreateTagParams holds the fields for CreateTag.
type CreateTagParams struct {
	Name string
	Slug string
}

// CreateTag inserts a new tag and returns it.
func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (model.Tag, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO tags (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
		arg.Name, arg.Slug, now, now)
	if err != nil {
		return model.Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}
	return q.GetTagByID(ctx, id)
}

// UpdateTagParams holds the full row state for UpdateTag.
type UpdateTagParams struct {
	ID   int64
	Name string
	Slug string
}

// UpdateTag writes the full tag row and returns it.
func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (model.Tag, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, slug = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.Slug, time.Now(), arg.ID)
	if err != nil {
		return model.Tag{}, err
	}
	return q.GetTagByID(ctx, arg.ID)
}

// DeleteTag removes a tag. Callers must check CountPostsForTag first.
func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	return err
}

// CountPostsForTag returns how many posts reference the tag.
func (q *Queries) CountPostsForTag(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM post_tags WHERE tag_id = ?", id).Scan(&count)
	return count, err
}

// GetTagsByIDs returns tags for a batch of IDs keyed by ID.
func (q *Queries) GetTagsByIDs(ctx context.Context, ids []int64) (map[int64]model.Tag, error) {
	result := make(map[int64]model.Tag)
	if len(ids) == 0 {
		return result, nil
	}

	query, args := inClause("SELECT id, name, slug, created_at, updated_at FROM tags WHERE id IN", ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result[t.ID] = t
	}
	return result, rows.Err()
}

// ============================================================================
// Authors
// ============================================================================

// ListAuthors returns all authors with post counts, name-ordered.
func (q *Queries) ListAuthors(ctx context.Context) ([]AuthorWithCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT a.id, a.name, a.email, a.avatar, a.bio, a.created_at, a.updated_at,
			(SELECT COUNT(*) FROM posts p WHERE p.author_id = a.id) AS post_count
		 FROM authors a ORDER BY a.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []AuthorWithCount
	for rows.Next() {
		var a AuthorWithCount
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Avatar, &a.Bio, &a.CreatedAt, &a.UpdatedAt, &a.PostCount); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// GetAuthorByID looks up an author by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetAuthorByID(ctx context.Context, id int64) (model.Author, error) {
	var a model.Author
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, email, avatar, bio, created_at, updated_at FROM authors WHERE id = ?", id).
		Scan(&a.ID, &a.Name, &a.Email, &a.Avatar, &a.Bio, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// AuthorEmailExists returns a non-zero count if an author with the email exists.
func (q *Queries) AuthorEmailExists(ctx context.Context, email string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM authors WHERE email = ?", email).Scan(&count)
	return count, err
}

// AuthorEmailExistsExcludingParams holds the fields for AuthorEmailExistsExcluding.
type AuthorEmailExistsExcludingParams struct {
	Email string
	ID    int64
}

// AuthorEmailExistsExcluding returns a non-zero count if another author
// already uses the email.
func (q *Queries) AuthorEmailExistsExcluding(ctx context.Context, arg AuthorEmailExistsExcludingParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM authors WHERE email = ? AND id != ?", arg.Email, arg.ID).Scan(&count)
	return count, err
}

// CreateAuthorParams holds the fields for CreateAuthor.
type CreateAuthorParams struct {
	Name   string
	Email  string
	Avatar string
	Bio    string
}

// CreateAuthor inserts a new author and returns it.
func (q *Queries) CreateAuthor(ctx context.Context, arg CreateAuthorParams) (model.Author, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO authors (name, email, avatar, bio, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		arg.Name, arg.Email, arg.Avatar, arg.Bio, now, now)
	if err != nil {
		return model.Author{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Author{}, err
	}
	return q.GetAuthorByID(ctx, id)
}

// UpdateAuthorParams holds the full row state for UpdateAuthor.
type UpdateAuthorParams struct {
	ID     int64
	Name   string
	Email  string
	Avatar string
	Bio    string
}

// UpdateAuthor writes the full author row and returns it.
func (q *Queries) UpdateAuthor(ctx context.Context, arg UpdateAuthorParams) (model.Author, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE authors SET name = ?, email = ?, avatar = ?, bio = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.Email, arg.Avatar, arg.Bio, time.Now(), arg.ID)
	if err != nil {
		return model.Author{}, err
	}
	return q.GetAuthorByID(ctx, arg.ID)
}

// DeleteAuthor removes an author. Callers must check CountPostsForAuthor first.
func (q *Queries) DeleteAuthor(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM authors WHERE id = ?", id)
	return err
}

// CountPostsForAuthor returns how many posts reference the author.
func (q *Queries) CountPostsForAuthor(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE author_id = ?", id).Scan(&count)
	return count, err
}

// GetAuthorsByIDs returns authors for a batch of IDs keyed by ID.
func (q *Queries) GetAuthorsByIDs(ctx context.Context, ids []int64) (map[int64]model.Author, error) {
	result := make(map[int64]model.Author)
	if len(ids) == 0 {
		return result, nil
	}

	query, args := inClause("SELECT id, name, email, avatar, bio, created_at, updated_at FROM authors WHERE id IN", ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Avatar, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result[a.ID] = a
	}
	return result, rows.Err()
}

// inClause expands a batch of IDs into "prefix (?,?,...)" with args.
func inClause(prefix string, ids []int64) (string, []any) {
	placeholders := make([]byte, 0, len(ids)*2)
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = id
	}
	return prefix + " (" + string(placeholders) + ")", args
}
