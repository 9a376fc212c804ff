// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Post represents a blog post.
type Post struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Excerpt     string       `json:"excerpt"`
	Content     string       `json:"content"`
	CoverImage  string       `json:"cover_image"`
	Featured    bool         `json:"featured"`
	Published   bool         `json:"published"`
	PublishedAt sql.NullTime `json:"-"`
	ReadTime    string       `json:"read_time"`
	Views       int64        `json:"views"`
	AuthorID    int64        `json:"author_id"`
	CategoryID  int64        `json:"category_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsPublished returns true if the post is visible to anonymous visitors.
func (p *Post) IsPublished() bool {
	return p.Published
}

// PostView is a post joined with its author, category and tags for API
// responses. PublishedAt is a pointer so drafts serialize as null.
type PostView struct {
	Post
	PublishedAt *time.Time `json:"published_at"`
	Author      *Author    `json:"author,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Tags        []Tag      `json:"tags"`
}

// NewPostView builds a PostView from a bare post.
func NewPostView(p Post) PostView {
	v := PostView{Post: p, Tags: []Tag{}}
	if p.PublishedAt.Valid {
		t := p.PublishedAt.Time
		v.PublishedAt = &t
	}
	return v
}
