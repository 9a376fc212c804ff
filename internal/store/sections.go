// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/entrehub/entrehub-go/internal/model"
)

// Services

const serviceColumns = "id, title, description, icon, included, position, created_at, updated_at"

func scanService(row interface{ Scan(...any) error }) (model.Service, error) {
	var s model.Service
	var included string
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Icon, &included, &s.Position, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Service{}, err
	}
	if err := json.Unmarshal([]byte(included), &s.Included); err != nil {
		s.Included = nil
	}
	if s.Included == nil {
		s.Included = []string{}
	}
	return s, nil
}

func encodeIncluded(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ListServices returns all services ordered by display position.
func (q *Queries) ListServices(ctx context.Context) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+serviceColumns+" FROM services ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetServiceByID looks up a service by ID. Returns sql.ErrNoRows if absent.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (model.Service, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = ?", id)
	return scanService(row)
}

// CreateServiceParams holds the fields for CreateService.
type CreateServiceParams struct {
	Title       string
	Description string
	Icon        string
	Included    []string
	Position    int64
}

// CreateService inserts a new service.
func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (model.Service, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO services (title, description, icon, included, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		arg.Title, arg.Description, arg.Icon, encodeIncluded(arg.Included), arg.Position, now, now)
	if err != nil {
		return model.Service{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Service{}, err
	}
	return q.GetServiceByID(ctx, id)
}

// UpdateServiceParams holds the fields for UpdateService.
type UpdateServiceParams struct {
	ID          int64
	Title       string
	Description string
	Icon        string
	Included    []string
	Position    int64
}

// UpdateService writes all mutable fields of a service and returns it.
func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (model.Service, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE services SET title = ?, description = ?, icon = ?, included = ?, position = ?, updated_at = ? WHERE id = ?",
		arg.Title, arg.Description, arg.Icon, encodeIncluded(arg.Included), arg.Position, time.Now(), arg.ID)
	if err != nil {
		return model.Service{}, err
	}
	return q.GetServiceByID(ctx, arg.ID)
}

// DeleteService removes a service. Returns sql.ErrNoRows if no row matched.
func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "services", id)
}

// Portfolio projects

const portfolioColumns = "id, title, category, description, image, metric, metric_label, position, created_at, updated_at"

func scanPortfolioProject(row interface{ Scan(...any) error }) (model.PortfolioProject, error) {
	var p model.PortfolioProject
	err := row.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &p.Image, &p.Metric, &p.MetricLabel, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListPortfolioProjects returns all portfolio projects ordered by display position.
func (q *Queries) ListPortfolioProjects(ctx context.Context) ([]model.PortfolioProject, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+portfolioColumns+" FROM portfolio_projects ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.PortfolioProject
	for rows.Next() {
		p, err := scanPortfolioProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetPortfolioProjectByID looks up a portfolio project by ID.
func (q *Queries) GetPortfolioProjectByID(ctx context.Context, id int64) (model.PortfolioProject, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+portfolioColumns+" FROM portfolio_projects WHERE id = ?", id)
	return scanPortfolioProject(row)
}

// CreatePortfolioProjectParams holds the fields for CreatePortfolioProject.
type CreatePortfolioProjectParams struct {
	Title       string
	Category    string
	Description string
	Image       string
	Metric      string
	MetricLabel string
	Position    int64
}

// CreatePortfolioProject inserts a new portfolio project.
func (q *Queries) CreatePortfolioProject(ctx context.Context, arg CreatePortfolioProjectParams) (model.PortfolioProject, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO portfolio_projects (title, category, description, image, metric, metric_label, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		arg.Title, arg.Category, arg.Description, arg.Image, arg.Metric, arg.MetricLabel, arg.Position, now, now)
	if err != nil {
		return model.PortfolioProject{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.PortfolioProject{}, err
	}
	return q.GetPortfolioProjectByID(ctx, id)
}

// UpdatePortfolioProjectParams holds the fields for UpdatePortfolioProject.
type UpdatePortfolioProjectParams struct {
	ID          int64
	Title       string
	Category    string
	Description string
	Image       string
	Metric      string
	MetricLabel string
	Position    int64
}

// UpdatePortfolioProject writes all mutable fields of a portfolio project and returns it.
func (q *Queries) UpdatePortfolioProject(ctx context.Context, arg UpdatePortfolioProjectParams) (model.PortfolioProject, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE portfolio_projects SET title = ?, category = ?, description = ?, image = ?, metric = ?, metric_label = ?, position = ?, updated_at = ? WHERE id = ?",
		arg.Title, arg.Category, arg.Description, arg.Image, arg.Metric, arg.MetricLabel, arg.Position, time.Now(), arg.ID)
	if err != nil {
		return model.PortfolioProject{}, err
	}
	return q.GetPortfolioProjectByID(ctx, arg.ID)
}

// DeletePortfolioProject removes a portfolio project.
func (q *Queries) DeletePortfolioProject(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "portfolio_projects", id)
}

// Team members

const teamMemberColumns = "id, name, role, image, position, created_at, updated_at"

func scanTeamMember(row interface{ Scan(...any) error }) (model.TeamMember, error) {
	var m model.TeamMember
	err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Image, &m.Position, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// ListTeamMembers returns all team members ordered by display position.
func (q *Queries) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+teamMemberColumns+" FROM team_members ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetTeamMemberByID looks up a team member by ID.
func (q *Queries) GetTeamMemberByID(ctx context.Context, id int64) (model.TeamMember, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+teamMemberColumns+" FROM team_members WHERE id = ?", id)
	return scanTeamMember(row)
}

// CreateTeamMemberParams holds the fields for CreateTeamMember.
type CreateTeamMemberParams struct {
	Name     string
	Role     string
	Image    string
	Position int64
}

// CreateTeamMember inserts a new team member.
func (q *Queries) CreateTeamMember(ctx context.Context, arg CreateTeamMemberParams) (model.TeamMember, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO team_members (name, role, image, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		arg.Name, arg.Role, arg.Image, arg.Position, now, now)
	if err != nil {
		return model.TeamMember{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TeamMember{}, err
	}
	return q.GetTeamMemberByID(ctx, id)
}

// UpdateTeamMemberParams holds the fields for UpdateTeamMember.
type UpdateTeamMemberParams struct {
	ID       int64
	Name     string
	Role     string
	Image    string
	Position int64
}

// UpdateTeamMember writes all mutable fields of a team member and returns it.
func (q *Queries) UpdateTeamMember(ctx context.Context, arg UpdateTeamMemberParams) (model.TeamMember, error) {
	_, err := q.db.ExecContext(ctx,
		"UPDATE team_members SET name = ?, role = ?, image = ?, position = ?, updated_at = ? WHERE id = ?",
		arg.Name, arg.Role, arg.Image, arg.Position, time.Now(), arg.ID)
	if err != nil {
		return model.TeamMember{}, err
	}
	return q.GetTeamMemberByID(ctx, arg.ID)
}

// DeleteTeamMember removes a team member.
func (q *Queries) DeleteTeamMember(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "team_members", id)
}

// About sections

const aboutSectionColumns = "id, type, title, content, icon, created_at, updated_at"

func scanAboutSection(row interface{ Scan(...any) error }) (model.AboutSection, error) {
	var s model.AboutSection
	err := row.Scan(&s.ID, &s.Type, &s.Title, &s.Content, &s.Icon, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ListAboutSections returns all about page sections ordered by type.
func (q *Queries) ListAboutSections(ctx context.Context) ([]model.AboutSection, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+aboutSectionColumns+" FROM about_sections ORDER BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.AboutSection
	for rows.Next() {
		s, err := scanAboutSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// GetAboutSectionByType looks up an about section by its unique type.
func (q *Queries) GetAboutSectionByType(ctx context.Context, sectionType string) (model.AboutSection, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+aboutSectionColumns+" FROM about_sections WHERE type = ?", sectionType)
	return scanAboutSection(row)
}

// UpsertAboutSectionParams holds the fields for UpsertAboutSection.
type UpsertAboutSectionParams struct {
	Type    string
	Title   string
	Content string
	Icon    string
}

// UpsertAboutSection inserts or replaces the about section for a type and
// returns the stored row.
func (q *Queries) UpsertAboutSection(ctx context.Context, arg UpsertAboutSectionParams) (model.AboutSection, error) {
	now := time.Now()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO about_sections (type, title, content, icon, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(type) DO UPDATE SET title = excluded.title, content = excluded.content, icon = excluded.icon, updated_at = excluded.updated_at`,
		arg.Type, arg.Title, arg.Content, arg.Icon, now, now)
	if err != nil {
		return model.AboutSection{}, err
	}
	return q.GetAboutSectionByType(ctx, arg.Type)
}

// deleteByID removes a row by primary key from one of the section tables.
// Returns sql.ErrNoRows if no row matched.
func (q *Queries) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
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
