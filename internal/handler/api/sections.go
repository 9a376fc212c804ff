// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/entrehub/entrehub-go/internal/model"
	"github.com/entrehub/entrehub-go/internal/store"
)

// Services

// ServiceRequest is the request body for creating or updating a service.
// Pointer fields distinguish "absent" from "zero" on partial updates.
type ServiceRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Included    *[]string `json:"included"`
	Position    *int64    `json:"position"`
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.queries.ListServices(r.Context())
	if err != nil {
		slog.Error("listing services", "error", err)
		WriteInternalError(w, "Failed to list services")
		return
	}
	if services == nil {
		services = []model.Service{}
	}
	WriteSuccess(w, services, nil)
}

// CreateService handles POST /api/services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ServiceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}

	params := store.CreateServiceParams{Title: strings.TrimSpace(*req.Title)}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Icon != nil {
		params.Icon = *req.Icon
	}
	if req.Included != nil {
		params.Included = *req.Included
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	service, err := h.queries.CreateService(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create service")
		return
	}

	slog.Info("service created", "service_id", service.ID, "title", service.Title)
	WriteCreated(w, service)
}

// UpdateService handles PUT /api/services/{id}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "service", func(id int64) (model.Service, error) {
		return h.queries.GetServiceByID(ctx, id)
	})
	if !ok {
		return
	}

	var req ServiceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdateServiceParams{
		ID:          existing.ID,
		Title:       existing.Title,
		Description: existing.Description,
		Icon:        existing.Icon,
		Included:    existing.Included,
		Position:    existing.Position,
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			WriteValidationError(w, map[string]string{"title": "Title cannot be empty"})
			return
		}
		params.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Icon != nil {
		params.Icon = *req.Icon
	}
	if req.Included != nil {
		params.Included = *req.Included
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	service, err := h.queries.UpdateService(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update service")
		return
	}
	WriteSuccess(w, service, nil)
}

// DeleteService handles DELETE /api/services/{id}.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	service, ok := requireEntityByID(w, r, "service", func(id int64) (model.Service, error) {
		return h.queries.GetServiceByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteService(ctx, service.ID); err != nil {
		WriteInternalError(w, "Failed to delete service")
		return
	}
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// Portfolio projects

// PortfolioProjectRequest is the request body for creating or updating a
// portfolio project.
type PortfolioProjectRequest struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Metric      *string `json:"metric"`
	MetricLabel *string `json:"metric_label"`
	Position    *int64  `json:"position"`
}

// ListPortfolioProjects handles GET /api/portfolio.
func (h *Handler) ListPortfolioProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListPortfolioProjects(r.Context())
	if err != nil {
		slog.Error("listing portfolio projects", "error", err)
		WriteInternalError(w, "Failed to list portfolio projects")
		return
	}
	if projects == nil {
		projects = []model.PortfolioProject{}
	}
	WriteSuccess(w, projects, nil)
}

// CreatePortfolioProject handles POST /api/portfolio.
func (h *Handler) CreatePortfolioProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PortfolioProjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}

	params := store.CreatePortfolioProjectParams{Title: strings.TrimSpace(*req.Title)}
	if req.Category != nil {
		params.Category = *req.Category
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Metric != nil {
		params.Metric = *req.Metric
	}
	if req.MetricLabel != nil {
		params.MetricLabel = *req.MetricLabel
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	project, err := h.queries.CreatePortfolioProject(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create portfolio project")
		return
	}

	slog.Info("portfolio project created", "project_id", project.ID, "title", project.Title)
	WriteCreated(w, project)
}

// UpdatePortfolioProject handles PUT /api/portfolio/{id}.
func (h *Handler) UpdatePortfolioProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "portfolio project", func(id int64) (model.PortfolioProject, error) {
		return h.queries.GetPortfolioProjectByID(ctx, id)
	})
	if !ok {
		return
	}

	var req PortfolioProjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdatePortfolioProjectParams{
		ID:          existing.ID,
		Title:       existing.Title,
		Category:    existing.Category,
		Description: existing.Description,
		Image:       existing.Image,
		Metric:      existing.Metric,
		MetricLabel: existing.MetricLabel,
		Position:    existing.Position,
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			WriteValidationError(w, map[string]string{"title": "Title cannot be empty"})
			return
		}
		params.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		params.Category = *req.Category
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Metric != nil {
		params.Metric = *req.Metric
	}
	if req.MetricLabel != nil {
		params.MetricLabel = *req.MetricLabel
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	project, err := h.queries.UpdatePortfolioProject(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update portfolio project")
		return
	}
	WriteSuccess(w, project, nil)
}

// DeletePortfolioProject handles DELETE /api/portfolio/{id}.
func (h *Handler) DeletePortfolioProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	project, ok := requireEntityByID(w, r, "portfolio project", func(id int64) (model.PortfolioProject, error) {
		return h.queries.GetPortfolioProjectByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeletePortfolioProject(ctx, project.ID); err != nil {
		WriteInternalError(w, "Failed to delete portfolio project")
		return
	}
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// Team members

// TeamMemberRequest is the request body for creating or updating a team
// member.
type TeamMemberRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Image    *string `json:"image"`
	Position *int64  `json:"position"`
}

// ListTeamMembers handles GET /api/team.
func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.queries.ListTeamMembers(r.Context())
	if err != nil {
		slog.Error("listing team members", "error", err)
		WriteInternalError(w, "Failed to list team members")
		return
	}
	if members == nil {
		members = []model.TeamMember{}
	}
	WriteSuccess(w, members, nil)
}

// CreateTeamMember handles POST /api/team.
func (h *Handler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TeamMemberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	params := store.CreateTeamMemberParams{Name: strings.TrimSpace(*req.Name)}
	if req.Role != nil {
		params.Role = *req.Role
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	member, err := h.queries.CreateTeamMember(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to create team member")
		return
	}

	slog.Info("team member created", "member_id", member.ID, "name", member.Name)
	WriteCreated(w, member)
}

// UpdateTeamMember handles PUT /api/team/{id}.
func (h *Handler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "team member", func(id int64) (model.TeamMember, error) {
		return h.queries.GetTeamMemberByID(ctx, id)
	})
	if !ok {
		return
	}

	var req TeamMemberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdateTeamMemberParams{
		ID:       existing.ID,
		Name:     existing.Name,
		Role:     existing.Role,
		Image:    existing.Image,
		Position: existing.Position,
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			WriteValidationError(w, map[string]string{"name": "Name cannot be empty"})
			return
		}
		params.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		params.Role = *req.Role
	}
	if req.Image != nil {
		params.Image = *req.Image
	}
	if req.Position != nil {
		params.Position = *req.Position
	}

	member, err := h.queries.UpdateTeamMember(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update team member")
		return
	}
	WriteSuccess(w, member, nil)
}

// DeleteTeamMember handles DELETE /api/team/{id}.
func (h *Handler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	member, ok := requireEntityByID(w, r, "team member", func(id int64) (model.TeamMember, error) {
		return h.queries.GetTeamMemberByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteTeamMember(ctx, member.ID); err != nil {
		WriteInternalError(w, "Failed to delete team member")
		return
	}
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}

// About sections

// AboutSectionRequest is the request body for upserting an about section.
type AboutSectionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon"`
}

// ListAboutSections handles GET /api/about.
func (h *Handler) ListAboutSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.queries.ListAboutSections(r.Context())
	if err != nil {
		slog.Error("listing about sections", "error", err)
		WriteInternalError(w, "Failed to list about sections")
		return
	}
	if sections == nil {
		sections = []model.AboutSection{}
	}
	WriteSuccess(w, sections, nil)
}

// UpsertAboutSection handles PUT /api/about/{type}. Sections are keyed by
// type, so writing an unknown type creates it.
func (h *Handler) UpsertAboutSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sectionType := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "type")))
	if sectionType == "" {
		WriteValidationError(w, map[string]string{"type": "Section type is required"})
		return
	}

	var req AboutSectionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}

	section, err := h.queries.UpsertAboutSection(ctx, store.UpsertAboutSectionParams{
		Type:    sectionType,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Icon:    req.Icon,
	})
	if err != nil {
		WriteInternalError(w, "Failed to save about section")
		return
	}

	slog.Info("about section saved", "type", section.Type)
	WriteSuccess(w, section, nil)
}
