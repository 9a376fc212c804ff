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

// ContactRequest is the public contact form submission body.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateMessage handles POST /api/contact. This is the only unauthenticated
// write endpoint, so input is validated strictly.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ContactRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = util.NormalizeEmail(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	validationErrors := make(map[string]string)
	if req.Name == "" {
		validationErrors["name"] = "Name is required"
	}
	if req.Email == "" || !util.IsValidEmail(req.Email) {
		validationErrors["email"] = "A valid email is required"
	}
	if req.Message == "" {
		validationErrors["message"] = "Message is required"
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	message, err := h.queries.CreateMessage(ctx, store.CreateMessageParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   strings.TrimSpace(req.Phone),
		Message: req.Message,
	})
	if err != nil {
		slog.Error("creating contact message", "error", err)
		WriteInternalError(w, "Failed to submit message")
		return
	}

	slog.Info("contact message received", "message_id", message.ID, "email", message.Email)
	WriteCreated(w, message)
}

// ListMessages handles GET /api/contact. Supports an optional status
// filter plus pagination.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := store.MessageFilter{
		Page:  parsePageParam(r),
		Limit: parseLimitParam(r, store.DefaultMessagePageSize, 100),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		status = strings.ToUpper(status)
		if !model.IsValidMessageStatus(status) {
			WriteValidationError(w, map[string]string{"status": "Unknown message status"})
			return
		}
		filter.Status = status
	}
	filter.Normalize()

	messages, err := h.queries.ListMessages(ctx, filter)
	if err != nil {
		slog.Error("listing messages", "error", err)
		WriteInternalError(w, "Failed to list messages")
		return
	}
	total, err := h.queries.CountMessages(ctx, filter)
	if err != nil {
		WriteInternalError(w, "Failed to list messages")
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}

	WriteSuccess(w, messages, newMeta(total, filter.Page, filter.Limit))
}

// GetMessage handles GET /api/contact/{id}.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	message, ok := requireEntityByID(w, r, "message", func(id int64) (model.Message, error) {
		return h.queries.GetMessageByID(ctx, id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, message, nil)
}

// UpdateMessageRequest is the admin triage body for a contact message.
type UpdateMessageRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// UpdateMessage handles PUT /api/contact/{id}. Only status and notes
// may change; the visitor's submission itself is immutable.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "message", func(id int64) (model.Message, error) {
		return h.queries.GetMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateMessageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdateMessageParams{
		ID:     existing.ID,
		Status: existing.Status,
		Notes:  existing.Notes,
	}
	if req.Status != "" {
		status := strings.ToUpper(req.Status)
		if !model.IsValidMessageStatus(status) {
			WriteValidationError(w, map[string]string{"status": "Unknown message status"})
			return
		}
		params.Status = status
	}
	if req.Notes != nil {
		params.Notes = *req.Notes
	}

	message, err := h.queries.UpdateMessage(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to update message")
		return
	}
	WriteSuccess(w, message, nil)
}

// DeleteMessage handles DELETE /api/contact/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	message, ok := requireEntityByID(w, r, "message", func(id int64) (model.Message, error) {
		return h.queries.GetMessageByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteMessage(ctx, message.ID); err != nil {
		WriteInternalError(w, "Failed to delete message")
		return
	}

	slog.Info("contact message deleted", "message_id", message.ID)
	WriteSuccess(w, map[string]bool{"success": true}, nil)
}
