// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ifjora/ifjora/middleware"
	"github.com/ifjora/ifjora/store"
)

// AdminHandler serves /api/admin/*. Routes must be wrapped in RequireAdmin.
type AdminHandler struct {
	store *store.Store
}

func NewAdminHandler(db *sql.DB) *AdminHandler {
	return &AdminHandler{store: store.New(db)}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if id == claims.UserID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	err = h.store.DeleteUser(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("user deleted by admin", "user_id", id, "admin_id", claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// ListIdeas handles GET /api/admin/ideas
func (h *AdminHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.store.ListIdeas(r.Context())
	if err != nil {
		slog.Error("failed to list ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ideas)
}

// DeleteIdea handles DELETE /api/admin/ideas/{id}
func (h *AdminHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid idea id")
		return
	}

	err = h.store.DeleteIdea(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Idea not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete idea", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("idea deleted by admin", "idea_id", id, "admin_id", claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}
