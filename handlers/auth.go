// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ifjora/ifjora/auth"
	"github.com/ifjora/ifjora/middleware"
	"github.com/ifjora/ifjora/models"
	"github.com/ifjora/ifjora/store"
)

const msgBadCredentials = "Invalid email or password"

type AuthHandler struct {
	store  *store.Store
	tokens *auth.TokenIssuer
}

func NewAuthHandler(db *sql.DB, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{store: store.New(db), tokens: tokens}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if err := auth.ValidateEmail(email); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := h.store.CreateUser(r.Context(), email, hash, false)
	if errors.Is(err, store.ErrEmailTaken) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", user.ID)

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err != nil {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		slog.Error("stored password hash unusable", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if !ok {
		slog.Info("login failed", "user_id", user.ID, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

// GetMe handles GET /api/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Empty strings count as "leave unchanged"
	var email, hash *string
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		normalized := auth.NormalizeEmail(*req.Email)
		if err := auth.ValidateEmail(normalized); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		email = &normalized
	}
	if req.Password != nil && *req.Password != "" {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		hash = &hashed
	}
	if email == nil && hash == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Provide email or password to update")
		return
	}

	user, err := h.store.UpdateUser(r.Context(), claims.UserID, email, hash)
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "Email already in use")
		return
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		slog.Error("failed to update user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	slog.Info("profile updated", "user_id", user.ID, "email_changed", email != nil, "password_changed", hash != nil)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		UpdatedAt: user.UpdatedAt,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user models.User) {
	token, expiresAt, err := h.tokens.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	middleware.JSONResponse(w, status, models.AuthResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
