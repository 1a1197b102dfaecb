// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ifjora/ifjora/auth"
	"github.com/ifjora/ifjora/models"
	"github.com/ifjora/ifjora/store"
)

type contextKey struct{}

var userKey = contextKey{}

// TokenParser verifies bearer tokens. *auth.TokenIssuer implements it.
type TokenParser interface {
	Parse(raw string) (auth.Claims, error)
}

// UserLookup loads the current account state. *store.Store implements it.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// Authenticator turns bearer tokens into request-scoped user claims
type Authenticator struct {
	tokens TokenParser
	users  UserLookup
}

func NewAuthenticator(tokens TokenParser, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// UserFromContext returns the claims stored by RequireUser or OptionalUser
func UserFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(userKey).(auth.Claims)
	return claims, ok
}

// WithUser stores claims in ctx
func WithUser(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, userKey, claims)
}

// RequireUser rejects requests without a valid bearer token
func (a *Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Missing bearer token")
			return
		}

		claims, ok := a.verify(w, raw)
		if !ok {
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), claims)))
	}
}

// OptionalUser lets anonymous requests through. A token that is sent but
// does not verify is still rejected.
func (a *Authenticator) OptionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next(w, r)
			return
		}

		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Missing bearer token")
			return
		}

		claims, ok := a.verify(w, raw)
		if !ok {
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), claims)))
	}
}

// RequireAdmin is RequireUser plus a check that the account still exists
// and is still an admin. The token's admin claim alone is not trusted.
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := UserFromContext(r.Context())
		if !claims.IsAdmin || a.users == nil {
			ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}

		user, err := a.users.GetUserByID(r.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w, "User no longer exists")
			return
		}
		if err != nil {
			slog.Error("failed to load admin", "error", err, "user_id", claims.UserID)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !user.IsAdmin {
			ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}

		claims.Email = user.Email
		next(w, r.WithContext(WithUser(r.Context(), claims)))
	})
}

func (a *Authenticator) verify(w http.ResponseWriter, raw string) (auth.Claims, bool) {
	claims, err := a.tokens.Parse(raw)
	switch {
	case err == nil:
		return claims, true
	case errors.Is(err, auth.ErrExpiredToken):
		unauthorized(w, "Token expired")
	default:
		unauthorized(w, "Invalid token")
	}
	return auth.Claims{}, false
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="ifjora"`)
	ErrorResponse(w, http.StatusUnauthorized, message)
}
