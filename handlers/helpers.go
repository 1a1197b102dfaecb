// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ifjora/ifjora/auth"
	"github.com/ifjora/ifjora/middleware"
)

var errInvalidID = errors.New("invalid id")

// pathID parses the {id} path value as a positive integer
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// currentUser returns the caller's claims. Only valid behind RequireUser
// or RequireAdmin; writes a 401 and returns false otherwise.
func currentUser(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return auth.Claims{}, false
	}
	return claims, true
}
