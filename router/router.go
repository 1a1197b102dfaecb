// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ifjora/ifjora/analysis"
	"github.com/ifjora/ifjora/auth"
	"github.com/ifjora/ifjora/cliparse"
	"github.com/ifjora/ifjora/handlers"
	"github.com/ifjora/ifjora/metrics"
	"github.com/ifjora/ifjora/middleware"
	"github.com/ifjora/ifjora/models"
	"github.com/ifjora/ifjora/store"
)

const banner = "iFjora API v1"

// NewRouter wires every route. m may be nil to disable metrics.
func NewRouter(db *sql.DB, cfg cliparse.Config, analyzer analysis.Analyzer, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authn := middleware.NewAuthenticator(tokens, store.New(db))
	limiter := middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, tokens)
	ideaHandler := handlers.NewIdeaHandler(db, analyzer, m)
	adminHandler := handlers.NewAdminHandler(db)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, m.Instrument(pattern, middleware.WithLogging(h)))
	}

	// Health check
	handle("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{Status: "ok"})
	})

	// Accounts
	handle("POST /api/register", limiter.Limit(authHandler.Register))
	handle("POST /api/login", limiter.Limit(authHandler.Login))
	handle("GET /api/me", authn.RequireUser(authHandler.GetMe))
	handle("PUT /api/me", authn.RequireUser(authHandler.UpdateMe))

	// Ideas (anonymous submissions are analyzed but not stored)
	handle("POST /api/ideas", authn.OptionalUser(ideaHandler.SubmitIdea))
	handle("GET /api/ideas", authn.RequireUser(ideaHandler.ListIdeas))
	handle("GET /api/ideas/{id}", authn.RequireUser(ideaHandler.GetIdea))
	handle("DELETE /api/ideas/{id}", authn.RequireUser(ideaHandler.DeleteIdea))

	// Administration
	handle("GET /api/admin/users", authn.RequireAdmin(adminHandler.ListUsers))
	handle("DELETE /api/admin/users/{id}", authn.RequireAdmin(adminHandler.DeleteUser))
	handle("GET /api/admin/ideas", authn.RequireAdmin(adminHandler.ListIdeas))
	handle("DELETE /api/admin/ideas/{id}", authn.RequireAdmin(adminHandler.DeleteIdea))

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(banner))
	})

	handler := chimw.RequestID(chimw.Recoverer(middleware.CORS(mux)))
	if cfg.TrustProxy {
		// Only safe when every request passes through a proxy that sets these headers
		handler = chimw.RealIP(handler)
	}
	return handler
}
