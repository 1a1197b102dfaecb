// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP endpoints of the idea-scoring API.

# Handler Types

	AuthHandler   - registration, login and the caller's profile
	IdeaHandler   - idea submission, listing and deletion
	AdminHandler  - user and idea administration

Each handler is built from the shared *sql.DB and owns a store.Store:

	authHandler := handlers.NewAuthHandler(db, issuer)
	ideaHandler := handlers.NewIdeaHandler(db, analyzer, metrics)
	adminHandler := handlers.NewAdminHandler(db)

# Authentication

Handlers do not parse tokens themselves. The router wraps them with
middleware.Authenticator and handlers read the caller through
middleware.UserFromContext. SubmitIdea runs behind OptionalUser, the
profile and idea routes behind RequireUser, the admin routes behind
RequireAdmin.

# Idea Submission

POST /api/ideas validates the input, analyzes it through the configured
analysis.Analyzer (normally an analysis.Service that falls back to the
simulator) and then:

  - authenticated: stores idea and analysis, answers 201 with id and createdAt
  - anonymous: answers 200 with the analysis, stores nothing

An authenticated caller whose account no longer exists gets 404 before any
analysis is requested.

# Error Handling

Errors use middleware.ErrorResponse with a short message. Internal errors
are logged with slog and reported as a generic "Database error" or
"Failed to ..." message. Login failures never reveal whether the email
exists.
*/
package handlers
