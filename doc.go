// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the iFjora API server.

iFjora lets users submit startup ideas and get them scored. Scoring is done
by an external AI service; when that service is missing or fails, a local
simulator produces a deterministic stand-in analysis.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:ifjora.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3000 -d "postgres://..." --ai-url http://localhost:8001

A .env file in the working directory is loaded when present; real
environment variables and flags take precedence over it.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite DSN
  - JWT_SECRET (--jwt-secret): token signing secret

Optional settings:

  - PORT (-p), HOST (--host): listen address (default 0.0.0.0:3000)
  - DATABASE_TYPE (-t): postgres or sqlite (inferred from the URL)
  - TOKEN_TTL (--token-ttl): token lifetime (default 168h)
  - AI_SERVICE_URL (--ai-url), AI_TIMEOUT (--ai-timeout): scoring service
  - ADMIN_EMAIL, ADMIN_PASSWORD: bootstrap admin account
  - AUTH_RATE_LIMIT_RPS, AUTH_RATE_LIMIT_BURST: login/register throttling

# Architecture

  - handlers: HTTP request handlers (auth, ideas, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: authentication, rate limiting, CORS, logging, JSON helpers
  - analysis: AI client, simulator and fallback service
  - store: SQL persistence for users and ideas
  - models: Request/response types
  - auth: Password hashing and signed tokens
  - db: Connections and embedded migrations
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
