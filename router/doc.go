// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the iFjora API.

# Route Registration

NewRouter returns the complete handler with all endpoints:

	handler := router.NewRouter(db, cfg, analyzer, metrics)

With TRUST_PROXY set, chi's RealIP runs first so RemoteAddr carries the
client address from the proxy headers. The ServeMux is wrapped, outermost
first, in chi's RequestID and Recoverer middleware and then CORS. Every route is wrapped in metrics instrumentation
(labelled with the route pattern) and middleware.WithLogging.

# Endpoints

Public:

	GET  /               - Banner
	GET  /api/health     - {"status":"ok"}
	GET  /metrics        - Prometheus metrics (when enabled)
	POST /api/register   - Create account (rate limited)
	POST /api/login      - Log in (rate limited)

Optional authentication:

	POST /api/ideas      - Analyze an idea; saved only for logged-in users

Requires a bearer token:

	GET    /api/me          - Current profile
	PUT    /api/me          - Change email and/or password
	GET    /api/ideas       - Caller's ideas, newest first
	GET    /api/ideas/{id}  - One of the caller's ideas
	DELETE /api/ideas/{id}  - Delete one of the caller's ideas

Requires an admin token whose account is still an admin in the database:

	GET    /api/admin/users       - All users
	DELETE /api/admin/users/{id}  - Delete user and their ideas
	GET    /api/admin/ideas       - All ideas with owner email
	DELETE /api/admin/ideas/{id}  - Delete any idea
*/
package router
