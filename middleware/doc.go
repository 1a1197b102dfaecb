// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/health", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, bytes, duration_ms). The request id comes from chi's RequestID
middleware when the router installs it.

# Authentication

Authenticator verifies "Authorization: Bearer <token>" headers:

	authn := middleware.NewAuthenticator(issuer, store.New(db))
	mux.HandleFunc("GET /api/me", authn.RequireUser(h.GetMe))
	mux.HandleFunc("POST /api/ideas", authn.OptionalUser(h.SubmitIdea))
	mux.HandleFunc("GET /api/admin/users", authn.RequireAdmin(h.ListUsers))

RequireUser answers 401 with "Missing bearer token", "Invalid token" or
"Token expired". OptionalUser lets requests without an Authorization header
through anonymously, but a header that fails verification is still a 401.
RequireAdmin reloads the account on every request: a deleted account is a
401 and an account that is not (or no longer) an admin is a 403, whatever
the token claims. Handlers read the caller with
UserFromContext.

# Rate Limiting

RateLimiter keeps a token bucket per client IP:

	limiter := middleware.NewRateLimiter(1, 10)
	mux.HandleFunc("POST /api/login", limiter.Limit(h.Login))

Rejected requests get 429 with Retry-After: 1. A nil limiter (rps or burst
of 0) allows everything.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization. Preflight requests get 204.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (1MB limit):

	var req models.Credentials
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the client IP (the connection peer):

	ip := middleware.GetClientIP(r)

Used as the rate limiter key. Forwarding headers are never read here, so a
client cannot pick its own key. With TRUST_PROXY the router wraps
everything in chi's RealIP, which rewrites RemoteAddr from the proxy's
headers before GetClientIP sees it.
*/
package middleware
