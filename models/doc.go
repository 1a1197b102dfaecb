// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the web client.

# Request Types

Types for parsing incoming JSON:

  - Credentials: email, password (register and login)
  - UpdateProfileRequest: optional email, optional password
  - SubmitIdeaRequest: title, content and optional market metadata

# Response Types

Types for JSON responses:

  - AuthResponse: id, email, isAdmin, token, expiresAt
  - UpdateProfileResponse: id, email, updatedAt and a fresh token
  - SubmitIdeaResponse: the analysis plus id/createdAt when saved
  - HealthResponse: status
  - ErrorResponse: error, message

# Domain Types

  - User: account row; PasswordHash is never serialized
  - Idea: a saved idea with its stored analysis
  - AdminIdea: Idea plus the owner's email
*/
package models
