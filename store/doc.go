// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer for users and ideas.

# Usage

A Store wraps the shared *sql.DB opened by package db:

	s := store.New(conn)
	user, err := s.GetUserByID(ctx, claims.UserID)

Every method takes a context.Context. Queries use $N placeholders and
RETURNING, which both PostgreSQL and SQLite accept, so the same SQL runs on
either driver.

# Users

	CreateUser      - insert a new account (ErrEmailTaken on duplicates)
	GetUserByID     - load by id
	GetUserByEmail  - load by email (callers normalize first)
	UpdateUser      - change email and/or password hash, bumps updated_at
	ListUsers       - all accounts, newest first
	DeleteUser      - remove the account and its ideas in one transaction
	EnsureAdmin     - create the bootstrap admin or promote an existing account

EnsureAdmin leaves the password of an existing account untouched and
reports whether anything changed.

# Ideas

	CreateIdea          - insert an idea with its analysis
	ListIdeasByUser     - the owner's ideas, newest first
	GetIdeaForUser      - one idea, only if the caller owns it
	DeleteIdeaForUser   - delete, only if the caller owns it
	ListIdeas           - every idea with the owner's email (admin)
	DeleteIdea          - delete any idea (admin)

The analysis is stored as JSON text in ideas.analysis together with its
source ("ai" or "simulated") in ideas.analysis_source. A stored analysis
that no longer decodes is returned as an error rather than dropped.

# Errors

	ErrNotFound    - no row, or the row belongs to someone else
	ErrEmailTaken  - unique violation on users.email

Unique violations are recognised from both drivers: *pq.Error code 23505
and *sqlite.Error code SQLITE_CONSTRAINT_UNIQUE.

# Timestamps

created_at and updated_at are written in UTC, truncated to microseconds so
values read back compare equal on PostgreSQL and SQLite.
*/
package store
