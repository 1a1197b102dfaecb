// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and applies schema migrations.

# Connections

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite, pure Go).
SQLite DSNs get foreign_keys and busy_timeout pragmas appended, and the
pool is limited to one connection.

# Migrations

	if err := db.Migrate(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Migrations are embedded SQL files run by goose, one directory per dialect
(migrations/postgres, migrations/sqlite). Safe to call on every start.

# Tables

  - users: accounts, unique email, argon2 hash, admin flag
  - ideas: submitted ideas with their metadata and the analysis as JSON

# Relationships

	users 1──* ideas

ideas.user_id uses ON DELETE CASCADE.
*/
package db
