// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/ifjora/ifjora/cliparse"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate runs all pending migrations for the given database type.
// Safe to call multiple times - goose tracks applied versions.
func Migrate(conn *sql.DB, dbType string) error {
	dialect, dir, err := migrationTarget(dbType)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(conn, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Version returns the current migration version
func Version(conn *sql.DB, dbType string) (int64, error) {
	dialect, _, err := migrationTarget(dbType)
	if err != nil {
		return 0, err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}

	return goose.GetDBVersion(conn)
}

func migrationTarget(dbType string) (dialect, dir string, err error) {
	switch dbType {
	case cliparse.DatabasePostgres:
		return "postgres", "migrations/postgres", nil
	case cliparse.DatabaseSQLite:
		return "sqlite", "migrations/sqlite", nil
	}
	return "", "", fmt.Errorf("unsupported database type %q", dbType)
}

// gooseLogger routes goose output through slog
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
	os.Exit(1)
}
