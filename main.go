// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ifjora/ifjora/analysis"
	"github.com/ifjora/ifjora/auth"
	"github.com/ifjora/ifjora/cliparse"
	"github.com/ifjora/ifjora/db"
	"github.com/ifjora/ifjora/metrics"
	"github.com/ifjora/ifjora/router"
	"github.com/ifjora/ifjora/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.Migrate(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	if cfg.AdminEmail != "" {
		if err := bootstrapAdmin(ctx, store.New(dbConn), cfg); err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	analyzer := buildAnalyzer(ctx, cfg)

	server := &http.Server{
		Handler:           router.NewRouter(dbConn, cfg, analyzer, metrics.New()),
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "addr", cfg.Addr())
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

// bootstrapAdmin creates or promotes the configured admin account
func bootstrapAdmin(ctx context.Context, s *store.Store, cfg cliparse.Config) error {
	if err := auth.ValidateEmail(cfg.AdminEmail); err != nil {
		return err
	}
	if err := auth.ValidatePassword(cfg.AdminPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin, changed, err := s.EnsureAdmin(ctx, cfg.AdminEmail, hash)
	if err != nil {
		return err
	}
	if changed {
		slog.Info("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}
	return nil
}

// buildAnalyzer returns the AI client backed by the simulator, or the
// simulator alone when no AI service is configured.
func buildAnalyzer(ctx context.Context, cfg cliparse.Config) analysis.Analyzer {
	if cfg.AIServiceURL == "" {
		slog.Warn("AI_SERVICE_URL not set, ideas are scored by the simulator")
		return analysis.NewService(nil, analysis.NewSimulator())
	}

	client := analysis.NewClient(cfg.AIServiceURL, cfg.AITimeout)
	if err := client.Health(ctx); err != nil {
		slog.Warn("AI service not reachable, will fall back to the simulator per request", "url", cfg.AIServiceURL, "error", err)
	} else {
		slog.Info("AI service reachable", "url", cfg.AIServiceURL)
	}

	return analysis.NewService(client, analysis.NewSimulator())
}
