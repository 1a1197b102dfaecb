// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ifjora/ifjora/auth"
	"github.com/ifjora/ifjora/cliparse"
	"github.com/ifjora/ifjora/db"
)

// TestJWTSecret signs every token issued in tests
const TestJWTSecret = "test-jwt-secret"

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "correct-horse-battery"

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, removed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(context.Background(), cliparse.DatabaseSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		Host:          "127.0.0.1",
		DatabaseURL:   "file:test.db",
		DatabaseType:  cliparse.DatabaseSQLite,
		JWTSecret:     TestJWTSecret,
		TokenTTL:      time.Hour,
		AITimeout:     time.Second,
		AuthRateRPS:   0,
		AuthRateBurst: 0,
	}
}

// TestIssuer returns a token issuer matching GetTestConfig
func TestIssuer() *auth.TokenIssuer {
	cfg := GetTestConfig()
	return auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
}

// CreateTestUser inserts a user with TestPassword and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, email string, isAdmin bool) int64 {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	var id int64
	err = conn.QueryRow(`
		INSERT INTO users (email, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, email, hash, isAdmin, now, now).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestIdea inserts an idea with a minimal stored analysis and returns its ID
func CreateTestIdea(t *testing.T, conn *sql.DB, userID int64, title string) int64 {
	t.Helper()

	analysisJSON := `{"score":50,"strengths":[],"weaknesses":[],"summary":"test","riskLevel":"moderate","source":"simulated"}`

	var id int64
	err := conn.QueryRow(`
		INSERT INTO ideas (user_id, title, content, analysis, analysis_source, created_at)
		VALUES ($1, $2, $3, $4, 'simulated', $5)
		RETURNING id
	`, userID, title, fmt.Sprintf("Content of %s", title), analysisJSON, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test idea: %v", err)
	}

	return id
}

// IssueTestToken returns a bearer token for the given user
func IssueTestToken(t *testing.T, userID int64, email string, isAdmin bool) string {
	t.Helper()

	token, _, err := TestIssuer().Issue(userID, email, isAdmin)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// BearerHeader builds the Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
