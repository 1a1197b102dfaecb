// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifjora/ifjora/analysis"
	"github.com/ifjora/ifjora/metrics"
	"github.com/ifjora/ifjora/middleware"
	"github.com/ifjora/ifjora/models"
	"github.com/ifjora/ifjora/store"
	"github.com/ifjora/ifjora/testutil"
)

// failingAnalyzer always errors
type failingAnalyzer struct{ err error }

func (f failingAnalyzer) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	return analysis.Result{}, f.err
}

// recordingAnalyzer returns a fixed result and remembers the last request
type recordingAnalyzer struct {
	last  analysis.Request
	calls int
}

func (r *recordingAnalyzer) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	r.last = req
	r.calls++
	return analysis.Result{
		Score:      72,
		Strengths:  []string{"Good"},
		Weaknesses: []string{"Bad"},
		Summary:    "fixed",
		RiskLevel:  analysis.RiskLow,
		Source:     analysis.SourceAI,
	}, nil
}

func countIdeas(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ideas`).Scan(&n))
	return n
}

func TestSubmitIdea_Authenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	analyzer := &recordingAnalyzer{}
	m := metrics.New()
	handler := NewIdeaHandler(db, analyzer, m)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).OptionalUser(handler.SubmitIdea)

	userID := testutil.CreateTestUser(t, db, "kari@example.com", false)
	token := testutil.IssueTestToken(t, userID, "kari@example.com", false)

	body := models.SubmitIdeaRequest{
		Title:         "  Fjord drones ",
		Content:       "Drone delivery for coastal towns",
		Market:        "Logistics",
		TechService:   "Drones",
		Country:       "NOR",
		FundingTotal:  50000,
		FundingRounds: 1,
		Team:          "Two pilots",
	}
	req := testutil.MakeRequest("POST", "/api/ideas", body, testutil.BearerHeader(token))
	w := httptest.NewRecorder()

	h(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitIdeaResponse
	testutil.AssertJSON(t, w, &resp)
	require.NotNil(t, resp.ID)
	require.NotNil(t, resp.CreatedAt)
	assert.True(t, resp.Saved)
	assert.Equal(t, "Fjord drones", resp.Title)
	assert.Equal(t, 72.0, resp.Analysis.Score)
	assert.Equal(t, analysis.SourceAI, resp.Analysis.Source)

	// Client field names map onto the scoring request
	assert.Equal(t, "Two pilots", analyzer.last.TeamDescription)
	assert.Equal(t, "Drones", analyzer.last.TechService)
	assert.Equal(t, 50000.0, analyzer.last.FundingTotal)

	var stored, source string
	var ownerID int64
	require.NoError(t, db.QueryRow(`SELECT title, analysis_source, user_id FROM ideas WHERE id = $1`, *resp.ID).Scan(&stored, &source, &ownerID))
	assert.Equal(t, "Fjord drones", stored)
	assert.Equal(t, analysis.SourceAI, source)
	assert.Equal(t, userID, ownerID)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `ifjora_idea_analyses_total{source="ai"} 1`)
}

func TestSubmitIdea_Anonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewIdeaHandler(db, analysis.NewService(nil, analysis.NewSimulator()), nil)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).OptionalUser(handler.SubmitIdea)

	req := testutil.MakeRequest("POST", "/api/ideas", models.SubmitIdeaRequest{Title: "Anon", Content: "Just looking"}, nil)
	w := httptest.NewRecorder()

	h(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitIdeaResponse
	testutil.AssertJSON(t, w, &resp)
	assert.False(t, resp.Saved)
	assert.Nil(t, resp.ID)
	assert.Nil(t, resp.CreatedAt)
	assert.Equal(t, analysis.SourceSimulated, resp.Analysis.Source)
	assert.Len(t, resp.Analysis.Strengths, 2)

	assert.Equal(t, 0, countIdeas(t, db))
}

func TestSubmitIdea_FallsBackToSimulator(t *testing.T) {
	db := testutil.SetupTestDB(t)

	aiDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer aiDown.Close()

	svc := analysis.NewService(analysis.NewClient(aiDown.URL, testutil.GetTestConfig().AITimeout), analysis.NewSimulator())
	handler := NewIdeaHandler(db, svc, nil)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).OptionalUser(handler.SubmitIdea)

	userID := testutil.CreateTestUser(t, db, "kari@example.com", false)
	token := testutil.IssueTestToken(t, userID, "kari@example.com", false)

	req := testutil.MakeRequest("POST", "/api/ideas", models.SubmitIdeaRequest{Title: "Fallback", Content: "AI is down"}, testutil.BearerHeader(token))
	w := httptest.NewRecorder()

	h(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SubmitIdeaResponse
	testutil.AssertJSON(t, w, &resp)
	assert.True(t, resp.Saved)
	assert.Equal(t, analysis.SourceSimulated, resp.Analysis.Source)
	require.NotNil(t, resp.Analysis.CombinedScore)
	assert.Equal(t, 1, countIdeas(t, db))
}

func TestSubmitIdea_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	analyzer := &recordingAnalyzer{}
	handler := NewIdeaHandler(db, analyzer, nil)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).OptionalUser(handler.SubmitIdea)

	long := make([]byte, maxTitleLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name        string
		requestBody interface{}
	}{
		{"missing title", models.SubmitIdeaRequest{Content: "c"}},
		{"blank content", models.SubmitIdeaRequest{Title: "t", Content: "   "}},
		{"title too long", models.SubmitIdeaRequest{Title: string(long), Content: "c"}},
		{"negative funding", models.SubmitIdeaRequest{Title: "t", Content: "c", FundingTotal: -1}},
		{"negative rounds", models.SubmitIdeaRequest{Title: "t", Content: "c", FundingRounds: -2}},
		{"rounds beyond column range", map[string]interface{}{"title": "t", "content": "c", "fundingRounds": 3000000000}},
		{"invalid JSON", "invalid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h(w, testutil.MakeRequest("POST", "/api/ideas", tt.requestBody, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}

	assert.Equal(t, 0, analyzer.calls, "invalid input must not reach the analyzer")
}

func TestSubmitIdea_DeletedUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	analyzer := &recordingAnalyzer{}
	handler := NewIdeaHandler(db, analyzer, nil)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).OptionalUser(handler.SubmitIdea)

	token := testutil.IssueTestToken(t, 4242, "gone@example.com", false)
	req := testutil.MakeRequest("POST", "/api/ideas", models.SubmitIdeaRequest{Title: "t", Content: "c"}, testutil.BearerHeader(token))
	w := httptest.NewRecorder()

	h(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
	assert.Equal(t, 0, analyzer.calls)
}

func TestSubmitIdea_InvalidTokenRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewIdeaHandler(db, &recordingAnalyzer{}, nil)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).OptionalUser(handler.SubmitIdea)

	req := testutil.MakeRequest("POST", "/api/ideas", models.SubmitIdeaRequest{Title: "t", Content: "c"}, testutil.BearerHeader("garbage"))
	w := httptest.NewRecorder()

	h(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestSubmitIdea_AnalyzerError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewIdeaHandler(db, failingAnalyzer{err: errors.New("no analyzer")}, nil)

	w := httptest.NewRecorder()
	handler.SubmitIdea(w, testutil.MakeRequest("POST", "/api/ideas", models.SubmitIdeaRequest{Title: "t", Content: "c"}, nil))

	testutil.AssertStatus(t, w, http.StatusBadGateway)
}

func TestListAndGetIdeas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewIdeaHandler(db, &recordingAnalyzer{}, nil)
	authn := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db))

	owner := testutil.CreateTestUser(t, db, "owner@example.com", false)
	other := testutil.CreateTestUser(t, db, "other@example.com", false)
	first := testutil.CreateTestIdea(t, db, owner, "First")
	second := testutil.CreateTestIdea(t, db, owner, "Second")
	foreign := testutil.CreateTestIdea(t, db, other, "Foreign")

	ownerToken := testutil.BearerHeader(testutil.IssueTestToken(t, owner, "owner@example.com", false))

	t.Run("list newest first", func(t *testing.T) {
		w := httptest.NewRecorder()
		authn.RequireUser(handler.ListIdeas)(w, testutil.MakeRequest("GET", "/api/ideas", nil, ownerToken))

		testutil.AssertStatus(t, w, http.StatusOK)

		var ideas []models.Idea
		testutil.AssertJSON(t, w, &ideas)
		require.Len(t, ideas, 2)
		assert.Equal(t, second, ideas[0].ID)
		assert.Equal(t, first, ideas[1].ID)
		require.NotNil(t, ideas[0].Analysis)
		assert.Equal(t, 50.0, ideas[0].Analysis.Score)
	})

	t.Run("list requires token", func(t *testing.T) {
		w := httptest.NewRecorder()
		authn.RequireUser(handler.ListIdeas)(w, testutil.MakeRequest("GET", "/api/ideas", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	getTests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"own idea", fmt.Sprint(first), http.StatusOK},
		{"someone else's idea", fmt.Sprint(foreign), http.StatusNotFound},
		{"missing idea", "9999", http.StatusNotFound},
		{"non-numeric id", "abc", http.StatusBadRequest},
		{"zero id", "0", http.StatusBadRequest},
	}

	for _, tt := range getTests {
		t.Run("get "+tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/ideas/"+tt.id, nil, ownerToken)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			authn.RequireUser(handler.GetIdea)(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var idea models.Idea
				testutil.AssertJSON(t, w, &idea)
				assert.Equal(t, "First", idea.Title)
				assert.Equal(t, owner, idea.UserID)
			}
		})
	}
}

func TestDeleteIdea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewIdeaHandler(db, &recordingAnalyzer{}, nil)
	h := middleware.NewAuthenticator(testutil.TestIssuer(), store.New(db)).RequireUser(handler.DeleteIdea)

	owner := testutil.CreateTestUser(t, db, "owner@example.com", false)
	other := testutil.CreateTestUser(t, db, "other@example.com", false)
	mine := testutil.CreateTestIdea(t, db, owner, "Mine")
	theirs := testutil.CreateTestIdea(t, db, other, "Theirs")

	ownerToken := testutil.BearerHeader(testutil.IssueTestToken(t, owner, "owner@example.com", false))

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"someone else's idea", fmt.Sprint(theirs), http.StatusNotFound},
		{"own idea", fmt.Sprint(mine), http.StatusNoContent},
		{"already deleted", fmt.Sprint(mine), http.StatusNotFound},
		{"bad id", "x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("DELETE", "/api/ideas/"+tt.id, nil, ownerToken)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			h(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	assert.Equal(t, 1, countIdeas(t, db))
}
