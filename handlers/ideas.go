// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/ifjora/ifjora/analysis"
	"github.com/ifjora/ifjora/metrics"
	"github.com/ifjora/ifjora/middleware"
	"github.com/ifjora/ifjora/models"
	"github.com/ifjora/ifjora/store"
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000
	// funding_rounds is a 32-bit INTEGER column on Postgres
	maxFundingRounds = math.MaxInt32
)

type IdeaHandler struct {
	store    *store.Store
	analyzer analysis.Analyzer
	metrics  *metrics.Metrics
}

// NewIdeaHandler builds the handler. m may be nil.
func NewIdeaHandler(db *sql.DB, analyzer analysis.Analyzer, m *metrics.Metrics) *IdeaHandler {
	return &IdeaHandler{store: store.New(db), analyzer: analyzer, metrics: m}
}

// SubmitIdea handles POST /api/ideas. Anonymous callers get the analysis
// back without anything being stored.
func (h *IdeaHandler) SubmitIdea(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitIdeaRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)

	// Validate input
	if req.Title == "" || req.Content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if len([]rune(req.Title)) > maxTitleLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is too long")
		return
	}
	if len([]rune(req.Content)) > maxContentLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is too long")
		return
	}
	if req.FundingTotal < 0 || req.FundingRounds < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "funding values must not be negative")
		return
	}
	if req.FundingRounds > maxFundingRounds {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fundingRounds is too large")
		return
	}

	claims, authenticated := middleware.UserFromContext(r.Context())

	// A token for a deleted account must not burn an analysis call
	if authenticated {
		if _, err := h.store.GetUserByID(r.Context(), claims.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
				return
			}
			slog.Error("failed to load user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	result, err := h.analyzer.Analyze(r.Context(), analysisRequest(req))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("idea analysis abandoned by client")
			return
		}
		slog.Error("idea analysis failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Analysis failed")
		return
	}
	h.metrics.ObserveAnalysis(result.Source)

	if !authenticated {
		middleware.JSONResponse(w, http.StatusOK, models.SubmitIdeaResponse{
			Title:    req.Title,
			Content:  req.Content,
			Analysis: result,
			Saved:    false,
		})
		return
	}

	idea, err := h.store.CreateIdea(r.Context(), models.Idea{
		UserID:        claims.UserID,
		Title:         req.Title,
		Content:       req.Content,
		Market:        strings.TrimSpace(req.Market),
		TechService:   strings.TrimSpace(req.TechService),
		Country:       strings.TrimSpace(req.Country),
		Region:        strings.TrimSpace(req.Region),
		City:          strings.TrimSpace(req.City),
		FundingTotal:  req.FundingTotal,
		FundingRounds: req.FundingRounds,
		Team:          strings.TrimSpace(req.Team),
		Analysis:      &result,
	})
	if err != nil {
		slog.Error("failed to save idea", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save idea")
		return
	}

	slog.Info("idea saved", "idea_id", idea.ID, "user_id", claims.UserID, "source", result.Source, "score", result.Score)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitIdeaResponse{
		ID:        &idea.ID,
		Title:     idea.Title,
		Content:   idea.Content,
		CreatedAt: &idea.CreatedAt,
		Analysis:  result,
		Saved:     true,
	})
}

// ListIdeas handles GET /api/ideas
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	ideas, err := h.store.ListIdeasByUser(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to list ideas", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ideas)
}

// GetIdea handles GET /api/ideas/{id}
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid idea id")
		return
	}

	idea, err := h.store.GetIdeaForUser(r.Context(), claims.UserID, id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Idea not found")
		return
	}
	if err != nil {
		slog.Error("failed to get idea", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, idea)
}

// DeleteIdea handles DELETE /api/ideas/{id}
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid idea id")
		return
	}

	err = h.store.DeleteIdeaForUser(r.Context(), claims.UserID, id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Idea not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete idea", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("idea deleted", "idea_id", id, "user_id", claims.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func analysisRequest(req models.SubmitIdeaRequest) analysis.Request {
	return analysis.Request{
		Title:           req.Title,
		Content:         req.Content,
		Market:          strings.TrimSpace(req.Market),
		TechService:     strings.TrimSpace(req.TechService),
		TeamDescription: strings.TrimSpace(req.Team),
		Country:         strings.TrimSpace(req.Country),
		Region:          strings.TrimSpace(req.Region),
		City:            strings.TrimSpace(req.City),
		FundingTotal:    req.FundingTotal,
		FundingRounds:   req.FundingRounds,
	}
}
