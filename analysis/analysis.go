// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
)

// Result sources
const (
	SourceAI        = "ai"
	SourceSimulated = "simulated"
)

// Risk levels derived from the overall score
const (
	RiskHigh     = "high"
	RiskModerate = "moderate"
	RiskLow      = "low"
)

// Request is the idea as sent to the scoring service
type Request struct {
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Market          string  `json:"market,omitempty"`
	TechService     string  `json:"tech_service,omitempty"`
	TeamDescription string  `json:"team_description,omitempty"`
	Country         string  `json:"country,omitempty"`
	Region          string  `json:"region,omitempty"`
	City            string  `json:"city,omitempty"`
	FundingTotal    float64 `json:"funding_total"`
	FundingRounds   int     `json:"funding_rounds"`
}

// Result is the analysis shown to the user and stored with the idea
type Result struct {
	Score         float64  `json:"score"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Summary       string   `json:"summary"`
	Explanation   string   `json:"explanation,omitempty"`
	DataScore     *float64 `json:"dataScore,omitempty"`
	IdeaScore     *float64 `json:"ideaScore,omitempty"`
	CombinedScore *float64 `json:"combinedScore,omitempty"`
	RiskLevel     string   `json:"riskLevel"`
	Source        string   `json:"source"`
}

type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

// RiskLevel buckets a 0-100 score
func RiskLevel(score float64) string {
	switch {
	case score < 33:
		return RiskHigh
	case score < 66:
		return RiskModerate
	default:
		return RiskLow
	}
}

// CombineScores weighs the data-model score against the idea score
func CombineScores(dataScore, ideaScore float64) float64 {
	return round2(0.65*dataScore + 0.35*ideaScore)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Service asks the remote scorer first and falls back to the local
// simulator when it is not configured or fails.
type Service struct {
	remote   Analyzer
	fallback Analyzer
}

// NewService builds a Service. remote may be nil.
func NewService(remote, fallback Analyzer) *Service {
	return &Service{remote: remote, fallback: fallback}
}

func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if s.remote != nil {
		result, err := s.remote.Analyze(ctx, req)
		if err == nil {
			result.Source = SourceAI
			return result, nil
		}
		// A cancelled client gets nothing out of a fallback
		if errors.Is(ctx.Err(), context.Canceled) {
			return Result{}, ctx.Err()
		}
		slog.Warn("AI analysis failed, using simulator", "error", err)
	}

	if s.fallback == nil {
		return Result{}, errors.New("no analyzer available")
	}

	result, err := s.fallback.Analyze(ctx, req)
	if err != nil {
		return Result{}, err
	}
	result.Source = SourceSimulated
	return result, nil
}
