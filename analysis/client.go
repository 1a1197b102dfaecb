// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

var ErrInvalidResponse = errors.New("invalid analysis response")

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Body)
}

// serviceResponse mirrors the /analyze payload of the scoring service
type serviceResponse struct {
	Score         *float64 `json:"score"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Summary       string   `json:"summary"`
	Explanation   *string  `json:"explanation"`
	DataScore     *float64 `json:"data_score"`
	IdeaScore     *float64 `json:"idea_score"`
	CombinedScore *float64 `json:"combined_score"`
}

// Client talks to the external AI scoring service over HTTP
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Analyze posts the idea to /analyze and maps the reply into a Result
func (c *Client) Analyze(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build analysis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var payload serviceResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return payload.toResult()
}

// Health probes GET /health on the service
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (p serviceResponse) toResult() (Result, error) {
	if p.Score == nil || !validScore(*p.Score) {
		return Result{}, fmt.Errorf("%w: score missing or out of range", ErrInvalidResponse)
	}
	for _, s := range []*float64{p.DataScore, p.IdeaScore, p.CombinedScore} {
		if s != nil && !validScore(*s) {
			return Result{}, fmt.Errorf("%w: sub-score out of range", ErrInvalidResponse)
		}
	}

	result := Result{
		Score:         *p.Score,
		Strengths:     nonNil(p.Strengths),
		Weaknesses:    nonNil(p.Weaknesses),
		Summary:       p.Summary,
		DataScore:     p.DataScore,
		IdeaScore:     p.IdeaScore,
		CombinedScore: p.CombinedScore,
		RiskLevel:     RiskLevel(*p.Score),
		Source:        SourceAI,
	}
	if p.Explanation != nil {
		result.Explanation = *p.Explanation
	}
	return result, nil
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
