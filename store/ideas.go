// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ifjora/ifjora/analysis"
	"github.com/ifjora/ifjora/models"
)

const ideaColumns = `i.id, i.user_id, i.title, i.content, i.market, i.tech_service,
	i.country, i.region, i.city, i.funding_total, i.funding_rounds, i.team,
	i.analysis, i.created_at`

// scanIdea reads ideaColumns plus any extra destinations
func scanIdea(row rowScanner, extra ...interface{}) (models.Idea, error) {
	var idea models.Idea
	var raw sql.NullString

	dest := []interface{}{
		&idea.ID, &idea.UserID, &idea.Title, &idea.Content, &idea.Market, &idea.TechService,
		&idea.Country, &idea.Region, &idea.City, &idea.FundingTotal, &idea.FundingRounds, &idea.Team,
		&raw, &idea.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Idea{}, err
	}

	if raw.Valid && raw.String != "" {
		var result analysis.Result
		if err := json.Unmarshal([]byte(raw.String), &result); err != nil {
			return models.Idea{}, fmt.Errorf("idea %d has corrupt analysis: %w", idea.ID, err)
		}
		idea.Analysis = &result
	}

	return idea, nil
}

// CreateIdea stores the idea with its analysis and returns it with ID and
// CreatedAt filled in.
func (s *Store) CreateIdea(ctx context.Context, idea models.Idea) (models.Idea, error) {
	var raw sql.NullString
	var source string
	if idea.Analysis != nil {
		b, err := json.Marshal(idea.Analysis)
		if err != nil {
			return models.Idea{}, fmt.Errorf("failed to encode analysis: %w", err)
		}
		raw = sql.NullString{String: string(b), Valid: true}
		source = idea.Analysis.Source
	}

	idea.CreatedAt = now()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ideas (user_id, title, content, market, tech_service, country, region, city,
			funding_total, funding_rounds, team, analysis, analysis_source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, idea.UserID, idea.Title, idea.Content, idea.Market, idea.TechService, idea.Country, idea.Region, idea.City,
		idea.FundingTotal, idea.FundingRounds, idea.Team, raw, source, idea.CreatedAt).Scan(&idea.ID)
	if err != nil {
		return models.Idea{}, fmt.Errorf("failed to create idea: %w", err)
	}

	return idea, nil
}

// ListIdeasByUser returns the user's ideas, newest first
func (s *Store) ListIdeasByUser(ctx context.Context, userID int64) ([]models.Idea, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ideaColumns+`
		FROM ideas i
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC, i.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	ideas := []models.Idea{}
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}

	return ideas, nil
}

// GetIdeaForUser returns ErrNotFound for ideas owned by someone else
func (s *Store) GetIdeaForUser(ctx context.Context, userID, ideaID int64) (models.Idea, error) {
	idea, err := scanIdea(s.db.QueryRowContext(ctx, `
		SELECT `+ideaColumns+`
		FROM ideas i
		WHERE i.id = $1 AND i.user_id = $2
	`, ideaID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Idea{}, ErrNotFound
	}
	if err != nil {
		return models.Idea{}, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

func (s *Store) DeleteIdeaForUser(ctx context.Context, userID, ideaID int64) error {
	return s.deleteIdea(ctx, `DELETE FROM ideas WHERE id = $1 AND user_id = $2`, ideaID, userID)
}

// ListIdeas returns every idea with its owner's email, newest first
func (s *Store) ListIdeas(ctx context.Context) ([]models.AdminIdea, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ideaColumns+`, u.email
		FROM ideas i
		JOIN users u ON u.id = i.user_id
		ORDER BY i.created_at DESC, i.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	ideas := []models.AdminIdea{}
	for rows.Next() {
		var email string
		idea, err := scanIdea(rows, &email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, models.AdminIdea{Idea: idea, UserEmail: email})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}

	return ideas, nil
}

func (s *Store) DeleteIdea(ctx context.Context, ideaID int64) error {
	return s.deleteIdea(ctx, `DELETE FROM ideas WHERE id = $1`, ideaID)
}

func (s *Store) deleteIdea(ctx context.Context, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
