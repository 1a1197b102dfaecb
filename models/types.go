// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/ifjora/ifjora/analysis"
)

// Request types

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Both fields optional, at least one required
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type SubmitIdeaRequest struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Market        string  `json:"market"`
	TechService   string  `json:"techService"`
	Country       string  `json:"country"`
	Region        string  `json:"region"`
	City          string  `json:"city"`
	FundingTotal  float64 `json:"fundingTotal"`
	FundingRounds int     `json:"fundingRounds"`
	Team          string  `json:"team"`
}

// Response types

type AuthResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Token is reissued because the old one carries the previous email
type UpdateProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updatedAt"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SubmitIdeaResponse carries id/createdAt only when the idea was saved
type SubmitIdeaResponse struct {
	ID        *int64          `json:"id,omitempty"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
	Analysis  analysis.Result `json:"analysis"`
	Saved     bool            `json:"saved"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Domain types

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Idea struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"userId"`
	Title         string           `json:"title"`
	Content       string           `json:"content"`
	Market        string           `json:"market,omitempty"`
	TechService   string           `json:"techService,omitempty"`
	Country       string           `json:"country,omitempty"`
	Region        string           `json:"region,omitempty"`
	City          string           `json:"city,omitempty"`
	FundingTotal  float64          `json:"fundingTotal"`
	FundingRounds int              `json:"fundingRounds"`
	Team          string           `json:"team,omitempty"`
	Analysis      *analysis.Result `json:"analysis,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// AdminIdea is an idea as listed on the admin page
type AdminIdea struct {
	Idea
	UserEmail string `json:"userEmail"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
