// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ifjora/ifjora/models"
)

const userColumns = `id, email, password_hash, is_admin, created_at, updated_at`

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a new account. Email must already be normalized.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string, isAdmin bool) (models.User, error) {
	ts := now()
	u := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, email, passwordHash, isAdmin, ts, ts).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateUser changes the email and/or password hash. Nil fields are left
// as they are; updated_at is always bumped.
func (s *Store) UpdateUser(ctx context.Context, id int64, email, passwordHash *string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users
		SET email = COALESCE($1, email),
		    password_hash = COALESCE($2, password_hash),
		    updated_at = $3
		WHERE id = $4
		RETURNING `+userColumns,
		email, passwordHash, now(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// ListUsers returns every account, newest first
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// DeleteUser removes the account together with its ideas
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ideas WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user ideas: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// EnsureAdmin makes sure an admin account exists for email. A missing
// account is created with passwordHash; an existing one is promoted and
// keeps its password. Reports whether anything changed.
func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash string) (models.User, bool, error) {
	u, err := s.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u, err = s.CreateUser(ctx, email, passwordHash, true)
		if err != nil {
			return models.User{}, false, err
		}
		return u, true, nil
	case err != nil:
		return models.User{}, false, err
	case u.IsAdmin:
		return u, false, nil
	}

	u.UpdatedAt = now()
	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET is_admin = $1, updated_at = $2 WHERE id = $3`,
		true, u.UpdatedAt, u.ID)
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to promote admin: %w", err)
	}
	u.IsAdmin = true

	return u, true, nil
}
