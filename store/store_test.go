// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifjora/ifjora/analysis"
	"github.com/ifjora/ifjora/models"
	"github.com/ifjora/ifjora/testutil"
)

func TestCreateUser(t *testing.T) {
	s := New(testutil.SetupTestDB(t))
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "kari@example.com", "hash", false)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "kari@example.com", u.Email)
	assert.False(t, u.IsAdmin)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Millisecond)

	byEmail, err := s.GetUserByEmail(ctx, "kari@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.CreateUser(ctx, "kari@example.com", "other", false)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUser_NotFound(t *testing.T) {
	s := New(testutil.SetupTestDB(t))
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	id := testutil.CreateTestUser(t, conn, "ola@example.com", false)
	testutil.CreateTestUser(t, conn, "taken@example.com", false)

	before, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)

	t.Run("email only", func(t *testing.T) {
		email := "ola.nordmann@example.com"
		u, err := s.UpdateUser(ctx, id, &email, nil)
		require.NoError(t, err)
		assert.Equal(t, email, u.Email)
		assert.Equal(t, before.PasswordHash, u.PasswordHash)
		assert.False(t, u.UpdatedAt.Before(before.UpdatedAt))
	})

	t.Run("password only", func(t *testing.T) {
		hash := "new-hash"
		u, err := s.UpdateUser(ctx, id, nil, &hash)
		require.NoError(t, err)
		assert.Equal(t, "ola.nordmann@example.com", u.Email)
		assert.Equal(t, "new-hash", u.PasswordHash)
	})

	t.Run("email taken", func(t *testing.T) {
		email := "taken@example.com"
		_, err := s.UpdateUser(ctx, id, &email, nil)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		email := "ghost@example.com"
		_, err := s.UpdateUser(ctx, 999, &email, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListUsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	first := testutil.CreateTestUser(t, conn, "a@example.com", false)
	second := testutil.CreateTestUser(t, conn, "b@example.com", true)

	users, err = s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Newest first
	assert.Equal(t, second, users[0].ID)
	assert.True(t, users[0].IsAdmin)
	assert.Equal(t, first, users[1].ID)
}

func TestDeleteUser_RemovesIdeas(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, conn, "owner@example.com", false)
	other := testutil.CreateTestUser(t, conn, "other@example.com", false)
	testutil.CreateTestIdea(t, conn, owner, "Owner idea")
	keep := testutil.CreateTestIdea(t, conn, other, "Other idea")

	require.NoError(t, s.DeleteUser(ctx, owner))

	_, err := s.GetUserByID(ctx, owner)
	assert.ErrorIs(t, err, ErrNotFound)

	ideas, err := s.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, keep, ideas[0].ID)

	assert.ErrorIs(t, s.DeleteUser(ctx, owner), ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	u, changed, err := s.EnsureAdmin(ctx, "admin@example.com", "admin-hash")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, u.IsAdmin)

	// Idempotent
	again, changed, err := s.EnsureAdmin(ctx, "admin@example.com", "other-hash")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "admin-hash", again.PasswordHash)

	// Existing regular user gets promoted, password kept
	id := testutil.CreateTestUser(t, conn, "promote@example.com", false)
	promoted, changed, err := s.EnsureAdmin(ctx, "promote@example.com", "ignored")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, id, promoted.ID)

	stored, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)
	assert.NotEqual(t, "ignored", stored.PasswordHash)
}

func TestIdeas(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, conn, "owner@example.com", false)
	stranger := testutil.CreateTestUser(t, conn, "stranger@example.com", false)

	data := 70.0
	result := &analysis.Result{
		Score:      60,
		Strengths:  []string{"Clear"},
		Weaknesses: []string{"Vague"},
		Summary:    "ok",
		DataScore:  &data,
		RiskLevel:  analysis.RiskModerate,
		Source:     analysis.SourceAI,
	}

	created, err := s.CreateIdea(ctx, models.Idea{
		UserID:        owner,
		Title:         "Fish tracker",
		Content:       "Track salmon farms with sensors",
		Market:        "Aquaculture",
		TechService:   "IoT",
		Country:       "NOR",
		FundingTotal:  100000,
		FundingRounds: 2,
		Team:          "Three engineers",
		Analysis:      result,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	second, err := s.CreateIdea(ctx, models.Idea{UserID: owner, Title: "Second", Content: "Newer"})
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		got, err := s.GetIdeaForUser(ctx, owner, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fish tracker", got.Title)
		assert.Equal(t, "IoT", got.TechService)
		assert.Equal(t, 100000.0, got.FundingTotal)
		assert.Equal(t, 2, got.FundingRounds)
		require.NotNil(t, got.Analysis)
		assert.Equal(t, *result, *got.Analysis)

		_, err = s.GetIdeaForUser(ctx, stranger, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list by user", func(t *testing.T) {
		ideas, err := s.ListIdeasByUser(ctx, owner)
		require.NoError(t, err)
		require.Len(t, ideas, 2)
		assert.Equal(t, second.ID, ideas[0].ID)
		assert.Nil(t, ideas[0].Analysis)
		assert.Equal(t, created.ID, ideas[1].ID)

		none, err := s.ListIdeasByUser(ctx, stranger)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("admin list", func(t *testing.T) {
		ideas, err := s.ListIdeas(ctx)
		require.NoError(t, err)
		require.Len(t, ideas, 2)
		assert.Equal(t, "owner@example.com", ideas[0].UserEmail)
	})

	t.Run("delete for user", func(t *testing.T) {
		assert.ErrorIs(t, s.DeleteIdeaForUser(ctx, stranger, second.ID), ErrNotFound)
		require.NoError(t, s.DeleteIdeaForUser(ctx, owner, second.ID))
		assert.ErrorIs(t, s.DeleteIdeaForUser(ctx, owner, second.ID), ErrNotFound)
	})

	t.Run("admin delete", func(t *testing.T) {
		require.NoError(t, s.DeleteIdea(ctx, created.ID))
		assert.ErrorIs(t, s.DeleteIdea(ctx, created.ID), ErrNotFound)
	})
}

func TestCreateIdea_UnknownUser(t *testing.T) {
	s := New(testutil.SetupTestDB(t))

	_, err := s.CreateIdea(context.Background(), models.Idea{UserID: 42, Title: "t", Content: "c"})
	assert.Error(t, err)
}

func TestCorruptAnalysis(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	owner := testutil.CreateTestUser(t, conn, "owner@example.com", false)
	id := testutil.CreateTestIdea(t, conn, owner, "Broken")
	_, err := conn.Exec(`UPDATE ideas SET analysis = $1 WHERE id = $2`, "{not json", id)
	require.NoError(t, err)

	_, err = s.GetIdeaForUser(context.Background(), owner, id)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestCreateUser_PostgresUniqueViolation(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dup@example.com", "hash", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err = New(conn).CreateUser(context.Background(), "dup@example.com", "hash", false)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_RollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ideas WHERE user_id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = New(conn).DeleteUser(context.Background(), 7)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_UnknownRollsBack(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ideas WHERE user_id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = New(conn).DeleteUser(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers_QueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT .* FROM users`).WillReturnError(errors.New("db down"))

	_, err = New(conn).ListUsers(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
