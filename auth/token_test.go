// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, expiresAt, err := issuer.Issue(42, "alice@example.com", true)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
}

func TestTokenIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t1, _, err := issuer.Issue(1, "a@example.com", false)
	require.NoError(t, err)
	t2, _, err := issuer.Issue(1, "a@example.com", false)
	require.NoError(t, err)

	c1, err := issuer.Parse(t1)
	require.NoError(t, err)
	c2, err := issuer.Parse(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.TokenID, c2.TokenID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(1, "a@example.com", false)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	foreign, _, err := other.Issue(1, "a@example.com", false)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"alg none", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, tokenClaims{
			Email:            "a@example.com",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "1", ExpiresAt: exp},
		})},
		{"other algorithm", sign(jwt.SigningMethodHS512, []byte("test-secret"), tokenClaims{
			Email:            "a@example.com",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "1", ExpiresAt: exp},
		})},
		{"missing expiry", sign(jwt.SigningMethodHS256, []byte("test-secret"), tokenClaims{
			Email:            "a@example.com",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "1"},
		})},
		{"wrong issuer", sign(jwt.SigningMethodHS256, []byte("test-secret"), tokenClaims{
			Email:            "a@example.com",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", Subject: "1", ExpiresAt: exp},
		})},
		{"non-numeric subject", sign(jwt.SigningMethodHS256, []byte("test-secret"), tokenClaims{
			Email:            "a@example.com",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "alice", ExpiresAt: exp},
		})},
		{"missing email", sign(jwt.SigningMethodHS256, []byte("test-secret"), tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: "1", ExpiresAt: exp},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
