// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and bearer token utilities.

# Passwords

Passwords are hashed with argon2id and stored in the PHC string format:

	hash, err := auth.HashPassword(password)
	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>

VerifyPassword reads the parameters back out of the stored string, so
hashes created with other parameters (or by other argon2 implementations
using the same format) keep verifying:

	ok, err := auth.VerifyPassword(hash, password)

A malformed hash returns ErrInvalidHash; a wrong password returns
(false, nil).

ValidatePassword enforces the minimum length (8 characters).
NormalizeEmail trims and lowercases; ValidateEmail rejects addresses that
do not parse or are longer than 254 bytes.

# Tokens

TokenIssuer signs HS256 JWTs:

	issuer := auth.NewTokenIssuer(secret, 7*24*time.Hour)
	token, expiresAt, err := issuer.Issue(userID, email, isAdmin)
	claims, err := issuer.Parse(token)

Tokens carry sub (user id), email, admin, jti (random UUID), iss, iat and
exp. Parse accepts only HS256 tokens from this issuer with an expiry, and
returns ErrExpiredToken or ErrInvalidToken otherwise.
*/
package auth
