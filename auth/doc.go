// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token, credential, and identifier utilities.

# Session Tokens

Sign-in issues an HS256 JWT carrying the admin id (userId claim) and a
random jti used for revocation on logout:

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	token, claims, err := tokens.Issue(adminID)
	claims, err = tokens.Parse(token)

Parse rejects tokens with a bad signature, a non-HMAC algorithm, or no
expiry (ErrInvalidToken), and tokens past their expiry (ErrExpiredToken).

Extract the token from a request header:

	token := auth.BearerToken(r.Header.Get("Authorization"))

# Credentials

Passwords and PINs are stored as bcrypt hashes:

	hash, err := auth.HashSecret(pin)
	ok := auth.CheckSecret(hash, submitted)

Stored secrets are never returned; Mask replaces them with MaskedSecret.

# Order References

New products receive an "ORD-" reference of 9 characters from [0-9A-Z]:

	ref, err := auth.GenerateOrderID()

The products table enforces uniqueness; callers regenerate on conflict.
*/
package auth
