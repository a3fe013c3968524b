// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and token generation utilities.

# Password Hashing

Passwords are hashed with a per-user random salt and HMAC-SHA256:

	hash, err := auth.HashPassword(password)
	err = auth.VerifyPassword(password, hash)

The stored value is "salt$hash", both hex encoded. VerifyPassword uses
a constant-time comparison and returns ErrInvalidCredentials on any
mismatch, without distinguishing bad passwords from malformed records.

# Session Tokens

Session tokens are HMAC-signed values in the form
"<userID>.<nonce>.<signature>":

	token, err := auth.GenerateSessionToken(userID, salt)
	userID, err := auth.ValidateSessionToken(token, salt)

Since the signature covers the user ID and a random nonce, tokens can
be validated without storing them in the database.
*/
package auth
