// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token format")
)

// HashPassword creates a salted HMAC-SHA256 hash of a password.
// Output format is "salt$hash", both hex encoded.
func HashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt) + "$" + hashWithSalt(password, salt), nil
}

// VerifyPassword checks a password against a stored "salt$hash" value.
// Returns ErrInvalidCredentials on mismatch or malformed input.
func VerifyPassword(password, stored string) error {
	saltHex, want, ok := strings.Cut(stored, "$")
	if !ok {
		return ErrInvalidCredentials
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !hmac.Equal([]byte(hashWithSalt(password, salt)), []byte(want)) {
		return ErrInvalidCredentials
	}
	return nil
}

func hashWithSalt(password string, salt []byte) string {
	h := hmac.New(sha256.New, salt)
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateSessionToken creates a signed session token for a user.
// Format is "<userID>.<nonce>.<signature>"; the signature is an
// HMAC-SHA256 over the first two parts, so the token is verifiable
// without storing it.
func GenerateSessionToken(userID int64, salt string) (string, error) {
	nonce := make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate token nonce: %w", err)
	}
	payload := strconv.FormatInt(userID, 10) + "." + hex.EncodeToString(nonce)
	return payload + "." + sign(payload, salt), nil
}

// ValidateSessionToken verifies a token's signature and returns the
// user ID it was issued for.
func ValidateSessionToken(token, salt string) (int64, error) {
	payload, sig, ok := cutLast(token, ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sign(payload, salt)), []byte(sig)) {
		return 0, ErrInvalidToken
	}
	idStr, _, ok := strings.Cut(payload, ".")
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func sign(payload, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(payload))
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
