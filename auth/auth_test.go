package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.Contains(hash, "$") {
		t.Errorf("Expected salt$hash format, got %q", hash)
	}
	if strings.Contains(hash, "hunter22") {
		t.Error("Hash contains the plaintext password")
	}

	if err := VerifyPassword("hunter22", hash); err != nil {
		t.Errorf("Correct password rejected: %v", err)
	}
	if err := VerifyPassword("wrong", hash); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("Two hashes of the same password are identical")
	}
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "abcdef"},
		{"bad salt hex", "zz$abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyPassword("pw", tt.stored); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(42, "salt")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	userID, err := ValidateSessionToken(token, "salt")
	if err != nil {
		t.Fatalf("ValidateSessionToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user 42, got %d", userID)
	}
}

func TestSessionTokenRejections(t *testing.T) {
	token, err := GenerateSessionToken(42, "salt")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		salt  string
	}{
		{"wrong salt", token, "other-salt"},
		{"tampered user id", "7" + token, "salt"},
		{"no separators", "garbage", "salt"},
		{"empty", "", "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateSessionToken(tt.token, tt.salt); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	first, err := GenerateSessionToken(42, "salt")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	second, err := GenerateSessionToken(42, "salt")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	if first == second {
		t.Error("Two tokens for the same user are identical")
	}
}
