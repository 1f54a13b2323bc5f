// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-test-secret-test-secret"

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret, 6*time.Hour)

	token, issued, err := m.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if issued.ID == "" {
		t.Error("token should carry a jti")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 1 {
		t.Errorf("UserID = %d, want 1", claims.UserID)
	}
	if claims.ID != issued.ID {
		t.Errorf("jti = %q, want %q", claims.ID, issued.ID)
	}

	lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if lifetime != 6*time.Hour {
		t.Errorf("token lifetime = %v, want 6h", lifetime)
	}
}

func TestParse_Expired(t *testing.T) {
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	now := start
	m := NewTokenManager(testSecret, 6*time.Hour).WithClock(func() time.Time { return now })

	token, _, err := m.Issue(1)
	if err != nil {
		t.Fatal(err)
	}

	now = start.Add(5 * time.Hour)
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("token should still be valid after 5h: %v", err)
	}
	if got := m.ExpiresIn(claims); got != int64(time.Hour.Seconds()) {
		t.Errorf("ExpiresIn() = %d, want 3600", got)
	}

	now = start.Add(6*time.Hour + time.Second)
	if _, err := m.Parse(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("another-secret-another-secret-xx", time.Hour)

	foreign, _, err := other.Issue(1)
	if err != nil {
		t.Fatal(err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrNoToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"alg none", noneToken, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BearerToken(tt.header); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestHashAndCheckSecret(t *testing.T) {
	hash, err := HashSecret("1234")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	if hash == "1234" || strings.Contains(hash, "1234") {
		t.Error("hash must not contain the plaintext")
	}

	if !CheckSecret(hash, "1234") {
		t.Error("CheckSecret() rejected the correct secret")
	}
	if CheckSecret(hash, "4321") {
		t.Error("CheckSecret() accepted a wrong secret")
	}
	if CheckSecret("", "") {
		t.Error("CheckSecret() accepted an empty hash")
	}

	// Salted: same input, different hash.
	hash2, _ := HashSecret("1234")
	if hash == hash2 {
		t.Error("HashSecret() should salt each hash")
	}
}

func TestHashSecret_TooLong(t *testing.T) {
	if _, err := HashSecret(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72 bytes should hash, got %v", err)
	}
	// 72 runes, 144 bytes.
	_, err := HashSecret(strings.Repeat("é", 72))
	if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Errorf("HashSecret() error = %v, want bcrypt.ErrPasswordTooLong", err)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("$2a$10$abcdef"); got != MaskedSecret {
		t.Errorf("Mask() = %q, want %q", got, MaskedSecret)
	}
	if got := Mask(""); got != "" {
		t.Errorf("Mask(\"\") = %q, want empty", got)
	}
}

func TestGenerateOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[0-9A-Z]{9}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateOrderID()
		if err != nil {
			t.Fatalf("GenerateOrderID() error = %v", err)
		}
		if !pattern.MatchString(id) {
			t.Errorf("GenerateOrderID() = %q, does not match %s", id, pattern)
		}
		seen[id] = true
	}

	// 36^9 possibilities; 100 draws colliding would indicate a broken source.
	if len(seen) < 100 {
		t.Errorf("expected 100 distinct IDs, got %d", len(seen))
	}
}
