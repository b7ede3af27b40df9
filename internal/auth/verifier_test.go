package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func mint(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := mint(t, testSecret, jwt.MapClaims{
		"sub":   "user_42",
		"email": "a@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	p, err := v.Verify("Bearer " + tok)
	if err != nil {
		t.Fatal(err)
	}
	if p.Subject != "user_42" || p.Email != "a@example.com" || p.Role != "admin" {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if !p.IsAdmin() {
		t.Fatal("expected admin principal")
	}
	if p.ExpiresAt.IsZero() {
		t.Fatal("expected expiry to be set")
	}
}

func TestVerifyRoleDefaultsToUser(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := mint(t, testSecret, jwt.MapClaims{
		"sub": "user_42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	p, err := v.Verify("Bearer " + tok)
	if err != nil {
		t.Fatal(err)
	}
	if p.Role != RoleUser {
		t.Fatalf("expected default role %q, got %q", RoleUser, p.Role)
	}
	if p.IsAdmin() {
		t.Fatal("default role must not be admin")
	}
}

func TestVerifySchemeIsCaseInsensitive(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := mint(t, testSecret, jwt.MapClaims{
		"sub": "user_42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		if _, err := v.Verify(scheme + " " + tok); err != nil {
			t.Fatalf("scheme %q: %v", scheme, err)
		}
	}
}

func TestVerifyMalformedHeader(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")

	for _, authz := range []string{"", "Bearer", "Bearer ", "Token abc", "abc"} {
		_, err := v.Verify(authz)
		if !errors.Is(err, ErrMalformedAuth) {
			t.Fatalf("header %q: expected ErrMalformedAuth, got %v", authz, err)
		}
	}
}

func TestVerifyBadSignature(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := mint(t, "some-other-secret", jwt.MapClaims{
		"sub": "user_42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify("Bearer " + tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := mint(t, testSecret, jwt.MapClaims{
		"sub": "user_42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify("Bearer " + tok)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := mint(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify("Bearer " + tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing sub, got %v", err)
	}
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	v := NewVerifier([]byte(testSecret), "HS256")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user_42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := v.Verify("Bearer " + s); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}
