package helpers

import (
	"errors"
	"testing"
	"time"
)

func TestJWTGenerateAndParse(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("super-secret"), TTL: 7 * 24 * time.Hour}

	tok, exp, err := m.Generate("65f1c0ffee0000000000abcd", "alice")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}
	if until := time.Until(exp); until < 7*24*time.Hour-time.Minute {
		t.Fatalf("expected ~7 day expiry, got %v", until)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "65f1c0ffee0000000000abcd" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: got %q", claims.Username)
	}
}

func TestJWTParse_Expired(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("secret"), TTL: -1 * time.Second}
	tok, _, err := m.Generate("u1", "bob")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, err = m.Parse(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTParse_WrongSecret(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("right-secret"), TTL: time.Hour}
	tok, _, err := m.Generate("u2", "carol")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	other := &JWTManager{Secret: []byte("wrong-secret"), TTL: time.Hour}
	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTParse_Malformed(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("k"), TTL: time.Hour}
	if _, err := m.Parse("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
