package auth

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateJWT(secret, 42, "alice", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret-a", 1, "bob", "user", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseJWT("secret-b", token); err == nil {
		t.Errorf("expected parse with wrong secret to fail")
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("secret", 1, "bob", "user", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseJWT("secret", token); err == nil {
		t.Errorf("expected expired token to fail")
	}
}
