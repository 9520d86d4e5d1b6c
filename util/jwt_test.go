package util

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateJWT("user-42", time.Hour, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("Expected user-42, got %q", claims.UserID)
	}
}

func TestJWTRejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, _ := GenerateJWT("user-42", -time.Minute, secret)
	if _, err := ValidateJWT(expired, secret); err == nil {
		t.Error("Expected expired token to be rejected")
	}

	valid, _ := GenerateJWT("user-42", time.Hour, secret)
	if _, err := ValidateJWT(valid, []byte("other-secret")); err == nil {
		t.Error("Expected wrong secret to be rejected")
	}

	if _, err := ValidateJWT("not-a-token", secret); err == nil {
		t.Error("Expected garbage to be rejected")
	}
}
