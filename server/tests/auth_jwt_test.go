package tests

import (
	"testing"
	"time"

	"filebin/server/models/auth"
)

func newTestJWTService(duration time.Duration) *auth.JWTService {
	return auth.NewJWTService(&auth.Config{
		SecretKey:     []byte("test-secret-key"),
		TokenDuration: duration,
	}, nil)
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := newTestJWTService(time.Hour)

	token, expiresAt, err := service.GenerateToken(42, "testuser")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("Expected expiry in the future")
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected UserID 42, got %d", claims.UserID)
	}
	if claims.Username != "testuser" {
		t.Errorf("Expected Username 'testuser', got %s", claims.Username)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	service := newTestJWTService(time.Hour)
	other := auth.NewJWTService(&auth.Config{
		SecretKey:     []byte("a-different-key"),
		TokenDuration: time.Hour,
	}, nil)

	token, _, err := service.GenerateToken(1, "testuser")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different signing key")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	service := newTestJWTService(-time.Minute)

	token, _, err := service.GenerateToken(1, "testuser")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	service := newTestJWTService(time.Hour)

	if _, err := service.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected validation to fail for a malformed token")
	}
}
