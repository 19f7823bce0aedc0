package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, expiresAt, err := m.GenerateAdminToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 59*time.Minute {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Role != RoleAdmin || claims.ID == "" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _, _ := NewManager("secret", time.Hour).GenerateAdminToken()
	if _, err := NewManager("other", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestValidate_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	token, _, err := m.GenerateAdminToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	if _, err := NewManager("secret", time.Hour).ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error")
	}
}
