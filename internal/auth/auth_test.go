package auth

import (
	"testing"

	"moaqeb-backend/internal/config"
	"moaqeb-backend/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "moaqeb-backend"
	return cfg
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())
	user := &models.User{ID: 42, Phone: "+966501234567", Role: models.RoleGolden}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != 42 || claims.Phone != user.Phone || claims.Role != models.RoleGolden {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	m := NewJWTManager(testConfig())
	token, err := m.GenerateToken(&models.User{ID: 1})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other := testConfig()
	other.JWT.Secret = "different-secret"
	if _, err := NewJWTManager(other).ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}
