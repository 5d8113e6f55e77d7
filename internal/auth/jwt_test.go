package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/scanorder-pos/api/internal/auth"
	"github.com/scanorder-pos/api/internal/enum"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()
	storeID := "cafe1"

	token, err := auth.GenerateToken(secret, userID, storeID, enum.RoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
	}
	if claims.StoreID != storeID {
		t.Errorf("store ID: got %q, want %q", claims.StoreID, storeID)
	}
	if claims.Role != enum.RoleStaff {
		t.Errorf("role: got %q, want %q", claims.Role, enum.RoleStaff)
	}
}

func TestGenerateSuperAdminTokenHasNoStore(t *testing.T) {
	token, err := auth.GenerateToken("secret", uuid.New(), "", enum.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.StoreID != "" {
		t.Errorf("store ID: got %q, want empty", claims.StoreID)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", uuid.New(), "cafe1", enum.RoleStaff)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret-b", token)
	if err == nil {
		t.Fatal("expected error validating with wrong secret")
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt")
	if err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}
