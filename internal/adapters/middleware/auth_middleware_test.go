package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amparo-center/attendance-service/internal/adapters/middleware"
	"github.com/golang-jwt/jwt/v5"
)

func generateTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

func createTestToken(privateKey *rsa.PrivateKey, role string, expired bool) string {
	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}

	claims := jwt.MapClaims{
		"sub":  "user-123",
		"role": role,
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, _ := token.SignedString(privateKey)
	return tokenString
}

func protected(m *middleware.AuthMiddleware, roles ...string) http.HandlerFunc {
	return m.RequireRole(roles, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole_NoAuthHeader(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_InvalidHeaderFormat(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	req.Header.Set("Authorization", "InvalidFormat")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_InvalidToken(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	req.Header.Set("Authorization", "Bearer invalid.token.here")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_ExpiredToken(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin)

	token := createTestToken(privateKey, middleware.RoleAdmin, true)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin)

	token := createTestToken(privateKey, middleware.RoleReception, false)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_AnyOfSeveralRoles(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin, middleware.RoleReception)

	token := createTestToken(privateKey, middleware.RoleReception, false)

	req := httptest.NewRequest(http.MethodPost, "/attendances", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_ValidTokenPassesClaims(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey)

	var gotUserID, gotRole any
	handler := m.RequireRole([]string{middleware.RoleAdmin}, func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.Context().Value(middleware.UserIDKey)
		gotRole = r.Context().Value(middleware.RoleKey)
		w.WriteHeader(http.StatusOK)
	})

	token := createTestToken(privateKey, middleware.RoleAdmin, false)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-123" {
		t.Errorf("user id in context = %v, want user-123", gotUserID)
	}
	if gotRole != middleware.RoleAdmin {
		t.Errorf("role in context = %v, want ADMIN", gotRole)
	}
}

func TestRequireRole_TokenSignedWithWrongKey(t *testing.T) {
	otherKey, _ := generateTestKeys(t)
	_, publicKey := generateTestKeys(t)
	handler := protected(middleware.NewAuthMiddleware(publicKey), middleware.RoleAdmin)

	token := createTestToken(otherKey, middleware.RoleAdmin, false)

	req := httptest.NewRequest(http.MethodPost, "/day/seal", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
