package utils_test

import (
	"testing"
	"time"

	"github.com/Linksy/social-service/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestJWTExpired_FreshToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if utils.JWTExpired(token) {
		t.Fatal("token with future exp reported as expired")
	}
}

func TestJWTExpired_PastExp(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	if !utils.JWTExpired(token) {
		t.Fatal("token with past exp reported as valid")
	}
}

func TestJWTExpired_MissingExpAndGarbage(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user"})
	if !utils.JWTExpired(token) {
		t.Fatal("token without exp should count as expired")
	}

	if !utils.JWTExpired("not-a-jwt") {
		t.Fatal("malformed token should count as expired")
	}
}

func TestDecodeJWTUnverified_IgnoresSignature(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := utils.DecodeJWTUnverified(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims["sub"] != "abc" {
		t.Fatalf("expected sub %q, got %v", "abc", claims["sub"])
	}
}
