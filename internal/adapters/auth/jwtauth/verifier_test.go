package jwtauth

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-for-tests"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifyOK(t *testing.T) {
	v, err := New(Options{Secret: testSecret, Issuer: "petchat-auth"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"iss":   "petchat-auth",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected user id: %q", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("unexpected email: %q", claims.Email)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v, _ := New(Options{Secret: testSecret})

	token := signToken(t, "otro-secreto", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	v, _ := New(Options{Secret: testSecret, Leeway: time.Second})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	v, _ := New(Options{Secret: testSecret})

	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error for missing sub")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v, _ := New(Options{Secret: testSecret, Issuer: "petchat-auth"})

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"iss": "alguien-mas",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error for wrong issuer")
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
