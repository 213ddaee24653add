package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestFixedWindowLimiter(t *testing.T) {
	srv := miniredis.RunT(t)
	limiter, err := NewFixedWindowLimiter(srv.Addr(), "", "test:ratelimit", 2, time.Second)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	if !limiter.Allow("pet-1") {
		t.Fatalf("first request should pass")
	}
	if !limiter.Allow("pet-1") {
		t.Fatalf("second request should pass")
	}
	if limiter.Allow("pet-1") {
		t.Fatalf("third request should be blocked")
	}
	// Otra key no comparte cupo
	if !limiter.Allow("pet-2") {
		t.Fatalf("different key should have its own quota")
	}
}

func TestFixedWindowLimiterFailClosed(t *testing.T) {
	srv := miniredis.RunT(t)
	limiter, err := NewFixedWindowLimiter(srv.Addr(), "", "test:ratelimit", 1, time.Second)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	srv.Close()
	if limiter.Allow("pet-1") {
		t.Fatalf("limiter should fail closed on redis errors")
	}
}

func TestFixedWindowLimiterValidatesInputs(t *testing.T) {
	if _, err := NewFixedWindowLimiter("", "", "p", 1, time.Second); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewFixedWindowLimiter("127.0.0.1:6379", "", "p", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}
