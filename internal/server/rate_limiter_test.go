package server

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	if !limiter.Allow("org-1") || !limiter.Allow("org-1") {
		t.Fatalf("expected first two requests to pass")
	}
	if limiter.Allow("org-1") {
		t.Fatalf("expected third request to be limited")
	}
	if !limiter.Allow("org-2") {
		t.Fatalf("expected other organizations to be unaffected")
	}

	now = now.Add(time.Minute)
	if !limiter.Allow("org-1") {
		t.Fatalf("expected a new window to reset the count")
	}
	if limiter.Allow("") {
		t.Fatalf("expected empty key to be rejected")
	}
}

func TestDisabledRateLimiterAllows(t *testing.T) {
	limiter := newRateLimiter(0, time.Minute)
	if limiter != nil {
		t.Fatalf("expected nil limiter when limit is zero")
	}
	for i := 0; i < 5; i++ {
		if !limiter.Allow("") {
			t.Fatalf("nil limiter must allow")
		}
	}
}
