package tool

import (
	"testing"
	"time"
)

func TestIPRateLimiterAllowsBurstThenRejects(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2, StaleAfter: time.Minute})
	defer rl.Stop()

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatalf("expected the burst to be allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatalf("expected the request past the burst to be rejected")
	}
}

func TestIPRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, StaleAfter: time.Minute})
	defer rl.Stop()

	if !rl.Allow("1.1.1.1") {
		t.Fatalf("expected first IP's first request to be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatalf("expected a distinct IP to have its own budget")
	}
}
