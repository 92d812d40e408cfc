package siteweb

import (
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	l := NewRateLimiter(max, window)
	t.Cleanup(l.Stop)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter, now := newTestLimiter(t, 1, time.Minute)
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	*now = now.Add(61 * time.Second)
	if !limiter.Allow(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestRateLimiterCheckDoesNotRecord(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("Check %d should not consume an attempt", i)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected Check to fail after Record")
	}
	limiter.Reset(ip)
	if !limiter.Check(ip) {
		t.Fatalf("expected Reset to clear attempts")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	l := NewRateLimiter(1, time.Millisecond)
	l.Stop()
	l.Stop()
}
