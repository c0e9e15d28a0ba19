package worker

import (
	"context"
	"testing"
	"time"
)

// allow takes a slot for rawURL's host without waiting
func allow(t *testing.T, l *Limiter, rawURL string) bool {
	t.Helper()
	lim, err := l.forURL(rawURL)
	if err != nil {
		t.Fatalf("forURL(%q): %v", rawURL, err)
	}
	return lim.Allow()
}

func TestNewLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(10, -1)
	if l.burst != 1 {
		t.Errorf("expected burst 1 for negative input, got %d", l.burst)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	l := NewLimiter(1, 1)

	if !allow(t, l, "http://www.legis.state.wi.us/2009/data/AB1hst.html") {
		t.Fatal("expected first request to be allowed")
	}
	if allow(t, l, "http://www.legis.state.wi.us/2009/data/AB2hst.html") {
		t.Error("expected second request to the same host to wait")
	}
	if !allow(t, l, "http://docs.legis.wisconsin.gov/2009/related/proposals/ab1") {
		t.Error("expected other host to have its own budget")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		if !allow(t, l, "http://example.com/") {
			t.Fatalf("expected request %d to be allowed with pacing disabled", i)
		}
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 1)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "http://example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if d := time.Since(start); d < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", d)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.WaitWithDelay(ctx, "http://example.com", time.Second); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	l := NewLimiter(10, 1)
	if err := l.Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := l.forURL("::invalid"); err == nil {
		t.Error("expected invalid URL to be refused")
	}
}
