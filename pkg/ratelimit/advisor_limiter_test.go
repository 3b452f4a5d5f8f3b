package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGuardAcquireRelease(t *testing.T) {
	g := NewGuard(Config{MaxConcurrent: 1, RequestsPerSecond: 1000, BurstSize: 10})

	release, err := g.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if g.InFlight() != 1 {
		t.Errorf("InFlight = %d, want 1", g.InFlight())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second Acquire err = %v, want deadline exceeded", err)
	}

	release()
	release()
	if g.InFlight() != 0 {
		t.Errorf("InFlight after release = %d, want 0", g.InFlight())
	}
}

func TestKeyedLimiterBurst(t *testing.T) {
	k := NewKeyedLimiter(1, 2, time.Minute)
	fixed := time.Unix(1_700_000_000, 0)
	k.now = func() time.Time { return fixed }

	tests := []struct {
		key  string
		want bool
	}{
		{"a", true},
		{"a", true},
		{"a", false},
		{"b", true},
	}
	for i, tt := range tests {
		if got := k.Allow(tt.key); got != tt.want {
			t.Errorf("call %d Allow(%q) = %v, want %v", i, tt.key, got, tt.want)
		}
	}
	if k.Len() != 2 {
		t.Errorf("Len = %d, want 2", k.Len())
	}
}

func TestKeyedLimiterCapsKeys(t *testing.T) {
	k := NewKeyedLimiter(0.001, 1, time.Hour)
	k.maxKeys = 2
	clock := time.Unix(1_700_000_000, 0)
	k.now = func() time.Time { return clock }

	for _, key := range []string{"a", "b", "c", "d"} {
		clock = clock.Add(time.Second)
		if !k.Allow(key) {
			t.Errorf("Allow(%q) = false on first use", key)
		}
		if k.Len() > 2 {
			t.Errorf("after %q Len = %d, want <= 2", key, k.Len())
		}
	}
	// "d" is still tracked, so its empty bucket holds.
	if k.Allow("d") {
		t.Error("Allow(d) = true, want throttled")
	}
}
