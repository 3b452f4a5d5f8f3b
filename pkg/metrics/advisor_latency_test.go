package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestLatencyTrackerPercentiles(t *testing.T) {
	lt := NewLatencyTracker(100)
	for i := 1; i <= 100; i++ {
		lt.Record(time.Duration(i)*time.Millisecond, i%10 == 0)
	}

	s := lt.Stats()
	if s.Count != 100 {
		t.Fatalf("Count = %d, want 100", s.Count)
	}
	if s.Failures != 10 {
		t.Errorf("Failures = %d, want 10", s.Failures)
	}
	if s.Min != time.Millisecond || s.Max != 100*time.Millisecond {
		t.Errorf("Min/Max = %v/%v", s.Min, s.Max)
	}
	if s.P50 != 50*time.Millisecond {
		t.Errorf("P50 = %v, want 50ms", s.P50)
	}
	if s.P99 != 99*time.Millisecond {
		t.Errorf("P99 = %v, want 99ms", s.P99)
	}
}

func TestLatencyTrackerWindowSlides(t *testing.T) {
	lt := NewLatencyTracker(10)
	for i := 0; i < 25; i++ {
		lt.Record(time.Millisecond, false)
	}
	if got := lt.Stats().Count; got > 10 {
		t.Errorf("Count = %d, want <= 10", got)
	}
}

func TestRegistryObserve(t *testing.T) {
	r := NewLatencyRegistry(10)
	done := r.Observe(CallTranslation)
	done(errors.New("429"))
	r.Observe(CallTranslation)(nil)

	s := r.Stats(CallTranslation)
	if s.Count != 2 || s.Failures != 1 {
		t.Errorf("stats = %+v, want 2 samples and 1 failure", s)
	}
	if len(r.AllStats()) != 1 {
		t.Errorf("AllStats has %d entries, want 1", len(r.AllStats()))
	}
	if r.Stats("unknown").Count != 0 {
		t.Error("unknown call should have no samples")
	}
}

func TestGradeTimeouts(t *testing.T) {
	tests := []struct {
		name  string
		stats RedisPoolStats
		want  PoolHealthStatus
	}{
		{"idle pool", RedisPoolStats{}, PoolHealthy},
		{"few timeouts", RedisPoolStats{Hits: 99, Misses: 1, Timeouts: 1}, PoolHealthy},
		{"some timeouts", RedisPoolStats{Hits: 90, Misses: 10, Timeouts: 10}, PoolDegraded},
		{"mostly timeouts", RedisPoolStats{Hits: 2, Misses: 2, Timeouts: 3}, PoolUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradeTimeouts(tt.stats); got != tt.want {
				t.Errorf("gradeTimeouts() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAssessRedisPoolNilClient(t *testing.T) {
	if got := AssessRedisPool(nil).Status; got != PoolDisabled {
		t.Errorf("Status = %s, want disabled", got)
	}
}
