// Package metrics tracks latency percentiles for outbound AI and translation calls.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Well-known call names recorded by adapters.
const (
	CallTextGeneration  = "gemini.text"
	CallImageGeneration = "gemini.image"
	CallTranslation     = "sarvam.translate"
	CallAnalyze         = "advisor.analyze"
)

// =============================================================================
// Latency Tracker
// =============================================================================

// LatencyTracker keeps a sliding window of samples in microseconds.
type LatencyTracker struct {
	mu         sync.Mutex
	samples    []int64
	maxSamples int
	sorted     bool
	failures   int64
}

// NewLatencyTracker creates a tracker holding at most windowSize samples.
func NewLatencyTracker(windowSize int) *LatencyTracker {
	if windowSize <= 0 {
		windowSize = 500
	}
	return &LatencyTracker{
		samples:    make([]int64, 0, windowSize),
		maxSamples: windowSize,
	}
}

// Record stores one observation. Failed calls are counted and still timed.
func (lt *LatencyTracker) Record(d time.Duration, failed bool) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.samples) >= lt.maxSamples {
		drop := lt.maxSamples / 10
		if drop < 1 {
			drop = 1
		}
		lt.samples = append(lt.samples[:0], lt.samples[drop:]...)
	}
	lt.samples = append(lt.samples, d.Microseconds())
	lt.sorted = false
	if failed {
		lt.failures++
	}
}

// Stats returns the current percentile snapshot.
func (lt *LatencyTracker) Stats() LatencyStats {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	n := len(lt.samples)
	if n == 0 {
		return LatencyStats{Failures: lt.failures}
	}
	if !lt.sorted {
		sort.Slice(lt.samples, func(i, j int) bool { return lt.samples[i] < lt.samples[j] })
		lt.sorted = true
	}

	var sum int64
	for _, v := range lt.samples {
		sum += v
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencyStats{
		Count:    int64(n),
		Failures: lt.failures,
		Min:      us(lt.samples[0]),
		Max:      us(lt.samples[n-1]),
		Avg:      us(sum / int64(n)),
		P50:      us(lt.at(0.50)),
		P95:      us(lt.at(0.95)),
		P99:      us(lt.at(0.99)),
	}
}

// at must be called with the lock held on sorted samples.
func (lt *LatencyTracker) at(p float64) int64 {
	return lt.samples[int(float64(len(lt.samples)-1)*p)]
}

// Reset clears all samples.
func (lt *LatencyTracker) Reset() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.samples = lt.samples[:0]
	lt.sorted = false
	lt.failures = 0
}

// LatencyStats holds latency statistics.
type LatencyStats struct {
	Count    int64
	Failures int64
	Min      time.Duration
	Max      time.Duration
	Avg      time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

// ToMap renders the stats in milliseconds for JSON output.
func (s LatencyStats) ToMap() map[string]any {
	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
	return map[string]any{
		"count":    s.Count,
		"failures": s.Failures,
		"min_ms":   ms(s.Min),
		"max_ms":   ms(s.Max),
		"avg_ms":   ms(s.Avg),
		"p50_ms":   ms(s.P50),
		"p95_ms":   ms(s.P95),
		"p99_ms":   ms(s.P99),
	}
}

// =============================================================================
// Registry
// =============================================================================

// LatencyRegistry manages one tracker per call name.
type LatencyRegistry struct {
	mu       sync.RWMutex
	trackers map[string]*LatencyTracker
	window   int
}

// NewLatencyRegistry creates an empty registry.
func NewLatencyRegistry(windowSize int) *LatencyRegistry {
	return &LatencyRegistry{
		trackers: make(map[string]*LatencyTracker),
		window:   windowSize,
	}
}

func (r *LatencyRegistry) tracker(name string) *LatencyTracker {
	r.mu.RLock()
	t, ok := r.trackers[name]
	r.mu.RUnlock()
	if ok {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok = r.trackers[name]; !ok {
		t = NewLatencyTracker(r.window)
		r.trackers[name] = t
	}
	return t
}

// Record records a latency for the named call.
func (r *LatencyRegistry) Record(name string, d time.Duration, failed bool) {
	r.tracker(name).Record(d, failed)
}

// Observe starts a timer; call the returned func with the call's error.
func (r *LatencyRegistry) Observe(name string) func(err error) {
	start := time.Now()
	return func(err error) {
		r.Record(name, time.Since(start), err != nil)
	}
}

// Stats returns statistics for one call name.
func (r *LatencyRegistry) Stats(name string) LatencyStats {
	r.mu.RLock()
	t, ok := r.trackers[name]
	r.mu.RUnlock()
	if !ok {
		return LatencyStats{}
	}
	return t.Stats()
}

// AllStats returns statistics for every call name seen so far.
func (r *LatencyRegistry) AllStats() map[string]LatencyStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]LatencyStats, len(r.trackers))
	for name, t := range r.trackers {
		out[name] = t.Stats()
	}
	return out
}

var (
	globalRegistry     *LatencyRegistry
	globalRegistryOnce sync.Once
)

// GlobalRegistry returns the process-wide registry.
func GlobalRegistry() *LatencyRegistry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewLatencyRegistry(500)
	})
	return globalRegistry
}

// Observe times a call against the global registry.
func Observe(name string) func(err error) {
	return GlobalRegistry().Observe(name)
}
