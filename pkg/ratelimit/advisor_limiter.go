// Package ratelimit guards outbound AI calls and inbound clients.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// Guard: semaphore -> token bucket -> call
// =============================================================================

// Config holds guard configuration.
type Config struct {
	MaxConcurrent     int     // concurrent in-flight calls
	RequestsPerSecond float64 // sustained rate
	BurstSize         int     // bucket size
}

// DefaultConfig returns defaults suited to the Gemini free tier.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent:     8,
		RequestsPerSecond: 2,
		BurstSize:         4,
	}
}

// Guard limits concurrency and rate of calls to one upstream.
type Guard struct {
	sem     chan struct{}
	limiter *rate.Limiter
}

// NewGuard creates a guard. Non-positive values fall back to defaults.
func NewGuard(cfg Config) *Guard {
	def := DefaultConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = def.BurstSize
	}
	return &Guard{
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Acquire blocks until a slot and a token are available or ctx is done.
// The returned release must be called once the call finishes.
func (g *Guard) Acquire(ctx context.Context) (func(), error) {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		<-g.sem
		return nil, err
	}

	var once sync.Once
	return func() { once.Do(func() { <-g.sem }) }, nil
}

// InFlight reports the number of calls currently holding a slot.
func (g *Guard) InFlight() int {
	return len(g.sem)
}

// =============================================================================
// KeyedLimiter: one token bucket per client key
// =============================================================================

type keyedEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// DefaultMaxKeys bounds a KeyedLimiter; the least recently seen key is
// dropped past it.
const DefaultMaxKeys = 10000

// KeyedLimiter keeps a bucket per key and forgets idle keys.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	maxKeys int
	now     func() time.Time
}

// NewKeyedLimiter creates a per-key limiter.
func NewKeyedLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &KeyedLimiter{
		entries: make(map[string]*keyedEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		maxKeys: DefaultMaxKeys,
		now:     time.Now,
	}
}

// Allow reports whether key may proceed now.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	e, ok := k.entries[key]
	if !ok {
		if len(k.entries) > 1024 {
			k.sweep(now)
		}
		if len(k.entries) >= k.maxKeys {
			k.evictOldest()
		}
		e = &keyedEntry{limiter: rate.NewLimiter(k.rps, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// must hold k.mu
func (k *KeyedLimiter) sweep(now time.Time) {
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) > k.idleTTL {
			delete(k.entries, key)
		}
	}
}

// must hold k.mu
func (k *KeyedLimiter) evictOldest() {
	var (
		oldest string
		seen   time.Time
	)
	for key, e := range k.entries {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = key, e.lastSeen
		}
	}
	delete(k.entries, oldest)
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
