// Package cache implements the analysis cache port: an in-process LRU in
// front of an optional Redis tier.
package cache

import (
	"context"
	"time"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"
	pcache "advisor_server/pkg/cache"
	"advisor_server/pkg/logger"

	"github.com/goccy/go-json"
)

// AnalysisCache implements out.AnalysisCache.
type AnalysisCache struct {
	l1  *pcache.L1Cache
	l2  *pcache.RedisCache // nil when Redis is not configured
	ttl time.Duration
}

var _ out.AnalysisCache = (*AnalysisCache)(nil)

// NewAnalysisCache creates the cache. redis may be nil.
func NewAnalysisCache(maxEntries int, ttl time.Duration, redis *pcache.RedisCache) *AnalysisCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AnalysisCache{
		l1:  pcache.NewL1Cache(maxEntries, ttl),
		l2:  redis,
		ttl: ttl,
	}
}

// Get checks L1 then Redis, refilling L1 on a Redis hit. Redis errors count
// as misses.
func (c *AnalysisCache) Get(ctx context.Context, key string) (*domain.AnalysisResponse, bool) {
	if data, ok := c.l1.Get(key); ok {
		var resp domain.AnalysisResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, true
		}
		c.l1.Delete(key)
	}

	if c.l2 == nil {
		return nil, false
	}
	var resp domain.AnalysisResponse
	found, err := c.l2.GetJSON(ctx, key, &resp)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Warn("redis analysis cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	if data, err := json.Marshal(&resp); err == nil {
		c.l1.Set(key, data)
	}
	return &resp, true
}

// Set stores resp in both tiers. Only the Redis write can fail.
func (c *AnalysisCache) Set(ctx context.Context, key string, resp *domain.AnalysisResponse) error {
	if resp == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	c.l1.Set(key, data)

	if c.l2 == nil {
		return nil
	}
	return c.l2.SetJSON(ctx, key, resp, c.ttl)
}

// Ping checks the Redis tier; without Redis the cache is always ready.
func (c *AnalysisCache) Ping(ctx context.Context) error {
	if c.l2 == nil {
		return nil
	}
	return c.l2.Ping(ctx)
}

// Len is the number of L1 entries.
func (c *AnalysisCache) Len() int {
	return c.l1.Len()
}
