package metrics

import (
	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Redis pool health (analysis cache backend)
// =============================================================================

// PoolHealthStatus indicates the health of a connection pool.
type PoolHealthStatus string

const (
	PoolHealthy   PoolHealthStatus = "healthy"
	PoolDegraded  PoolHealthStatus = "degraded"
	PoolUnhealthy PoolHealthStatus = "unhealthy"
	PoolDisabled  PoolHealthStatus = "disabled"
)

// RedisPoolStats mirrors redis.PoolStats with JSON names.
type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

// PoolHealth is the health assessment of a pool.
type PoolHealth struct {
	Status  PoolHealthStatus `json:"status"`
	Stats   RedisPoolStats   `json:"stats"`
	Message string           `json:"message,omitempty"`
}

// GetRedisPoolStats reads pool counters; a nil client yields zero stats.
func GetRedisPoolStats(client *redis.Client) RedisPoolStats {
	if client == nil {
		return RedisPoolStats{}
	}
	s := client.PoolStats()
	return RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

// AssessRedisPool grades pool health from its timeout ratio.
func AssessRedisPool(client *redis.Client) PoolHealth {
	if client == nil {
		return PoolHealth{Status: PoolDisabled, Message: "redis not configured"}
	}
	stats := GetRedisPoolStats(client)
	return PoolHealth{Status: gradeTimeouts(stats), Stats: stats}
}

func gradeTimeouts(s RedisPoolStats) PoolHealthStatus {
	lookups := s.Hits + s.Misses
	if lookups == 0 {
		return PoolHealthy
	}
	ratio := float64(s.Timeouts) / float64(lookups)
	switch {
	case ratio >= 0.25:
		return PoolUnhealthy
	case ratio >= 0.05:
		return PoolDegraded
	default:
		return PoolHealthy
	}
}
