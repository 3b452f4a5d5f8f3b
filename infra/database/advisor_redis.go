// Package database opens the optional Redis connection behind the analysis cache.
package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds pool settings for the cache connection.
type RedisConfig struct {
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingTimeout  time.Duration
}

// DefaultRedisConfig is sized for cache lookups: small values, short timeouts.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		PoolSize:     20,
		MinIdleConns: 2,
		MaxRetries:   2,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PingTimeout:  5 * time.Second,
	}
}

// NewRedis connects with the default pool settings.
func NewRedis(redisURL string) (*redis.Client, error) {
	return NewRedisWithConfig(redisURL, DefaultRedisConfig())
}

// NewRedisWithConfig parses redisURL, applies cfg and pings the server.
func NewRedisWithConfig(redisURL string, cfg RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	applyRedisConfig(opt, cfg)

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (cfg RedisConfig) withDefaults() RedisConfig {
	def := DefaultRedisConfig()
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = def.PoolSize
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	return cfg
}

// applyRedisConfig keeps the parsed URL's timeouts where cfg leaves them zero.
func applyRedisConfig(opt *redis.Options, cfg RedisConfig) {
	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.MaxRetries = cfg.MaxRetries
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}
}
