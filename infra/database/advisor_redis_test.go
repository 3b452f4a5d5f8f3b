package database

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestApplyRedisConfig(t *testing.T) {
	opt, err := redis.ParseURL("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	applyRedisConfig(opt, RedisConfig{PoolSize: 7, ReadTimeout: time.Second}.withDefaults())

	if opt.PoolSize != 7 {
		t.Errorf("PoolSize = %d, want 7", opt.PoolSize)
	}
	if opt.ReadTimeout != time.Second {
		t.Errorf("ReadTimeout = %v, want 1s", opt.ReadTimeout)
	}
	if opt.DB != 2 {
		t.Errorf("DB = %d, want 2", opt.DB)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := RedisConfig{}.withDefaults()
	def := DefaultRedisConfig()
	if cfg.PoolSize != def.PoolSize {
		t.Errorf("PoolSize = %d, want %d", cfg.PoolSize, def.PoolSize)
	}
	if cfg.PingTimeout != def.PingTimeout {
		t.Errorf("PingTimeout = %v, want %v", cfg.PingTimeout, def.PingTimeout)
	}
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	if _, err := NewRedis("://nope"); err == nil {
		t.Fatal("expected parse error")
	}
}
