// Package httputil builds the pooled HTTP clients used by outbound adapters.
package httputil

import (
	"net"
	"net/http"
	"time"
)

// =============================================================================
// Client configuration
// =============================================================================

// ClientConfig holds HTTP client configuration.
type ClientConfig struct {
	Name                string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
	ResponseTimeout     time.Duration
	KeepAliveInterval   time.Duration
}

// DefaultClientConfig returns general-purpose settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Name:                "default",
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     30 * time.Second,
		KeepAliveInterval:   30 * time.Second,
	}
}

// GeminiClientConfig is tuned for text and image generation.
// Image calls regularly take tens of seconds.
func GeminiClientConfig(timeout time.Duration) ClientConfig {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return ClientConfig{
		Name:                "gemini",
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     120 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     timeout,
		KeepAliveInterval:   30 * time.Second,
	}
}

// SarvamClientConfig is for short translation calls.
func SarvamClientConfig() ClientConfig {
	return ClientConfig{
		Name:                "sarvam",
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     60 * time.Second,
		DialTimeout:         5 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		ResponseTimeout:     20 * time.Second,
		KeepAliveInterval:   30 * time.Second,
	}
}

// NewClient creates a pooled client from cfg.
func NewClient(cfg ClientConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAliveInterval,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:     true,
		ResponseHeaderTimeout: cfg.ResponseTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ResponseTimeout,
	}
}

// PoolStats summarises a client configuration for diagnostics.
type PoolStats struct {
	Name                string `json:"name"`
	MaxIdleConnsPerHost int    `json:"max_idle_conns_per_host"`
	MaxConnsPerHost     int    `json:"max_conns_per_host"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
}

// Stats returns the diagnostic view of cfg.
func (cfg ClientConfig) Stats() PoolStats {
	return PoolStats{
		Name:                cfg.Name,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		TimeoutSeconds:      int(cfg.ResponseTimeout.Seconds()),
	}
}
