package http

import (
	"context"
	"sort"
	"time"

	"advisor_server/pkg/metrics"
	"advisor_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthChecker is anything readiness can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler takes the named dependencies checked by /ready.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	allHealthy := true
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			allHealthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}
	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// MetricsHandler reports outbound call latency and cache pool health.
type MetricsHandler struct {
	registry *metrics.LatencyRegistry
	redis    *redis.Client
}

// NewMetricsHandler uses the global registry when registry is nil. redis may
// be nil when the L2 cache is disabled.
func NewMetricsHandler(registry *metrics.LatencyRegistry, redis *redis.Client) *MetricsHandler {
	if registry == nil {
		registry = metrics.GlobalRegistry()
	}
	return &MetricsHandler{registry: registry, redis: redis}
}

func (h *MetricsHandler) Register(router fiber.Router) {
	router.Get("/metrics/latency", h.Latency)
	router.Get("/metrics/cache", h.Cache)
}

// Latency returns percentiles per call name.
// GET /metrics/latency
func (h *MetricsHandler) Latency(c *fiber.Ctx) error {
	all := h.registry.AllStats()
	out := make(map[string]map[string]any, len(all))
	for name, s := range all {
		out[name] = s.ToMap()
	}
	return response.OK(c, out)
}

// Cache grades the Redis pool backing the analysis cache.
// GET /metrics/cache
func (h *MetricsHandler) Cache(c *fiber.Ctx) error {
	return response.OK(c, metrics.AssessRedisPool(h.redis))
}
