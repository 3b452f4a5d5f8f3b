package bootstrap

import (
	"context"
	"os"
	"strings"
	"time"

	"advisor_server/adapter/in/http"
	"advisor_server/adapter/out/gemini"
	"advisor_server/config"
	"advisor_server/infra/middleware"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/logger"
	"advisor_server/pkg/ratelimit"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
)

// clientIdleTTL is how long an idle client's rate bucket is kept.
const clientIdleTTL = 10 * time.Minute

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logger.Init(logger.Config{
		Level:   logLevel(cfg),
		Service: "advisor-api",
	})

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Str("component", "bootstrap").Logger()

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		// Batch element requests stay small; images go out, not in.
		BodyLimit: 1 * 1024 * 1024,

		ServerHeader:       "",
		DisableDefaultDate: true,

		// Header and param strings outlive the request as session keys.
		Immutable: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.SecurityHeaders(cfg.AllowedOrigins))
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	if allowOrigins == "" {
		allowOrigins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,X-Request-ID,X-Session-ID",
		ExposeHeaders: "X-Request-ID,X-Session-ID,Retry-After",
		MaxAge:        86400,
	}))

	http.NewHealthHandler(healthChecks(deps)).Register(app)

	api := app.Group("/api/v1")
	api.Use(middleware.RequireJSON())
	api.Use(middleware.ClientRateLimit(ratelimit.NewKeyedLimiter(cfg.ClientRatePerSec, cfg.ClientRateBurst, clientIdleTTL)))

	http.NewAdvisorHandler(deps.Advisor).Register(api)
	http.NewCanvasHandler(deps.Document).Register(api)
	http.NewMetricsHandler(nil, deps.Redis).Register(api)

	zlog.Info().
		Str("score_source", cfg.ScoreSource).
		Bool("gemini", deps.Gemini != nil).
		Bool("sarvam", deps.Sarvam != nil).
		Bool("redis", deps.Redis != nil).
		Msg("API routes registered")

	return app, cleanup, nil
}

func logLevel(cfg *config.Config) logger.Level {
	if cfg.IsDevelopment() && cfg.LogLevel == "info" {
		return logger.LevelDebug
	}
	return logger.ParseLevel(cfg.LogLevel)
}

// healthChecks lists what /ready pings. The AI upstream counts as not ready
// only while its breaker is open.
func healthChecks(deps *Dependencies) map[string]http.HealthChecker {
	checks := map[string]http.HealthChecker{
		"cache": deps.Cache,
	}
	if deps.Gemini != nil {
		checks["gemini"] = breakerCheck{client: deps.Gemini}
	}
	return checks
}

type breakerCheck struct {
	client *gemini.Client
}

func (b breakerCheck) Ping(_ context.Context) error {
	if b.client.BreakerState() == "open" {
		return apperr.New(apperr.CodeUnavailable, "gemini circuit breaker is open", fiber.StatusServiceUnavailable)
	}
	return nil
}
