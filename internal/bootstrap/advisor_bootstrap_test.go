package bootstrap

import (
	"net/http/httptest"
	"testing"
	"time"

	"advisor_server/config"
	"advisor_server/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                     "0",
		Environment:              "test",
		LogLevel:                 "error",
		ScoreSource:              config.ScoreSourceDeterministic,
		ColorSimilarityThreshold: 40,
		AnalysisCacheTTL:         time.Minute,
		AnalysisCacheMaxEntries:  16,
		ImageBatchWorkers:        2,
		ClientRatePerSec:         100,
		ClientRateBurst:          100,
		AllowedOrigins:           []string{"http://localhost:5173"},
	}
}

func TestNewDependenciesWithoutUpstreams(t *testing.T) {
	deps, cleanup, err := NewDependencies(testConfig())
	if err != nil {
		t.Fatalf("NewDependencies: %v", err)
	}
	defer cleanup()

	if deps.Advisor == nil || deps.Document == nil || deps.Cache == nil {
		t.Fatal("core dependencies not wired")
	}
	if deps.Gemini != nil || deps.Sarvam != nil || deps.Redis != nil {
		t.Error("optional upstreams should be nil without configuration")
	}
	if _, ok := healthChecks(deps)["gemini"]; ok {
		t.Error("gemini readiness check registered without a client")
	}
}

func TestNewAPIServesHealth(t *testing.T) {
	app, cleanup, err := NewAPI(testConfig())
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	defer cleanup()

	for _, path := range []string{"/health", "/ready", "/api/v1/regions"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Errorf("%s missing X-Request-ID", path)
		}
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env, level string
		want       logger.Level
	}{
		{"development", "info", logger.LevelDebug},
		{"production", "info", logger.LevelInfo},
		{"production", "warn", logger.LevelWarn},
	}
	for _, tt := range tests {
		cfg := &config.Config{Environment: tt.env, LogLevel: tt.level}
		if got := logLevel(cfg); got != tt.want {
			t.Errorf("logLevel(%s, %s) = %v, want %v", tt.env, tt.level, got, tt.want)
		}
	}
}
