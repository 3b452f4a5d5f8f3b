package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Base score sources.
const (
	ScoreSourceDeterministic = "deterministic"
	ScoreSourceAI            = "ai"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	NodeID      int64

	// Redis (optional L2 analysis cache)
	RedisURL string

	// Gemini (OpenAI-compatible endpoint)
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiTextModel  string
	GeminiImageModel string
	LLMMaxTokens     int
	LLMTemperature   float64
	LLMTimeoutSec    int

	// Sarvam translation
	SarvamAPIKey string
	SarvamAPIURL string

	// Scoring
	ScoreSource              string
	ColorSimilarityThreshold float64

	// Analysis cache
	AnalysisCacheTTL        time.Duration
	AnalysisCacheMaxEntries int

	// Outbound AI limits
	ImageBatchWorkers int
	AIRatePerSec      float64
	AIRateBurst       int
	AIMaxConcurrent   int

	// Inbound limits
	ClientRatePerSec float64
	ClientRateBurst  int

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		NodeID:      int64(getEnvInt("NODE_ID", os.Getpid()%1024)),

		RedisURL: getEnv("REDIS_URL", ""),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-flash-latest"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),
		LLMMaxTokens:     getEnvInt("LLM_MAX_TOKENS", 4096),
		LLMTemperature:   getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMTimeoutSec:    getEnvInt("LLM_TIMEOUT_SEC", 90),

		SarvamAPIKey: getEnv("SARVAM_API_KEY", ""),
		SarvamAPIURL: getEnv("SARVAM_API_URL", "https://api.sarvam.ai/v1/translate"),

		ScoreSource:              strings.ToLower(getEnv("SCORE_SOURCE", ScoreSourceDeterministic)),
		ColorSimilarityThreshold: getEnvFloat("COLOR_SIMILARITY_THRESHOLD", 40),

		AnalysisCacheTTL:        time.Duration(getEnvInt("ANALYSIS_CACHE_TTL_MIN", 30)) * time.Minute,
		AnalysisCacheMaxEntries: getEnvInt("ANALYSIS_CACHE_MAX_ENTRIES", 512),

		ImageBatchWorkers: getEnvInt("IMAGE_BATCH_WORKERS", 3),
		AIRatePerSec:      getEnvFloat("AI_RATE_PER_SEC", 2),
		AIRateBurst:       getEnvInt("AI_RATE_BURST", 4),
		AIMaxConcurrent:   getEnvInt("AI_MAX_CONCURRENT", 8),

		ClientRatePerSec: getEnvFloat("CLIENT_RATE_PER_SEC", 5),
		ClientRateBurst:  getEnvInt("CLIENT_RATE_BURST", 20),

		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{
			"https://new.express.adobe.com",
			"https://localhost:5241",
			"http://localhost:5173",
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.ScoreSource {
	case ScoreSourceDeterministic, ScoreSourceAI:
	default:
		return fmt.Errorf("SCORE_SOURCE must be %q or %q, got %q", ScoreSourceDeterministic, ScoreSourceAI, c.ScoreSource)
	}
	if c.ColorSimilarityThreshold <= 0 || c.ColorSimilarityThreshold > 442 {
		return fmt.Errorf("COLOR_SIMILARITY_THRESHOLD out of range: %v", c.ColorSimilarityThreshold)
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("NODE_ID must be within 0..1023, got %d", c.NodeID)
	}
	if c.ImageBatchWorkers < 1 {
		c.ImageBatchWorkers = 1
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// HasGemini reports whether AI text and image calls can be made.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// HasSarvam reports whether translation is configured.
func (c *Config) HasSarvam() bool {
	return c.SarvamAPIKey != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
