package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCORE_SOURCE", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ScoreSource != ScoreSourceDeterministic {
		t.Errorf("ScoreSource = %q, want deterministic", cfg.ScoreSource)
	}
	if cfg.ColorSimilarityThreshold != 40 {
		t.Errorf("ColorSimilarityThreshold = %v, want 40", cfg.ColorSimilarityThreshold)
	}
	if cfg.AnalysisCacheTTL != 30*time.Minute {
		t.Errorf("AnalysisCacheTTL = %v", cfg.AnalysisCacheTTL)
	}
	if cfg.HasGemini() {
		t.Error("HasGemini should be false without a key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCORE_SOURCE", "AI")
	t.Setenv("COLOR_SIMILARITY_THRESHOLD", "25.5")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("NODE_ID", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ScoreSource != ScoreSourceAI {
		t.Errorf("ScoreSource = %q, want ai", cfg.ScoreSource)
	}
	if cfg.ColorSimilarityThreshold != 25.5 {
		t.Errorf("threshold = %v", cfg.ColorSimilarityThreshold)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.NodeID != 7 {
		t.Errorf("NodeID = %d", cfg.NodeID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"bad source", func(c *Config) { c.ScoreSource = "random" }, true},
		{"zero threshold", func(c *Config) { c.ColorSimilarityThreshold = 0 }, true},
		{"node too big", func(c *Config) { c.NodeID = 4096 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{ScoreSource: ScoreSourceDeterministic, ColorSimilarityThreshold: 40, ImageBatchWorkers: 2}
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
