package cache

import (
	"context"
	"testing"
	"time"

	"advisor_server/core/domain"
)

func TestAnalysisCacheL1(t *testing.T) {
	ctx := context.Background()
	c := NewAnalysisCache(2, time.Minute, nil)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("empty cache hit")
	}

	want := &domain.AnalysisResponse{
		Score:           82,
		Analysis:        "Good use of Tamil script",
		Color:           []domain.ColorSuggestion{{Original: "#000000", Suggestion: "#FF9933"}},
		Recommendations: []string{"Add a border"},
	}
	if err := c.Set(ctx, "a", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(ctx, "a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Score != 82 || len(got.Color) != 1 || got.Color[0].Suggestion != "#FF9933" {
		t.Errorf("got %+v", got)
	}

	// the cached value is a copy
	got.Score = 1
	again, _ := c.Get(ctx, "a")
	if again.Score != 82 {
		t.Errorf("cache entry mutated through returned value: %d", again.Score)
	}
}

func TestAnalysisCacheEvicts(t *testing.T) {
	ctx := context.Background()
	c := NewAnalysisCache(2, time.Minute, nil)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, &domain.AnalysisResponse{Score: 50}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if c.Len() != 2 {
		t.Errorf("len = %d", c.Len())
	}
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("oldest entry should be evicted")
	}
}

func TestAnalysisCacheNilAndPing(t *testing.T) {
	c := NewAnalysisCache(0, 0, nil)
	if err := c.Set(context.Background(), "x", nil); err != nil {
		t.Errorf("Set(nil) = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("nil response should not be stored")
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping without redis = %v", err)
	}
}
