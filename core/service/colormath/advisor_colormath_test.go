package colormath

import (
	"math"
	"testing"

	"advisor_server/core/domain"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in     string
		want   domain.RGB
		wantOK bool
	}{
		{"#FF9933", domain.RGB{R: 255, G: 153, B: 51}, true},
		{"ff9933", domain.RGB{R: 255, G: 153, B: 51}, true},
		{" #000080 ", domain.RGB{B: 128}, true},
		{"#F93", domain.RGB{}, false},
		{"#FF99331", domain.RGB{}, false},
		{"#GG9933", domain.RGB{}, false},
		{"", domain.RGB{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := HexToRGB(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("HexToRGB(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRGBDistance(t *testing.T) {
	black := domain.RGB{}
	white := domain.RGB{R: 255, G: 255, B: 255}

	if d := RGBDistance(black, white); math.Abs(d-MaxDistance) > 1e-6 {
		t.Errorf("black/white distance = %v, want %v", d, MaxDistance)
	}
	if d := RGBDistance(domain.RGB{R: 10}, domain.RGB{R: 40}); math.Abs(d-30) > 1e-9 {
		t.Errorf("distance = %v, want 30", d)
	}
	if d := RGBDistance(white, white); d != 0 {
		t.Errorf("identical colours distance = %v", d)
	}
}

func TestColorsSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "#FF9933", "#FF9933", true},
		{"near saffron", "#FA9530", "#FF9933", true},
		{"exactly 40 apart is not similar", "#000000", "#280000", false},
		{"39 apart", "#000000", "#270000", true},
		{"far", "#FF9933", "#000080", false},
		{"malformed", "orange", "#FF9933", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColorsSimilar(tt.a, tt.b, DefaultThreshold); got != tt.want {
				t.Errorf("ColorsSimilar(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsColorInPalette(t *testing.T) {
	palette := []string{"#FF9933", "#DC143C", "#FFD700"}
	if !IsColorInPalette("#FFD705", palette) {
		t.Error("gold variant should be in palette")
	}
	if IsColorInPalette("#0000FF", palette) {
		t.Error("blue should not be in palette")
	}
	if IsColorInPalette("#FF9933", nil) {
		t.Error("empty palette matches nothing")
	}
}

func TestMatcherThreshold(t *testing.T) {
	strict := NewMatcher(5)
	if strict.Similar("#000000", "#0A0000") {
		t.Error("10 apart should fail a threshold of 5")
	}
	if NewMatcher(0).Threshold != DefaultThreshold {
		t.Error("zero threshold should fall back to the default")
	}
}

func TestParseHexLoose(t *testing.T) {
	got, ok := ParseHexLoose("Use saffron color #FF9933 for better appeal")
	if !ok || got != domain.Saffron {
		t.Errorf("ParseHexLoose = %v, %v", got, ok)
	}
	if _, ok := ParseHexLoose("no colour here"); ok {
		t.Error("expected no match")
	}
}

func TestRankPalette(t *testing.T) {
	ranked := RankPalette("#FF9A30", []string{"#000080", "bad", "#FF9933"})
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
	if ranked[0].Hex != "#FF9933" {
		t.Errorf("closest = %s, want #FF9933", ranked[0].Hex)
	}
}
