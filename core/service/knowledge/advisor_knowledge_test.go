package knowledge

import (
	"testing"

	"advisor_server/core/domain"
)

func TestLoadEmbedded(t *testing.T) {
	kb, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(kb.Regions()); got != 36 {
		t.Errorf("regions = %d, want 36", got)
	}

	tn, ok := kb.Region("tamil nadu")
	if !ok {
		t.Fatal("Tamil Nadu missing")
	}
	if tn.Name != "Tamil Nadu" || tn.PrimaryLanguage() != "Tamil" {
		t.Errorf("unexpected profile %+v", tn)
	}
	if len(tn.Colors) != 5 || tn.Colors[0] != "#FF9933" {
		t.Errorf("colors = %v", tn.Colors)
	}
	if len(tn.Keywords) != 8 {
		t.Errorf("keywords = %v", tn.Keywords)
	}
	if len(tn.NativeKeywords) == 0 {
		t.Error("native keywords should be loaded")
	}
	if tn.RegionalFontNames[0] != "Tamil" {
		t.Errorf("regional fonts = %v", tn.RegionalFontNames)
	}
}

func TestRegionsWithoutPaletteHaveGenericStyleOrOwn(t *testing.T) {
	kb := MustLoad()
	ladakh, ok := kb.Region("Ladakh")
	if !ok {
		t.Fatal("Ladakh missing")
	}
	if len(ladakh.Colors) != 0 || len(ladakh.Keywords) != 0 {
		t.Error("Ladakh has no curated palette")
	}
	if ladakh.ImageStyle != domain.GenericImageStyle {
		t.Errorf("Ladakh style = %+v, want generic", ladakh.ImageStyle)
	}
	if kb.ImageStyle("Kerala").Style != "Kerala mural art style" {
		t.Errorf("Kerala style = %+v", kb.ImageStyle("Kerala"))
	}
	if kb.ImageStyle("Atlantis") != domain.GenericImageStyle {
		t.Error("unknown region should use generic style")
	}
}

func TestLanguageLookup(t *testing.T) {
	kb := MustLoad()

	tests := []struct {
		in       string
		wantName string
		wantCode string
	}{
		{"Tamil", "Tamil", "ta-IN"},
		{"tamil", "Tamil", "ta-IN"},
		{"ta-IN", "Tamil", "ta-IN"},
		{"hi", "Hindi", "hi-IN"},
		{"Konkani", "Konkani", "kok-IN"},
		{"Klingon", "Klingon", DefaultLanguageCode},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := kb.CanonicalLanguage(tt.in); got != tt.wantName {
				t.Errorf("CanonicalLanguage(%q) = %q, want %q", tt.in, got, tt.wantName)
			}
			if got := kb.LanguageCode(tt.in); got != tt.wantCode {
				t.Errorf("LanguageCode(%q) = %q, want %q", tt.in, got, tt.wantCode)
			}
		})
	}
}

func TestRegionalFonts(t *testing.T) {
	kb := MustLoad()
	tn, _ := kb.Region("Tamil Nadu")
	mh, _ := kb.Region("Maharashtra")

	if got := kb.RegionalFonts("Marathi", mh); got[0] != "Devanagari" {
		t.Errorf("Marathi fonts = %v", got)
	}
	// English has no script fonts, so the region's primary language decides.
	if got := kb.RegionalFonts("English", tn); len(got) == 0 || got[1] != "Noto Sans Tamil" {
		t.Errorf("fallback fonts = %v", got)
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("regions:\n  - name: Goa\n  - name: goa\n"))
	if err == nil {
		t.Error("expected duplicate region error")
	}
	if _, err := Parse([]byte("regions: [")); err == nil {
		t.Error("expected decode error")
	}
}
