package textclass

import "testing"

func TestScriptMatches(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language string
		want     bool
	}{
		{"tamil greeting", "பொங்கல் வாழ்த்துக்கள்", "Tamil", true},
		{"tamil text for hindi", "பொங்கல்", "Hindi", false},
		{"devanagari for marathi", "गणपती बाप्पा मोरया", "Marathi", true},
		{"devanagari for hindi", "दिवाली", "hindi", true},
		{"gurmukhi for punjabi", "ਵਿਸਾਖੀ", "Punjabi", true},
		{"bengali", "দুর্গা পূজা", "Bengali", true},
		{"kannada", "ದಸರಾ", "Kannada", true},
		{"malayalam", "ഓണം", "Malayalam", true},
		{"gujarati", "ગરબા", "Gujarati", true},
		{"telugu", "తెలుగు", "Telugu", true},
		{"latin for tamil", "Happy Pongal", "Tamil", false},
		{"odia falls back to non-ascii", "ଓଡ଼ିଆ", "Odia", true},
		{"ascii for odia", "Odisha", "Odia", false},
		{"mixed script matches", "Sale ५०%", "Hindi", true},
		{"empty", "", "Tamil", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScriptMatches(tt.text, tt.language); got != tt.want {
				t.Errorf("ScriptMatches(%q, %q) = %v, want %v", tt.text, tt.language, got, tt.want)
			}
		})
	}
}

func TestIsEnglish(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Happy Diwali", true},
		{"SALE", true},
		{"50% OFF", false},
		{"पोंगल", false},
		{"Pongal பொங்கல்", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsEnglish(tt.text); got != tt.want {
				t.Errorf("IsEnglish(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsNonASCIIRun(t *testing.T) {
	if !IsNonASCIIRun("வணக்கம்") {
		t.Error("tamil word should be a non-ASCII run")
	}
	if IsNonASCIIRun("வணக்கம் hi") {
		t.Error("mixed text is not a pure run")
	}
	if IsNonASCIIRun("") {
		t.Error("empty string is not a run")
	}
	if !HasScriptBlock("Tamil") || HasScriptBlock("Odia") {
		t.Error("HasScriptBlock mismatch")
	}
}
