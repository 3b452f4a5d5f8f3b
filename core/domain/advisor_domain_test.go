package domain

import (
	"fmt"
	"sync"
	"testing"
)

func TestSuggestionID(t *testing.T) {
	tests := []struct {
		name string
		s    Suggestion
		want string
	}{
		{"text with tamil", TextSuggestion{Original: "Hello", Suggestion: "வணக்கம்"}, "sug-2582069805"},
		{"color", ColorSuggestion{Original: "#000000", Suggestion: "#FF9933"}, "sug-3571020337"},
		{"style beyond int32", StyleSuggestion{Original: "Arial, 24pt", Suggestion: "Noto Sans Tamil, 28pt"}, "sug-8245944660"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.ID(); got != tt.want {
				t.Errorf("ID() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSuggestionIDStable(t *testing.T) {
	a := TextSuggestion{Original: "x", Suggestion: "y"}
	b := TextSuggestion{Original: "x", Suggestion: "y"}
	if a.ID() != b.ID() {
		t.Error("identical suggestions must share an id")
	}
	if a.ID() == (StyleSuggestion{Original: "x", Suggestion: "y"}).ID() {
		t.Error("kind must be part of the id")
	}
}

func TestAwardsBonus(t *testing.T) {
	tests := []struct {
		s    Suggestion
		want bool
	}{
		{TextSuggestion{}, true},
		{StyleSuggestion{}, true},
		{ColorSuggestion{}, true},
		{ImageSuggestion{}, false},
		{LegacyTextSuggestion{}, false},
	}
	for _, tt := range tests {
		if got := AwardsBonus(tt.s); got != tt.want {
			t.Errorf("AwardsBonus(%T) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestSuggestionPayloadRoundTrip(t *testing.T) {
	img := ImageSuggestion{Type: "icon", Prompt: "p", Description: "d", Dimensions: Dimensions{256, 256}, IsImagePrompt: true}
	got, err := PayloadOf(img).ToSuggestion()
	if err != nil {
		t.Fatal(err)
	}
	if got != Suggestion(img) {
		t.Errorf("round trip = %+v, want %+v", got, img)
	}

	noDims, _ := SuggestionPayload{Kind: SuggestionImage, Type: "icon"}.ToSuggestion()
	if noDims.(ImageSuggestion).Dimensions != DefaultDimensions {
		t.Errorf("missing dimensions should default to 512x512")
	}

	if _, err := (SuggestionPayload{Kind: "bogus"}).ToSuggestion(); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestScoreStateIdempotentBonus(t *testing.T) {
	s := NewScoreState(60)

	if !s.OnSuggestionApplied("sug-1") {
		t.Fatal("first application should be accepted")
	}
	if s.OnSuggestionApplied("sug-1") {
		t.Fatal("second application must be rejected")
	}

	snap := s.Snapshot()
	if snap.Bonus != 2 {
		t.Errorf("Bonus = %d, want 2", snap.Bonus)
	}
	if snap.Current != 62 {
		t.Errorf("Current = %d, want 62", snap.Current)
	}
}

func TestScoreStateCapsAtMax(t *testing.T) {
	s := NewScoreState(95)
	for i := 0; i < 10; i++ {
		s.OnSuggestionApplied(fmt.Sprintf("sug-%d", i))
	}
	if got := s.Current(); got != MaxScore {
		t.Errorf("Current = %d, want %d", got, MaxScore)
	}
}

func TestScoreStateResetKeepsBonus(t *testing.T) {
	s := NewScoreState(50)
	s.OnSuggestionApplied("sug-9")
	s.ResetBase(70)

	if got := s.Current(); got != 72 {
		t.Errorf("Current = %d, want 72", got)
	}
	if !s.IsApplied("sug-9") {
		t.Error("applied ids must survive a base reset")
	}
}

func TestScoreStateConcurrent(t *testing.T) {
	s := NewScoreState(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.OnSuggestionApplied(fmt.Sprintf("sug-%d", i%10))
		}(i)
	}
	wg.Wait()
	if got := s.Snapshot().Bonus; got != 20 {
		t.Errorf("Bonus = %d, want 20", got)
	}
}

func TestRGBAHex(t *testing.T) {
	c := RGBA{Red: 1, Green: 0.6, Blue: 0.2, Alpha: 1}
	if got := c.Hex(); got != "#FF9933" {
		t.Errorf("Hex() = %s, want #FF9933", got)
	}
	if Saffron.RGBA().RGB() != Saffron {
		t.Error("RGB -> RGBA -> RGB should be lossless")
	}
}

func TestElementSequences(t *testing.T) {
	e := ElementDescriptor{
		Kind:          ElementText,
		TextContent:   Ptr("Pongal"),
		FontName:      Ptr("Noto Sans Tamil"),
		FillColor:     &RGBA{Red: 1, Alpha: 1},
		SiblingTexts:  []string{"", "Sale"},
		SiblingFonts:  []string{"Arial"},
		SiblingColors: []RGBA{{Green: 1, Alpha: 1}},
	}

	if got := e.Texts(); len(got) != 2 || got[0] != "Pongal" || got[1] != "Sale" {
		t.Errorf("Texts() = %v", got)
	}
	if got := e.Fonts(); len(got) != 2 || got[1] != "Arial" {
		t.Errorf("Fonts() = %v", got)
	}
	if got := e.Colors(); len(got) != 2 || got[0] != "#FF0000" || got[1] != "#00FF00" {
		t.Errorf("Colors() = %v", got)
	}
	if len(CanvasDescriptor().Texts()) != 0 {
		t.Error("canvas has no texts")
	}
}
