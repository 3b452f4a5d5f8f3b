package apply

import (
	"context"
	"errors"
	"testing"

	"advisor_server/core/domain"
	"advisor_server/pkg/apperr"
)

func TestFontMatches(t *testing.T) {
	tests := []struct {
		node, wanted string
		want         bool
	}{
		{"ArialMT", "Arial", true},
		{"Noto Sans Tamil", "noto-sans-tamil", true},
		{"Poppins-Black", "Poppins Black", true},
		{"Georgia", "Arial", false},
		{"", "Arial", false},
	}
	for _, tt := range tests {
		if got := FontMatches(tt.node, tt.wanted); got != tt.want {
			t.Errorf("FontMatches(%q, %q) = %v, want %v", tt.node, tt.wanted, got, tt.want)
		}
	}
}

func TestApplySuggestion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		fonts    []string
		selected []string
		sug      domain.Suggestion
		wantCode string
		check    func(t *testing.T, f *fixture)
	}{
		{
			name: "text replaced",
			sug:  domain.TextSuggestion{Original: "Happy Pongal", Suggestion: "இனிய பொங்கல்"},
			check: func(t *testing.T, f *fixture) {
				if n, _ := f.doc.Node("heading"); n.Text != "இனிய பொங்கல்" {
					t.Errorf("text = %q", n.Text)
				}
			},
		},
		{
			name:     "text not found",
			sug:      domain.TextSuggestion{Original: "Diwali Sale", Suggestion: "x"},
			wantCode: apperr.CodeApplicationFailure,
		},
		{
			name: "style applied to matching nodes",
			sug:  domain.StyleSuggestion{Original: "Arial, 20pt", Suggestion: "Noto Sans Tamil, 28pt (readable)"},
			check: func(t *testing.T, f *fixture) {
				h, _ := f.doc.Node("heading")
				if h.FontName != "Noto Sans Tamil" || h.FontSizePt != 28 {
					t.Errorf("heading = %+v", h)
				}
				if ft, _ := f.doc.Node("footer"); ft.FontSizePt != 24 {
					t.Errorf("footer changed: %+v", ft)
				}
			},
		},
		{
			name:     "style without size",
			sug:      domain.StyleSuggestion{Original: "Arial", Suggestion: "Raleway, 20pt"},
			wantCode: apperr.CodeApplicationFailure,
		},
		{
			name:     "style font missing",
			fonts:    []string{},
			sug:      domain.StyleSuggestion{Original: "Arial, 20pt", Suggestion: "Raleway, 20pt"},
			wantCode: apperr.CodeApplicationFailure,
		},
		{
			name:     "color recolors fill and stroke",
			selected: []string{"badge", "heading"},
			sug:      domain.ColorSuggestion{Original: "#000000", Suggestion: "#138808 (India green)"},
			check: func(t *testing.T, f *fixture) {
				b, _ := f.doc.Node("badge")
				if b.Fill.Hex() != "#138808" || b.Stroke.Hex() != "#138808" || b.StrokeWidth != 3 {
					t.Errorf("badge = %+v", b)
				}
				if h, _ := f.doc.Node("heading"); h.Fill == nil || h.Fill.Hex() != "#138808" {
					t.Errorf("heading fill = %v", h.Fill)
				}
			},
		},
		{
			name:     "color needs selection",
			sug:      domain.ColorSuggestion{Original: "#000000", Suggestion: "#138808"},
			wantCode: apperr.CodeApplicationFailure,
		},
		{
			name:     "color without hex",
			selected: []string{"badge"},
			sug:      domain.ColorSuggestion{Original: "#000000", Suggestion: "green"},
			wantCode: apperr.CodeApplicationFailure,
		},
		{
			name: "image placeholder",
			sug:  domain.ImageSuggestion{Type: "icon", Prompt: "lotus icon, no text", Description: "Lotus", Dimensions: domain.Dimensions{Width: 256, Height: 256}},
			check: func(t *testing.T, f *fixture) {
				if f.images.req.AspectRatio != "1:1" || f.images.req.Prompt != "lotus icon, no text" {
					t.Errorf("image request = %+v", f.images.req)
				}
				nodes := f.doc.Nodes()
				n := nodes[len(nodes)-1]
				want := domain.Bounds{X: 100, Y: 100, Width: 256, Height: 256}
				if n.Bounds != want || n.ImageURL == "" || *n.Fill != domain.PlaceholderFill {
					t.Errorf("placeholder = %+v", n)
				}
			},
		},
		{
			name:     "legacy classified",
			selected: []string{"badge"},
			sug:      domain.LegacyTextSuggestion{Text: "Add a decorative circle in the corner"},
			check: func(t *testing.T, f *fixture) {
				nodes := f.doc.Nodes()
				if n := nodes[len(nodes)-1]; n.Shape != domain.ShapeCircle {
					t.Errorf("last node = %+v", n)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.fonts, heading, footer, badge)
			if len(tt.selected) > 0 {
				f.selectIDs(t, tt.selected...)
			}

			res, err := f.o.ApplySuggestion(ctx, tt.sug, Context{Region: "Tamil Nadu", Language: "Tamil"})
			if tt.wantCode != "" {
				if !apperr.HasCode(err, tt.wantCode) {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplySuggestion: %v", err)
			}
			if res.Kind == "" || len(res.Nodes) == 0 {
				t.Errorf("result = %+v", res)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestApplyImageWithoutGenerator(t *testing.T) {
	f := newFixture(t, nil)
	o := NewOrchestrator(Deps{Document: f.doc})

	_, err := o.ApplySuggestion(context.Background(), domain.ImageSuggestion{Prompt: "p", Dimensions: domain.DefaultDimensions}, Context{})
	if !apperr.HasCode(err, apperr.CodeUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestGenerateImageErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"rate limited upstream keeps 429", apperr.New(apperr.CodeRateLimited, "slow down", 429), apperr.CodeRateLimited, 429},
		{"open breaker keeps 503", apperr.New(apperr.CodeUnavailable, "breaker open", 503), apperr.CodeUnavailable, 503},
		{"plain error becomes 502", errors.New("connection reset"), apperr.CodeExternalService, 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.images.err = tt.err

			_, err := f.o.GenerateImage(context.Background(), "lotus icon", domain.DefaultDimensions)
			appErr := apperr.AsAppError(err)
			if appErr == nil || appErr.Code != tt.wantCode || appErr.Status != tt.wantStatus {
				t.Fatalf("err = %v, want %s/%d", err, tt.wantCode, tt.wantStatus)
			}
		})
	}
}
