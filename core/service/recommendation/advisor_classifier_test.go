package recommendation

import (
	"reflect"
	"testing"

	"advisor_server/core/domain"
	"advisor_server/pkg/apperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.ParsedRecommendation
	}{
		{
			name: "hex colour",
			text: "Use saffron color #FF9933 for better appeal",
			want: domain.ColorRecommendation{Color: domain.RGB{R: 255, G: 153, B: 51}},
		},
		{
			name: "rgb literal without keyword",
			text: "Try rgb(34, 139, 34) on the banner",
			want: domain.ColorRecommendation{Color: domain.RGB{R: 34, G: 139, B: 34}},
		},
		{
			name: "colour phrase defaults to saffron",
			text: "Change color of the heading to something warmer",
			want: domain.ColorRecommendation{Color: domain.Saffron},
		},
		{
			name: "decorative circle",
			text: "Add a decorative circle in the corner",
			want: domain.VisualRecommendation{Shape: domain.ShapeCircle},
		},
		{
			name: "red circle is visual not text",
			text: "add a red circle",
			want: domain.VisualRecommendation{Shape: domain.ShapeCircle},
		},
		{
			name: "generic element defaults to rectangle",
			text: "Include a geometric element near the title",
			want: domain.VisualRecommendation{Shape: domain.ShapeRectangle},
		},
		{
			name: "thin black border",
			text: "Add a thin black border around the heading",
			want: domain.BorderRecommendation{Color: domain.RGBA{Alpha: 1}, Width: BorderThin},
		},
		{
			name: "default border",
			text: "Put a border around the tagline",
			want: domain.BorderRecommendation{Color: darkBlue, Width: BorderDefault},
		},
		{
			name: "font size in points",
			text: "Increase the font size to 20pt",
			want: domain.FontSizeRecommendation{Px: 24},
		},
		{
			name: "font size to N",
			text: "Set the font size to 32 for the title",
			want: domain.FontSizeRecommendation{Px: 32},
		},
		{
			name: "relative larger",
			text: "Make the font larger for readability",
			want: domain.FontSizeRecommendation{Relative: domain.SizeLarger},
		},
		{
			name: "switch font",
			text: "Switch the font to Raleway for a contemporary look",
			want: domain.FontFamilyRecommendation{Name: "raleway"},
		},
		{
			name: "font like X or Y",
			text: "Prefer a font like Montserrat or Lato",
			want: domain.FontFamilyRecommendation{Name: "montserrat"},
		},
		{
			name: "text in language",
			text: "Add text in Tamil: 'தீபாவளி வாழ்த்துக்கள்'",
			want: domain.TextRecommendation{Text: "தீபாவளி வாழ்த்துக்கள்"},
		},
		{
			name: "text in language with typographic quotes",
			text: "Add text in Hindi: “नमस्ते”",
			want: domain.TextRecommendation{Text: "नमस्ते"},
		},
		{
			name: "add text colon with typographic quotes",
			text: "Add text: “Happy Diwali”",
			want: domain.TextRecommendation{Text: "Happy Diwali"},
		},
		{
			name: "add text colon unquoted",
			text: "Add text: Happy Pongal",
			want: domain.TextRecommendation{Text: "Happy Pongal"},
		},
		{
			name: "native run",
			text: "Add the greeting नमस्ते दोस्तों below the logo",
			want: domain.TextRecommendation{Text: "नमस्ते दोस्तों"},
		},
		{
			name: "plain advice becomes a note",
			text: "Consider warmer tones overall",
			want: domain.TextRecommendation{Text: "Consider warmer tones overall"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.text)
			if err != nil {
				t.Fatalf("Classify(%q) error = %v", tt.text, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyFailures(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"Add more vibrancy to the layout",
		"Create a sense of festivity",
		"Use bolder typography",
	}
	for _, text := range tests {
		rec, err := Classify(text)
		if err == nil {
			t.Errorf("Classify(%q) = %#v, want failure", text, rec)
			continue
		}
		if !apperr.HasCode(err, apperr.CodeClassificationFailure) {
			t.Errorf("Classify(%q) error code = %v", text, err)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []string{
		"x", "#", "rgb(", "font", "add", "border", "ஃ", "Add text: ''", "font size: abc",
		"add :", "add a", "frame the thing", "like or", "Use the font to", "\n\n",
	}
	for _, in := range inputs {
		rec, err := Classify(in)
		if (rec == nil) == (err == nil) {
			t.Errorf("Classify(%q) = (%v, %v): want exactly one of value or error", in, rec, err)
		}
	}
}

func TestMatchersArePrioritised(t *testing.T) {
	prev := 0
	for _, m := range DefaultMatchers() {
		if m.Priority() <= prev {
			t.Errorf("%s priority %d not after %d", m.Name(), m.Priority(), prev)
		}
		prev = m.Priority()
	}
}

func TestCustomCascade(t *testing.T) {
	c := NewClassifierWith(TextMatcher{})
	if _, err := c.Classify("Add a decorative circle"); err == nil {
		t.Error("without the visual matcher the instruction should fail")
	}
}

func TestPostScriptName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"raleway", "Raleway-Regular"},
		{"Arial", "ArialMT"},
		{"times new roman", "TimesNewRomanPSMT"},
		{"source sans 3", "SourceSans3-Regular"},
		{"lato", "Lato-Regular"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PostScriptName(tt.in); got != tt.want {
			t.Errorf("PostScriptName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	want := []string{"Raleway-Regular", "Raleway-Bold", "Raleway-Light", "Raleway"}
	if got := PostScriptCandidates("raleway"); !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
	if got := PostScriptCandidates("arial"); !reflect.DeepEqual(got, []string{"ArialMT"}) {
		t.Errorf("arial candidates = %v", got)
	}
}

func TestPostScriptVariations(t *testing.T) {
	contains := func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	}

	tests := []struct {
		display string
		want    []string
	}{
		{"Poppins Black", []string{"Poppins Black", "Poppins-Black", "PoppinsBlack", "PoppinsBlack-Regular"}},
		{"BebasNeueBook", []string{"BebasNeueBook", "BebasNeue-Book", "BebasNeueBook-Regular"}},
		{"Poppins-black", []string{"Poppins-black", "Poppinsblack", "Poppins black", "Poppins-Black"}},
	}
	for _, tt := range tests {
		got := PostScriptVariations(tt.display)
		if got[0] != tt.display {
			t.Errorf("%q: first variation = %q", tt.display, got[0])
		}
		for _, w := range tt.want {
			if !contains(got, w) {
				t.Errorf("%q: missing %q in %v", tt.display, w, got)
			}
		}
		seen := map[string]bool{}
		for _, v := range got {
			if seen[v] {
				t.Errorf("%q: duplicate %q", tt.display, v)
			}
			seen[v] = true
		}
	}
}
