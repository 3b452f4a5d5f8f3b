package domain

// RegionProfile is the static cultural profile of one Indian state or UT.
// Loaded once at start-up and never mutated.
type RegionProfile struct {
	Name              string     `json:"name" yaml:"name"`
	Colors            []string   `json:"colors" yaml:"colors"`
	Keywords          []string   `json:"keywords" yaml:"keywords"`
	NativeKeywords    []string   `json:"native_keywords,omitempty" yaml:"native_keywords"`
	Languages         []string   `json:"languages" yaml:"languages"`
	RegionalFontNames []string   `json:"regional_font_names,omitempty" yaml:"-"`
	ImageStyle        ImageStyle `json:"image_style" yaml:"image_style"`
}

// PrimaryLanguage is the first listed language, or English.
func (r RegionProfile) PrimaryLanguage() string {
	if len(r.Languages) == 0 {
		return "English"
	}
	return r.Languages[0]
}

// AllKeywords returns Latin keywords followed by native-script aliases.
func (r RegionProfile) AllKeywords() []string {
	out := make([]string, 0, len(r.Keywords)+len(r.NativeKeywords))
	out = append(out, r.Keywords...)
	return append(out, r.NativeKeywords...)
}

// ImageStyle drives the regional image prompt.
type ImageStyle struct {
	Colors   string `json:"colors" yaml:"colors"`
	Patterns string `json:"patterns" yaml:"patterns"`
	Symbols  string `json:"symbols" yaml:"symbols"`
	Style    string `json:"style" yaml:"style"`
}

// GenericImageStyle is used for regions without a dedicated style.
var GenericImageStyle = ImageStyle{
	Colors:   "vibrant traditional Indian colors",
	Patterns: "traditional Indian patterns",
	Symbols:  "cultural symbols",
	Style:    "traditional Indian art style",
}
