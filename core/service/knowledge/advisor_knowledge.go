// Package knowledge is the static regional knowledge base: palettes,
// cultural keywords, languages, fonts and image styles per Indian region.
package knowledge

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"advisor_server/core/domain"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var embeddedRegions []byte

// DefaultLanguageCode is used when a language name is unknown.
const DefaultLanguageCode = "en-IN"

// Language is a supported content language.
type Language struct {
	Name  string   `json:"name" yaml:"name"`
	Code  string   `json:"code" yaml:"code"`
	Fonts []string `json:"fonts,omitempty" yaml:"fonts"`
}

type document struct {
	Languages []Language             `yaml:"languages"`
	Regions   []domain.RegionProfile `yaml:"regions"`
}

// KnowledgeBase is immutable after construction and safe for concurrent reads.
type KnowledgeBase struct {
	regions   map[string]domain.RegionProfile
	order     []string
	languages map[string]Language
	byBase    map[language.Base]Language
}

// Load parses the embedded regions.yaml.
func Load() (*KnowledgeBase, error) {
	return Parse(embeddedRegions)
}

// MustLoad is Load for package-level initialisation and tests.
func MustLoad() *KnowledgeBase {
	kb, err := Load()
	if err != nil {
		panic(err)
	}
	return kb
}

// Parse builds a knowledge base from YAML.
func Parse(data []byte) (*KnowledgeBase, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("knowledge: decode: %w", err)
	}

	kb := &KnowledgeBase{
		regions:   make(map[string]domain.RegionProfile, len(doc.Regions)),
		languages: make(map[string]Language, len(doc.Languages)),
		byBase:    make(map[language.Base]Language, len(doc.Languages)),
	}

	for _, l := range doc.Languages {
		if l.Name == "" || l.Code == "" {
			return nil, fmt.Errorf("knowledge: language entry missing name or code")
		}
		kb.languages[key(l.Name)] = l
		if tag, err := language.Parse(l.Code); err == nil {
			base, _ := tag.Base()
			if _, taken := kb.byBase[base]; !taken {
				kb.byBase[base] = l
			}
		}
	}

	for _, r := range doc.Regions {
		if r.Name == "" {
			return nil, fmt.Errorf("knowledge: region entry missing name")
		}
		if _, dup := kb.regions[key(r.Name)]; dup {
			return nil, fmt.Errorf("knowledge: duplicate region %q", r.Name)
		}
		for i, kw := range r.Keywords {
			r.Keywords[i] = strings.ToLower(kw)
		}
		if l, ok := kb.languages[key(r.PrimaryLanguage())]; ok {
			r.RegionalFontNames = l.Fonts
		}
		if r.ImageStyle == (domain.ImageStyle{}) {
			r.ImageStyle = domain.GenericImageStyle
		}
		kb.regions[key(r.Name)] = r
		kb.order = append(kb.order, r.Name)
	}

	return kb, nil
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Region looks a region up by case-insensitive name.
func (kb *KnowledgeBase) Region(name string) (domain.RegionProfile, bool) {
	r, ok := kb.regions[key(name)]
	return r, ok
}

// Regions returns every profile in file order.
func (kb *KnowledgeBase) Regions() []domain.RegionProfile {
	out := make([]domain.RegionProfile, 0, len(kb.order))
	for _, name := range kb.order {
		out = append(out, kb.regions[key(name)])
	}
	return out
}

// RegionNames returns region names sorted alphabetically.
func (kb *KnowledgeBase) RegionNames() []string {
	names := append([]string(nil), kb.order...)
	sort.Strings(names)
	return names
}

// Language resolves a language by name ("Tamil") or BCP 47 tag ("ta-IN").
func (kb *KnowledgeBase) Language(nameOrTag string) (Language, bool) {
	if l, ok := kb.languages[key(nameOrTag)]; ok {
		return l, true
	}
	tag, err := language.Parse(strings.TrimSpace(nameOrTag))
	if err != nil {
		return Language{}, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return Language{}, false
	}
	l, ok := kb.byBase[base]
	return l, ok
}

// LanguageCode maps a language to its translation code, default en-IN.
func (kb *KnowledgeBase) LanguageCode(nameOrTag string) string {
	if l, ok := kb.Language(nameOrTag); ok {
		return l.Code
	}
	return DefaultLanguageCode
}

// CanonicalLanguage returns the configured spelling of a language name, or
// the input when unknown.
func (kb *KnowledgeBase) CanonicalLanguage(nameOrTag string) string {
	if l, ok := kb.Language(nameOrTag); ok {
		return l.Name
	}
	return strings.TrimSpace(nameOrTag)
}

// Languages returns all supported languages sorted by name.
func (kb *KnowledgeBase) Languages() []Language {
	out := make([]Language, 0, len(kb.languages))
	for _, l := range kb.languages {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegionalFonts returns the script font set used for typography scoring:
// the language's own set, else the region's primary-language set.
func (kb *KnowledgeBase) RegionalFonts(lang string, region domain.RegionProfile) []string {
	if l, ok := kb.Language(lang); ok && len(l.Fonts) > 0 {
		return l.Fonts
	}
	return region.RegionalFontNames
}

// ImageStyle returns the region's image style or the generic Indian style.
func (kb *KnowledgeBase) ImageStyle(region string) domain.ImageStyle {
	if r, ok := kb.Region(region); ok {
		return r.ImageStyle
	}
	return domain.GenericImageStyle
}
