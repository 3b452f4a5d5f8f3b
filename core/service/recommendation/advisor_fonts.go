package recommendation

import (
	"regexp"
	"strings"
)

type postScriptEntry struct {
	family   string
	variants []string
}

// postScriptNames maps lower-case families to PostScript names, regular
// weight first. Entry order matters for partial matches.
var postScriptNames = []postScriptEntry{
	{"raleway", []string{"Raleway-Regular", "Raleway-Bold", "Raleway-Light"}},
	{"montserrat", []string{"Montserrat-Regular", "Montserrat-Bold", "Montserrat-Light"}},
	{"source sans", []string{"SourceSans3-Regular", "SourceSans3-Bold"}},
	{"source sans 3", []string{"SourceSans3-Regular", "SourceSans3-Bold"}},
	{"source sans3", []string{"SourceSans3-Regular", "SourceSans3-Bold"}},
	{"arial", []string{"ArialMT", "Arial-BoldMT"}},
	{"times new roman", []string{"TimesNewRomanPSMT", "TimesNewRomanPS-BoldMT"}},
	{"times", []string{"TimesNewRomanPSMT", "TimesNewRomanPS-BoldMT"}},
	{"helvetica", []string{"Helvetica", "Helvetica-Bold"}},
	{"georgia", []string{"Georgia", "Georgia-Bold"}},
	{"verdana", []string{"Verdana", "Verdana-Bold"}},
	{"courier", []string{"Courier", "Courier-Bold"}},
	{"courier new", []string{"CourierNewPSMT", "CourierNewPS-BoldMT"}},
}

// PostScriptName maps a family name to its regular PostScript name. Exact
// matches win, then partial matches; unknown families become
// "Capitalised-Regular".
func PostScriptName(family string) string {
	name := strings.ToLower(strings.TrimSpace(family))
	if name == "" {
		return ""
	}
	for _, e := range postScriptNames {
		if e.family == name {
			return e.variants[0]
		}
	}
	for _, e := range postScriptNames {
		if strings.Contains(name, e.family) || strings.Contains(e.family, name) {
			return e.variants[0]
		}
	}
	trimmed := strings.TrimSpace(family)
	return strings.ToUpper(trimmed[:1]) + strings.ToLower(trimmed[1:]) + "-Regular"
}

// PostScriptCandidates lists the names tried, in order, when applying a
// font family: the mapped name, then its Bold and Light weights, then the
// bare family.
func PostScriptCandidates(family string) []string {
	primary := PostScriptName(family)
	if primary == "" {
		return nil
	}
	out := []string{primary}
	if strings.Contains(primary, "-Regular") {
		out = append(out,
			strings.Replace(primary, "-Regular", "-Bold", 1),
			strings.Replace(primary, "-Regular", "-Light", 1),
			strings.Replace(primary, "-Regular", "", 1),
		)
	}
	return out
}

var styleNames = map[string]string{
	"black":      "Black",
	"bold":       "Bold",
	"semibold":   "SemiBold",
	"medium":     "Medium",
	"regular":    "Regular",
	"light":      "Light",
	"thin":       "Thin",
	"book":       "Book",
	"italic":     "Italic",
	"bolditalic": "BoldItalic",
}

var (
	camelWord   = regexp.MustCompile(`[A-Z][a-z]*`)
	spaceOrDash = regexp.MustCompile(`[\s-]+`)
)

// PostScriptVariations turns a display name ("Poppins Black",
// "BebasNeueBook", "Poppins-Black") into candidate PostScript names,
// starting with the name itself. Duplicates are removed.
func PostScriptVariations(display string) []string {
	if display == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(display)

	if strings.Contains(display, " ") {
		parts := strings.Fields(display)
		base, style := parts[0], strings.Join(parts[1:], " ")
		add(base + "-" + style)
		add(base + style)
		capStyle := capitalise(style)
		add(base + "-" + capStyle)
		add(base + capStyle)
		if mapped, ok := styleNames[strings.ToLower(style)]; ok {
			add(base + "-" + mapped)
			add(base + mapped)
		}
	}

	if !strings.ContainsAny(display, " -") {
		if words := camelWord.FindAllString(display, -1); len(words) >= 2 {
			base := strings.Join(words[:len(words)-1], "")
			style := words[len(words)-1]
			add(base + "-" + style)
			add(display + "-Regular")
			if mapped, ok := styleNames[strings.ToLower(style)]; ok {
				add(base + "-" + mapped)
			}
		}
		add(display + "-Regular")
	}

	if strings.Contains(display, "-") {
		add(strings.ReplaceAll(display, "-", ""))
		add(strings.ReplaceAll(display, "-", " "))
		if parts := strings.Split(display, "-"); len(parts) == 2 {
			add(parts[0] + "-" + capitalise(parts[1]))
		}
	}

	flat := spaceOrDash.ReplaceAllString(display, "")
	add(flat + "-Regular")
	add(flat + "-Bold")
	add(flat + "-Medium")

	return out
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
