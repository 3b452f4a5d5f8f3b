// Package textclass detects whether text is written in a language's
// native script or in English.
package textclass

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Script blocks keyed by language name. Hindi and Marathi share Devanagari.
var scriptBlocks = map[string]*unicode.RangeTable{
	"hindi":     block(0x0900, 0x097F),
	"marathi":   block(0x0900, 0x097F),
	"tamil":     block(0x0B80, 0x0BFF),
	"telugu":    block(0x0C00, 0x0C7F),
	"kannada":   block(0x0C80, 0x0CFF),
	"malayalam": block(0x0D00, 0x0D7F),
	"bengali":   block(0x0980, 0x09FF),
	"gujarati":  block(0x0A80, 0x0AFF),
	"punjabi":   block(0x0A00, 0x0A7F),
}

func block(lo, hi uint16) *unicode.RangeTable {
	return &unicode.RangeTable{R16: []unicode.Range16{{Lo: lo, Hi: hi, Stride: 1}}}
}

// englishThreshold is the share of ASCII letters above which text is English.
const englishThreshold = 0.7

// HasScriptBlock reports whether language has a dedicated Unicode block.
func HasScriptBlock(language string) bool {
	_, ok := scriptBlocks[strings.ToLower(strings.TrimSpace(language))]
	return ok
}

// ScriptMatches reports whether text contains a character from the block
// of language. Languages without a block accept any non-ASCII character.
func ScriptMatches(text, language string) bool {
	text = norm.NFC.String(text)
	table, ok := scriptBlocks[strings.ToLower(strings.TrimSpace(language))]
	for _, r := range text {
		if ok {
			if unicode.Is(table, r) {
				return true
			}
			continue
		}
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

// IsEnglish reports whether more than 70% of the runes are ASCII letters.
// Empty text is not English.
func IsEnglish(text string) bool {
	text = norm.NFC.String(text)
	var total, letters int
	for _, r := range text {
		total++
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return false
	}
	return float64(letters)/float64(total) > englishThreshold
}

// IsNonASCIIRun reports whether s is made only of non-ASCII runes.
func IsNonASCIIRun(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r <= unicode.MaxASCII {
			return false
		}
	}
	return true
}
