package domain

import (
	"strings"
	"unicode"
)

// NormalizeText lowercases text and collapses every run of whitespace into
// a single space, trimming both ends. Group and member names are compared
// in this form. Hangul, hyphens and apostrophes are kept.
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Excerpt returns at most maxRunes runes of text with surrounding whitespace
// removed, appending "…" when the text was cut.
func Excerpt(text string, maxRunes int) string {
	text = strings.TrimSpace(text)
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return strings.TrimRightFunc(string(runes[:maxRunes]), unicode.IsSpace) + "…"
}
