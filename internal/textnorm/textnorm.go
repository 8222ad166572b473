// Package textnorm provides locale-insensitive text normalization for term
// matching. Agenda pages mix French and English spellings, accents included,
// so comparisons run on casefolded, diacritic-stripped text.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripper decomposes to compatibility form, drops combining marks, then
// drops whatever non-ASCII is left (mirrors NFKD + ASCII-ignore encoding).
var stripper = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Normalize lowercases text and strips diacritics so that "Théâtre" and
// "theatre" compare equal. It returns "" for empty input and never fails.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	out, _, err := transform.String(stripper, text)
	if err != nil {
		return text
	}
	return out
}
