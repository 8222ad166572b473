package scraper

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tlaurent/agendawatch/internal/event"
	"github.com/tlaurent/agendawatch/internal/textnorm"
)

// Mode selects how strictly terms are compared against event text.
type Mode int

const (
	// ModeContains matches a term anywhere inside the text.
	ModeContains Mode = iota
	// ModeExact requires the term to match on word boundaries.
	ModeExact
)

// Matcher decides whether a candidate event matches the effective term set.
type Matcher struct {
	terms []string
	mode  Mode
}

// NewMatcher builds a matcher over the effective term set. Term order is
// preserved in match results.
func NewMatcher(terms []string, mode Mode) *Matcher {
	return &Matcher{terms: terms, mode: mode}
}

// Match returns the terms that hit the candidate's title or description,
// in effective-set order, de-duplicated. Both the lowercased and the
// accent-stripped form of each term are tried against normalized text.
func (m *Matcher) Match(c *event.Candidate) []string {
	title := textnorm.Normalize(c.Title)
	desc := textnorm.Normalize(c.Description)

	var matched []string
	seen := make(map[string]bool)
	for _, term := range m.terms {
		lower := strings.ToLower(term)
		normalized := textnorm.Normalize(term)

		if m.hits(lower, title) || m.hits(lower, desc) ||
			m.hits(normalized, title) || m.hits(normalized, desc) {
			if !seen[lower] {
				seen[lower] = true
				matched = append(matched, term)
			}
		}
	}
	return matched
}

func (m *Matcher) hits(needle, haystack string) bool {
	if needle == "" {
		return false
	}
	if m.mode == ModeExact {
		return containsWord(haystack, needle)
	}
	return strings.Contains(haystack, needle)
}

// containsWord reports whether needle occurs in haystack delimited by
// non-alphanumeric runes (or the string ends).
func containsWord(haystack, needle string) bool {
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
