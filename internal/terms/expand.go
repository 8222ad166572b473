package terms

import (
	"strings"

	"github.com/tlaurent/agendawatch/internal/textnorm"
)

// Expand builds the effective term set from base search terms and the variant
// map. The result is de-duplicated case-insensitively, preserving first-seen
// order.
//
// Each base term also contributes its accent-stripped form as a distinct
// effective term, so a configured "Fête" matches pages that write "fete".
// When no base terms are given but variants exist, every variant value and
// every canonical key becomes an effective term.
func Expand(base []string, variants *VariantMap) []string {
	set := newTermSet()

	for _, term := range base {
		set.add(term)
		if n := textnorm.Normalize(term); n != "" && n != strings.ToLower(term) {
			set.add(n)
		}
	}

	if variants == nil || variants.Len() == 0 {
		return set.terms
	}

	if len(base) == 0 {
		for _, key := range variants.Keys() {
			for _, v := range variants.Variants(key) {
				set.add(v)
			}
		}
		for _, key := range variants.Keys() {
			set.add(key)
		}
		return set.terms
	}

	for _, term := range base {
		for _, key := range variants.Keys() {
			if !looseMatch(term, key, variants.Variants(key)) {
				continue
			}
			for _, v := range variants.Variants(key) {
				set.add(v)
			}
		}
	}

	return set.terms
}

// looseMatch decides whether a search term selects a variant-map key: exact
// case-insensitive equality, normalized equality, substring containment in
// either direction, or containment between the term and any of the key's
// variants.
func looseMatch(term, key string, variants []string) bool {
	termLower := strings.ToLower(term)
	keyLower := strings.ToLower(key)

	if termLower == keyLower {
		return true
	}
	if textnorm.Normalize(term) == textnorm.Normalize(key) {
		return true
	}
	if strings.Contains(termLower, keyLower) || strings.Contains(keyLower, termLower) {
		return true
	}
	for _, v := range variants {
		vLower := strings.ToLower(v)
		if strings.Contains(termLower, vLower) || strings.Contains(vLower, termLower) {
			return true
		}
	}
	return false
}

// termSet accumulates terms with case-insensitive de-duplication.
type termSet struct {
	terms []string
	seen  map[string]bool
}

func newTermSet() *termSet {
	return &termSet{seen: make(map[string]bool)}
}

func (s *termSet) add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	key := strings.ToLower(term)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.terms = append(s.terms, term)
}
