// Package terms builds the effective search-term set used for event matching.
//
// Agenda sites spell the same recurring event in several ways ("vide-grenier",
// "vide grenier", "brocante"...), so a variants file maps each canonical term
// to its known alternate spellings. Expansion connects configured search terms
// to variant-map keys with a loose substring/normalized comparison and folds
// every matching key's variants into the term set.
package terms
