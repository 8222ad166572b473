// Package event provides the types and identity logic for agenda events.
//
// A Candidate is what extraction pulls out of one HTML fragment; a Matched
// event is a candidate that hit at least one search term. Each matched event
// carries a deterministic MD5-based ID derived from its title, date and link,
// enabling reliable de-duplication across runs. The package also holds the
// heuristic date-string extraction cascade shared by extraction and output.
package event
