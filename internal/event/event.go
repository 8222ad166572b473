package event

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// TimeLayout is the timestamp format used in the store and in payloads.
const TimeLayout = "2006-01-02 15:04:05"

// Candidate is one extracted agenda listing before term matching.
type Candidate struct {
	Title       string
	Link        string
	Description string
	RawDateText string
	FullText    string
}

// Matched is a candidate that matched at least one search term.
//
// Title holds the first matching term so a single configured category label
// stands in for the many source-language phrasings of the same event; the
// page's own wording is kept in OriginalTitle.
type Matched struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Link          string   `json:"link"`
	Description   string   `json:"info"`
	Date          string   `json:"date"`
	FoundAt       string   `json:"found_at"`
	MatchingTerms []string `json:"matching_terms"`
}

// ID derives the deterministic identity for an event. The same
// (title, date, link) triple always yields the same 32-char lowercase hex
// digest, so a logical event keeps its identity even when the page
// re-renders surrounding markup.
func ID(title, date, link string) string {
	sum := md5.Sum([]byte(title + "-" + date + "-" + link))
	return hex.EncodeToString(sum[:])
}

// NewMatched builds a Matched event from a candidate and the terms that hit.
// matchingTerms must be non-empty; the first term becomes the display title.
func NewMatched(c Candidate, matchingTerms []string, now time.Time) *Matched {
	m := &Matched{
		Title:         matchingTerms[0],
		OriginalTitle: c.Title,
		Link:          c.Link,
		Description:   c.Description,
		Date:          c.RawDateText,
		FoundAt:       now.Format(TimeLayout),
		MatchingTerms: matchingTerms,
	}
	m.ID = ID(m.Title, m.Date, m.Link)
	return m
}
