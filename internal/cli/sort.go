package cli

import (
	"sort"
	"strings"

	"github.com/tlaurent/agendawatch/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Matched, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti := strings.ToLower(events[i].OriginalTitle)
			tj := strings.ToLower(events[j].OriginalTitle)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their date
// Returns true if event i should come before event j
func compareByDate(i, j *event.Matched) bool {
	dateI := event.ParseDate(i.Date)
	dateJ := event.ParseDate(j.Date)

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	// If neither has a valid date, fall back to titles
	return strings.ToLower(i.OriginalTitle) < strings.ToLower(j.OriginalTitle)
}
