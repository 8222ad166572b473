// Package filter narrows matched agenda events before notification.
//
// Criteria:
//   - Upcoming only (event date today or later)
//   - Within days (event date inside a sliding window from today)
//   - Weekends only (Saturday/Sunday)
//
// Events whose date text cannot be parsed always pass the date criteria, so
// an unusual date format never silently drops an alert.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tlaurent/agendawatch/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// UpcomingOnly drops events dated before today.
	UpcomingOnly bool

	// WithinDays keeps only events dated between today and today+N.
	// Zero disables the window.
	WithinDays int

	// WeekendsOnly keeps only Saturday and Sunday events.
	WeekendsOnly bool

	now func() time.Time
}

// New creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func New() *Filter {
	return &Filter{now: time.Now}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all events.
func (f *Filter) IsEmpty() bool {
	return !f.UpcomingOnly && f.WithinDays == 0 && !f.WeekendsOnly
}

// Matches checks if an event passes all active criteria. An empty filter
// matches all events, and so does an event with an unparseable date.
func (f *Filter) Matches(ev *event.Matched) bool {
	if f.IsEmpty() {
		return true
	}

	date := event.ParseDate(ev.Date)
	if date.IsZero() {
		return true
	}

	n := f.now()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)

	if f.UpcomingOnly && date.Before(today) {
		return false
	}

	if f.WithinDays > 0 {
		if date.Before(today) || date.After(today.AddDate(0, 0, f.WithinDays)) {
			return false
		}
	}

	if f.WeekendsOnly {
		weekday := date.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	return true
}

// Apply applies the filter to a list of events and returns only matching
// events. If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []*event.Matched) []*event.Matched {
	if f.IsEmpty() {
		return events
	}

	var filtered []*event.Matched
	for _, ev := range events {
		if f.Matches(ev) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Returns "No active filters" if the filter is empty.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.UpcomingOnly {
		parts = append(parts, "Upcoming only")
	}
	if f.WithinDays > 0 {
		parts = append(parts, fmt.Sprintf("Within %d days", f.WithinDays))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	return strings.Join(parts, " | ")
}
