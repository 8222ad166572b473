package filter

import (
	"testing"
	"time"

	"github.com/tlaurent/agendawatch/internal/event"
)

// fixedNow is a Sunday.
var fixedNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func newTestFilter() *Filter {
	f := New()
	f.now = func() time.Time { return fixedNow }
	return f
}

func datedEvent(date string) *event.Matched {
	return &event.Matched{ID: "id-" + date, Title: "concert", Date: date}
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	f := newTestFilter()
	events := []*event.Matched{
		datedEvent("7 mars 2026"),
		datedEvent("Tous les jours"),
	}
	got := f.Apply(events)
	if len(got) != len(events) {
		t.Errorf("empty filter kept %d of %d events", len(got), len(events))
	}
}

func TestUpcomingOnly(t *testing.T) {
	f := newTestFilter()
	f.UpcomingOnly = true

	if f.Matches(datedEvent("15 février 2026")) {
		t.Error("past event should be dropped")
	}
	if !f.Matches(datedEvent("7 mars 2026")) {
		t.Error("future event should pass")
	}
	if !f.Matches(datedEvent("1 mars 2026")) {
		t.Error("today's event should pass")
	}
}

func TestWithinDays(t *testing.T) {
	f := newTestFilter()
	f.WithinDays = 14

	if !f.Matches(datedEvent("7 mars 2026")) {
		t.Error("event inside the window should pass")
	}
	if f.Matches(datedEvent("12 mai 2026")) {
		t.Error("event beyond the window should be dropped")
	}
	if f.Matches(datedEvent("15 février 2026")) {
		t.Error("past event should be dropped by the window")
	}
}

func TestWeekendsOnly(t *testing.T) {
	f := newTestFilter()
	f.WeekendsOnly = true

	// 2026-03-07 is a Saturday, 2026-03-10 a Tuesday.
	if !f.Matches(datedEvent("7 mars 2026")) {
		t.Error("Saturday event should pass")
	}
	if f.Matches(datedEvent("10 mars 2026")) {
		t.Error("Tuesday event should be dropped")
	}
}

func TestUnparseableDateAlwaysPasses(t *testing.T) {
	f := newTestFilter()
	f.UpcomingOnly = true
	f.WithinDays = 7
	f.WeekendsOnly = true

	if !f.Matches(datedEvent("Tous les premiers samedis du mois")) {
		t.Error("event with unparseable date should never be dropped")
	}
}

func TestString(t *testing.T) {
	f := newTestFilter()
	if got := f.String(); got != "No active filters" {
		t.Errorf("String() = %q", got)
	}

	f.UpcomingOnly = true
	f.WithinDays = 30
	if got := f.String(); got != "Upcoming only | Within 30 days" {
		t.Errorf("String() = %q", got)
	}
}
