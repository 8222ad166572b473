package event

import (
	"testing"
	"time"
)

func TestIDDeterministic(t *testing.T) {
	a := ID("Concert", "12 janvier", "https://city.example/events/42")
	b := ID("Concert", "12 janvier", "https://city.example/events/42")
	if a != b {
		t.Errorf("same triple produced different ids: %s != %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d (%s)", len(a), a)
	}
	for _, c := range a {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Fatalf("id contains non lowercase-hex char %q: %s", c, a)
		}
	}
}

func TestIDDistinguishesFields(t *testing.T) {
	base := ID("Concert", "12 janvier", "https://city.example/events/42")

	others := []string{
		ID("Concert", "13 janvier", "https://city.example/events/42"),
		ID("Concert", "12 janvier", "https://city.example/events/43"),
		ID("Théâtre", "12 janvier", "https://city.example/events/42"),
	}
	for i, other := range others {
		if other == base {
			t.Errorf("variant %d collided with base id", i)
		}
	}
}

func TestNewMatched(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	c := Candidate{
		Title:       "Grand vide-grenier de printemps",
		Link:        "https://city.example/events/7",
		Description: "Sur la place du village.",
		RawDateText: "Dimanche 15 mars",
	}

	m := NewMatched(c, []string{"vide-grenier", "brocante"}, now)

	if m.Title != "vide-grenier" {
		t.Errorf("display title = %q, expected first matching term", m.Title)
	}
	if m.OriginalTitle != c.Title {
		t.Errorf("original title = %q, expected %q", m.OriginalTitle, c.Title)
	}
	if m.FoundAt != "2026-03-14 09:30:00" {
		t.Errorf("found at = %q", m.FoundAt)
	}
	if len(m.MatchingTerms) != 2 {
		t.Errorf("matching terms = %v", m.MatchingTerms)
	}
	if m.ID != ID("vide-grenier", "Dimanche 15 mars", "https://city.example/events/7") {
		t.Error("id not derived from display title, date and link")
	}
}
