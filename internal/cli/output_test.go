package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tlaurent/agendawatch/internal/event"
)

func sampleResult() *OutputResult {
	return &OutputResult{
		CheckedAt: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
		SourceURL: "https://city.example/agenda",
		NewEvents: []*event.Matched{
			{
				ID:            "abc123",
				Title:         "concert",
				OriginalTitle: "Concert Jazz au kiosque",
				Link:          "https://city.example/events/42",
				Description:   "Concert gratuit au kiosque du parc.",
				Date:          "Vendredi 7 mars",
				MatchingTerms: []string{"concert"},
			},
		},
		EventCount:    1,
		NotifiedCount: 1,
	}
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOutput(&buf, &OutputResult{}, FormatText, false)
	if err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if !strings.Contains(buf.String(), "No new events found.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatText, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"NEW: Concert Jazz au kiosque",
		"Vendredi 7 mars",
		"https://city.example/events/42",
		"Total: 1 new, 1 notified",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ID: abc123") {
		t.Error("non-verbose output should not show IDs")
	}
}

func TestWriteTextVerbose(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatText, true); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ID: abc123") {
		t.Error("verbose output should show the event ID")
	}
	if !strings.Contains(out, "Matched: concert") {
		t.Error("verbose output should show matched terms")
	}
}

func TestWriteTextTruncatesLongTitles(t *testing.T) {
	result := sampleResult()
	result.NewEvents[0].OriginalTitle = strings.Repeat("é", 80)

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if !strings.Contains(buf.String(), "…") {
		t.Error("long titles should be truncated with an ellipsis")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	var decoded OutputResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.EventCount != 1 || len(decoded.NewEvents) != 1 {
		t.Errorf("decoded result = %+v", decoded)
	}
	if decoded.NewEvents[0].Description != "Concert gratuit au kiosque du parc." {
		t.Errorf("info field round-trip failed: %q", decoded.NewEvents[0].Description)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, sampleResult(), OutputFormat("xml"), false); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
