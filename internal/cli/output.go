package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/tlaurent/agendawatch/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

const (
	titleColWidth = 40
	dateColWidth  = 24
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt     time.Time        `json:"checked_at"`
	SourceURL     string           `json:"source_url"`
	NewEvents     []*event.Matched `json:"new_events"`
	EventCount    int              `json:"event_count"`
	NotifiedCount int              `json:"notified_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text. Columns are aligned by
// display width so accented titles line up.
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No new events found.")
		return nil
	}

	for _, ev := range result.NewEvents {
		title := ev.OriginalTitle
		if title == "" {
			title = ev.Title
		}
		title = runewidth.Truncate(title, titleColWidth, "…")
		date := runewidth.Truncate(ev.Date, dateColWidth, "…")

		fmt.Fprintf(w, "NEW: %s  %s  %s\n",
			runewidth.FillRight(title, titleColWidth),
			runewidth.FillRight(date, dateColWidth),
			ev.Link)

		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", ev.ID)
			if len(ev.MatchingTerms) > 0 {
				fmt.Fprintf(w, "     Matched: %s\n", strings.Join(ev.MatchingTerms, ", "))
			}
			if ev.Description != "" {
				fmt.Fprintf(w, "     %s\n", runewidth.Truncate(ev.Description, 120, "…"))
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d new, %d notified\n", result.EventCount, result.NotifiedCount)
	return nil
}
