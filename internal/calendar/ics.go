// Package calendar renders matched agenda events as iCalendar files.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/tlaurent/agendawatch/internal/event"
)

// GenerateICS generates an iCalendar (.ics) file for a matched event
func GenerateICS(ev *event.Matched) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//agendawatch//agendawatch//FR\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("BEGIN:VEVENT\r\n")

	ics.WriteString(fmt.Sprintf("UID:%s@agendawatch\r\n", ev.ID))

	now := time.Now().UTC()
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	eventDate := event.ParseDate(ev.Date)
	if eventDate.IsZero() {
		// If we can't parse the date, use one week from now
		eventDate = time.Now().AddDate(0, 0, 7)
	}

	// Municipal agendas rarely publish an hour. Block out 9 AM - 1 PM.
	startTime := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 9, 0, 0, 0, time.UTC)
	endTime := startTime.Add(4 * time.Hour)

	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(startTime)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(endTime)))

	summary := ev.OriginalTitle
	if summary == "" {
		summary = ev.Title
	}
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

	description := ev.Description
	if ev.Date != "" {
		description = fmt.Sprintf("Date: %s\n%s", ev.Date, description)
	}
	if len(ev.MatchingTerms) > 0 {
		description = fmt.Sprintf("%s\n\nMatched: %s", description, strings.Join(ev.MatchingTerms, ", "))
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	if ev.Link != "" && ev.Link != "#" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", ev.Link))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")

	ics.WriteString("END:VEVENT\r\n")
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 text escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
