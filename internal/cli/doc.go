// Package cli implements the command-line interface for agendawatch.
//
// The cli package provides the Cobra-based CLI with support for walking a
// city agenda page, formatting output (text/JSON), sorting (by date/title),
// filtering, calendar export and notification fan-out. It coordinates the
// scraper, storage, terms and notifier packages to fetch, persist, and
// report on newly-found matching events.
package cli
