// Package scraper implements the extraction-and-matching pipeline over a
// paginated agenda site.
//
// A Walker drives the scrape page by page: candidate fragments are discovered
// through a cascading selector strategy, each fragment goes through the
// Extractor (layout-tolerant field extraction) and the Matcher (term
// matching), and new matches are collected against the persisted store. The
// site's HTML structure is unknown and inconsistent, so every extraction step
// is a fallback chain rather than a fixed selector.
package scraper
