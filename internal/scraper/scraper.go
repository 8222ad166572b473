package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/tlaurent/agendawatch/internal/event"
	"github.com/tlaurent/agendawatch/internal/storage"
)

// fallbackSelectors are tried in order when no article elements exist.
// Collected from the site layouts this tool has been pointed at.
var fallbackSelectors = []string{
	"div.event",
	".event-item",
	"div.ce_text",
	".post",
	".item",
	".newsBox",
	".event-box",
}

// textRichMinChars is the last-resort fragment threshold: any div with more
// text than this is treated as a potential event.
const textRichMinChars = 100

// Walker orchestrates the page-by-page scrape: fragment discovery,
// extraction, matching, and novelty bookkeeping against the store.
type Walker struct {
	fetcher   Fetcher
	extractor *Extractor
	matcher   *Matcher
	store     *storage.Store
	maxPages  int
	log       *zap.Logger
	now       func() time.Time
}

// NewWalker wires the pipeline. maxPages bounds the pagination follow.
func NewWalker(f Fetcher, x *Extractor, m *Matcher, store *storage.Store, maxPages int, log *zap.Logger) *Walker {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Walker{
		fetcher:   f,
		extractor: x,
		matcher:   m,
		store:     store,
		maxPages:  maxPages,
		log:       log,
		now:       time.Now,
	}
}

// Run walks pages starting at entryURL and returns the matched events not
// seen in any previous run, in page order.
//
// The store is committed once after the whole walk. A fetch failure aborts
// the walk without committing, so a failed run is transactional: either all
// of the run's discoveries persist, or none do, and the next run simply
// finds the same events new again.
func (w *Walker) Run(ctx context.Context, entryURL string) ([]*event.Matched, error) {
	var newEvents []*event.Matched
	matchedTotal := 0
	pagesScraped := 0

	current := entryURL
	for current != "" && pagesScraped < w.maxPages {
		w.log.Info("scraping page", zap.String("url", current))

		html, err := w.fetcher.Fetch(ctx, current)
		if err != nil {
			return newEvents, fmt.Errorf("walking %s: %w", entryURL, err)
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return newEvents, fmt.Errorf("parsing %s: %w", current, err)
		}

		fragments := w.findFragments(doc)
		w.log.Debug("found candidate fragments",
			zap.String("url", current), zap.Int("count", len(fragments)))

		for _, frag := range fragments {
			candidate := w.extractor.Extract(frag)
			if candidate == nil {
				continue
			}

			matchingTerms := w.matcher.Match(candidate)
			if len(matchingTerms) == 0 {
				continue
			}

			evt := event.NewMatched(*candidate, matchingTerms, w.now())
			matchedTotal++

			if w.store.IsNew(evt.ID) {
				w.store.RecordSeen(evt.ID, w.now())
				newEvents = append(newEvents, evt)
				w.log.Debug("new matching event",
					zap.String("id", evt.ID),
					zap.String("title", evt.OriginalTitle),
					zap.Strings("terms", matchingTerms))
			}
		}
		pagesScraped++

		next := w.nextPageURL(doc, entryURL)
		if next == "" || next == current {
			break
		}
		current = next
	}

	if err := w.store.Save(); err != nil {
		// Non-fatal: the same events will simply show up as new next run.
		w.log.Warn("could not persist event store", zap.Error(err))
	}

	w.log.Info("walk complete",
		zap.Int("pages", pagesScraped),
		zap.Int("matched", matchedTotal),
		zap.Int("new", len(newEvents)))
	return newEvents, nil
}

// findFragments discovers candidate event elements with a cascading selector
// strategy: semantic article tags, then known layout selectors, then any div
// with substantial text.
func (w *Walker) findFragments(doc *goquery.Document) []*goquery.Selection {
	if frags := collect(doc.Find("article")); len(frags) > 0 {
		return frags
	}

	for _, selector := range fallbackSelectors {
		if frags := collect(doc.Find(selector)); len(frags) > 0 {
			w.log.Debug("using fallback selector", zap.String("selector", selector))
			return frags
		}
	}

	var frags []*goquery.Selection
	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		if len([]rune(strings.TrimSpace(s.Text()))) > textRichMinChars {
			frags = append(frags, s)
		}
	})
	if len(frags) > 0 {
		w.log.Debug("using text-rich divs as fragments", zap.Int("count", len(frags)))
	}
	return frags
}

func collect(sel *goquery.Selection) []*goquery.Selection {
	frags := make([]*goquery.Selection, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		frags = append(frags, s)
	})
	return frags
}

// nextPageURL finds the pagination link with a "next" relation and resolves
// it to an absolute URL against the entry URL's origin.
func (w *Walker) nextPageURL(doc *goquery.Document, entryURL string) string {
	pagination := doc.Find("ul.pagination").First()
	if pagination.Length() == 0 {
		return ""
	}

	href, exists := pagination.Find(`a[rel="next"]`).First().Attr("href")
	if !exists || href == "" {
		return ""
	}
	return resolveRootRelative(entryURL, href)
}
