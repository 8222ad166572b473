package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/tlaurent/agendawatch/internal/event"
)

const (
	// titleMinChars is the threshold for the "first significant element"
	// title strategy.
	titleMinChars = 10
	// titleMaxChars caps the fallback first-line title.
	titleMaxChars = 100
	// descriptionMaxChars soft-truncates overly long descriptions.
	descriptionMaxChars = 2000
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extractor turns one HTML fragment into a candidate event using
// layout-tolerant fallback rules.
type Extractor struct {
	baseURL string
	log     *zap.Logger
}

// NewExtractor builds an extractor. baseURL is the page URL root-relative
// links resolve against.
func NewExtractor(baseURL string, log *zap.Logger) *Extractor {
	return &Extractor{
		baseURL: baseURL,
		log:     log,
	}
}

// titleStrategy is one step of the title resolution chain. It returns the
// title and whether it succeeded.
type titleStrategy func(*goquery.Selection) (string, bool)

var titleStrategies = []titleStrategy{
	headingTitle,
	boldTitle,
	significantElementTitle,
	firstLineTitle,
}

// Extract produces a candidate event from a fragment, or nil when the
// fragment does not yield a usable event. Extraction failures are recovered
// here: a malformed fragment is skipped, never fatal to the walk.
func (x *Extractor) Extract(sel *goquery.Selection) (c *event.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			x.log.Warn("fragment extraction failed, skipping",
				zap.Any("cause", r),
				zap.String("snippet", snippet(sel)))
			c = nil
		}
	}()

	var title string
	for _, strategy := range titleStrategies {
		if t, ok := strategy(sel); ok {
			title = t
			break
		}
	}
	if title == "" {
		return nil
	}

	fullText := strings.TrimSpace(sel.Text())

	date := event.ExtractDate(fragmentHTML(sel, fullText))
	date = event.RefineDate(date, fullText)

	return &event.Candidate{
		Title:       title,
		Link:        x.resolveLink(sel),
		Description: buildDescription(title, fullText),
		RawDateText: date,
		FullText:    fullText,
	}
}

// headingTitle takes the first non-empty heading element.
func headingTitle(sel *goquery.Selection) (string, bool) {
	for _, tag := range []string{"h2", "h3", "h4"} {
		if title := firstNonEmptyText(sel.Find(tag)); title != "" {
			return title, true
		}
	}
	return "", false
}

// boldTitle falls back to bold text, common on hand-edited pages.
func boldTitle(sel *goquery.Selection) (string, bool) {
	for _, tag := range []string{"strong", "b"} {
		if title := firstNonEmptyText(sel.Find(tag)); title != "" {
			return title, true
		}
	}
	return "", false
}

// significantElementTitle takes the first block with more than titleMinChars
// characters of text.
func significantElementTitle(sel *goquery.Selection) (string, bool) {
	var title string
	sel.Find("div, p, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := strings.TrimSpace(s.Text()); len([]rune(text)) > titleMinChars {
			title = text
			return false
		}
		return true
	})
	return title, title != ""
}

// firstLineTitle uses the first line of all fragment text, truncated.
func firstLineTitle(sel *goquery.Selection) (string, bool) {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", false
	}
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	runes := []rune(line)
	if len(runes) > titleMaxChars {
		line = string(runes[:titleMaxChars])
	}
	return line, line != ""
}

func firstNonEmptyText(sel *goquery.Selection) string {
	var text string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" {
			text = t
			return false
		}
		return true
	})
	return text
}

// resolveLink finds the first anchor with an href and resolves root-relative
// URLs against the base. "#" is the sentinel when no link exists.
func (x *Extractor) resolveLink(sel *goquery.Selection) string {
	href, exists := sel.Find("a[href]").First().Attr("href")
	if !exists || href == "" {
		return "#"
	}
	return resolveRootRelative(x.baseURL, href)
}

// resolveRootRelative resolves a root-relative href against the origin of the
// page URL. Absolute and page-relative hrefs pass through unchanged.
func resolveRootRelative(pageURL, href string) string {
	if !strings.HasPrefix(href, "/") {
		return href
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.TrimSuffix(pageURL, "/") + href
	}
	return u.Scheme + "://" + u.Host + href
}

// buildDescription cleans the fragment text for display: the title is removed
// once, whitespace runs collapse to single spaces, sentence ends get a line
// break, and the result is soft-truncated.
func buildDescription(title, fullText string) string {
	info := fullText
	if strings.Contains(info, title) {
		info = strings.TrimSpace(strings.Replace(info, title, "", 1))
	}
	info = strings.TrimSpace(whitespaceRe.ReplaceAllString(info, " "))

	info = strings.ReplaceAll(info, ". ", ".\n")
	info = strings.ReplaceAll(info, "! ", "!\n")
	info = strings.ReplaceAll(info, "? ", "?\n")

	runes := []rune(info)
	if len(runes) > descriptionMaxChars {
		info = string(runes[:descriptionMaxChars]) + "..."
	}
	return info
}

// fragmentHTML returns the fragment's outer HTML for date extraction, which
// scans markup as well as text. Falls back to the visible text.
func fragmentHTML(sel *goquery.Selection, fallback string) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return fallback
	}
	return html
}

// snippet trims fragment text for log context.
func snippet(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.Text())
	runes := []rune(text)
	if len(runes) > 80 {
		return string(runes[:80]) + "..."
	}
	return text
}
