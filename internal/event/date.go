package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Locale literals for the date heuristics. The agenda sites this tool watches
// publish in French with occasional English, so both sets are recognized.
const (
	frMonths = `janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre`
	enMonths = `january|february|march|april|may|june|july|august|september|october|november|december`
	frDays   = `lundi|mardi|mercredi|jeudi|vendredi|samedi|dimanche`
	enDays   = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
)

// datePattern is one step of the extraction cascade: a pattern, an optional
// validator for the matched text, and whether the match is a name-based date
// (searched in lowercased text, returned capitalized) or a numeric one
// (returned as found).
type datePattern struct {
	re       *regexp.Regexp
	validate func(string) bool
	numeric  bool
}

// cascade is ordered by confidence. Day-of-week forms come first because bare
// numeric sequences are ambiguous with phone numbers and addresses.
var cascade = []datePattern{
	// Day-of-week + day + month name.
	{re: regexp.MustCompile(`\b(?:` + frDays + `)\s+\d{1,2}\s+(?:` + frMonths + `)\b`)},
	{re: regexp.MustCompile(`\b(?:` + enDays + `)\s+\d{1,2}\s+(?:` + enMonths + `)\b`)},
	{re: regexp.MustCompile(`\b(?:` + frDays + `)\s+\d{1,2}/\d{1,2}\b`)},

	// Day + month name, date phrases, month name + day.
	{re: regexp.MustCompile(`\b\d{1,2}\s+(?:` + frMonths + `)(?:\s+\d{2,4})?\b`)},
	{re: regexp.MustCompile(`\b\d{1,2}\s+(?:` + enMonths + `)(?:\s+\d{2,4})?\b`)},
	{re: regexp.MustCompile(`du\s+\d{1,2}\s+au\s+\d{1,2}\s+(?:` + frMonths + `)`)},
	{re: regexp.MustCompile(`le\s+\d{1,2}\s+(?:` + frMonths + `)`)},
	{re: regexp.MustCompile(`\b(?:` + frMonths + `)\s+\d{1,2}(?:,?\s+\d{2,4})?\b`)},
	{re: regexp.MustCompile(`\b(?:` + enMonths + `)\s+\d{1,2}(?:,?\s+\d{2,4})?\b`)},

	// Numeric dates, validated so phone fragments are rejected.
	{re: regexp.MustCompile(`\b\d{1,2}[./]\d{1,2}[./]\d{2,4}\b`), validate: validNumericDate, numeric: true},
	{re: regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`), validate: validNumericDate, numeric: true},
}

var (
	anyMonthRe    = regexp.MustCompile(`\b(?:` + frMonths + `|` + enMonths + `)\b`)
	anyDayRe      = regexp.MustCompile(`\b(?:` + frDays + `|` + enDays + `)\b`)
	smallNumberRe = regexp.MustCompile(`\b\d{1,2}\b`)
	separatorRe   = regexp.MustCompile(`[./-]`)
	numericOnlyRe = regexp.MustCompile(`^[\d./-]+$`)
)

// ExtractDate pulls the most plausible date string out of raw element text,
// trying the cascade in order and returning the first validated match,
// capitalized. It returns "" when no pattern applies.
func ExtractDate(text string) string {
	content := strings.TrimSpace(strings.ReplaceAll(text, "&nbsp;", " "))
	lower := strings.ToLower(content)

	for _, p := range cascade {
		haystack := lower
		if p.numeric {
			haystack = content
		}
		match := p.re.FindString(haystack)
		if match == "" {
			continue
		}
		if p.validate != nil && !p.validate(match) {
			continue
		}
		if p.numeric {
			return match
		}
		return capitalize(match)
	}

	return monthWindowFallback(content, lower)
}

// RefineDate re-checks a date that is purely digits and separators (likely a
// phone fragment) against the full text: a window around any month name is
// re-extracted, or the bare month is used; failing that, context around a
// weekday name is taken. The original date is returned when nothing better
// is found.
func RefineDate(date, fullText string) string {
	if date == "" || !numericOnlyRe.MatchString(date) {
		return date
	}

	lower := strings.ToLower(fullText)
	if loc := anyMonthRe.FindStringIndex(lower); loc != nil {
		start := max(0, loc[0]-20)
		end := min(len(fullText), loc[1]+20)
		if proper := ExtractDate(fullText[start:end]); proper != "" {
			return proper
		}
		return capitalize(lower[loc[0]:loc[1]])
	}

	if loc := anyDayRe.FindStringIndex(lower); loc != nil {
		start := max(0, loc[0]-10)
		end := min(len(fullText), loc[1]+30)
		return strings.TrimSpace(fullText[start:end])
	}

	return date
}

// validNumericDate accepts a separated numeric token only if its first two
// parts can be read as a day/month pair in at least one ordering. "04.68.29"
// fails both orderings and is rejected.
func validNumericDate(s string) bool {
	parts := separatorRe.Split(s, -1)
	if len(parts) < 2 || len(parts) > 3 {
		return false
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return (a >= 1 && a <= 31 && b >= 1 && b <= 12) ||
		(b >= 1 && b <= 31 && a >= 1 && a <= 12)
}

// monthWindowFallback locates any month name and searches a ±20 character
// window for a plausible day number, combining them in source order.
func monthWindowFallback(content, lower string) string {
	loc := anyMonthRe.FindStringIndex(lower)
	if loc == nil {
		return ""
	}
	month := lower[loc[0]:loc[1]]

	start := max(0, loc[0]-20)
	end := min(len(content), loc[1]+20)
	window := content[start:end]

	for _, idx := range smallNumberRe.FindAllStringIndex(window, -1) {
		n, err := strconv.Atoi(window[idx[0]:idx[1]])
		if err != nil || n < 1 || n > 31 {
			continue
		}
		number := window[idx[0]:idx[1]]
		if loc[0] < start+idx[0] {
			return capitalize(month) + " " + number
		}
		return number + " " + capitalize(month)
	}

	return capitalize(month)
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var monthByName = map[string]time.Month{
	"janvier": time.January, "january": time.January,
	"février": time.February, "february": time.February,
	"mars": time.March, "march": time.March,
	"avril": time.April, "april": time.April,
	"mai": time.May, "may": time.May,
	"juin": time.June, "june": time.June,
	"juillet": time.July, "july": time.July,
	"août": time.August, "august": time.August,
	"septembre": time.September, "september": time.September,
	"octobre": time.October, "october": time.October,
	"novembre": time.November, "november": time.November,
	"décembre": time.December, "december": time.December,
}

var (
	dayMonthYearRe = regexp.MustCompile(`\b(\d{1,2})\s+(` + frMonths + `|` + enMonths + `)(?:\s+(\d{2,4}))?\b`)
	monthDayRe     = regexp.MustCompile(`\b(` + frMonths + `|` + enMonths + `)\s+(\d{1,2})(?:,?\s+(\d{2,4}))?\b`)
	numericDateRe  = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})(?:[./-](\d{2,4}))?\b`)
)

// ParseDate attempts to turn an extracted date string into a time.Time, for
// filtering and calendar export. Numeric forms are read day-first (French
// convention). Returns the zero time when parsing fails.
func ParseDate(dateText string) time.Time {
	s := strings.ToLower(strings.TrimSpace(dateText))
	if s == "" {
		return time.Time{}
	}
	now := time.Now()

	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		return makeDate(parseYear(m[3], now), monthByName[m[2]], day)
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[2])
		return makeDate(parseYear(m[3], now), monthByName[m[1]], day)
	}

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month > 12 && day <= 12 {
			day, month = month, day
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return makeDate(parseYear(m[3], now), time.Month(month), day)
		}
	}

	// Bare month name: first of that month.
	if m := anyMonthRe.FindString(s); m != "" {
		return makeDate(now.Year(), monthByName[m], 1)
	}

	return time.Time{}
}

func parseYear(raw string, now time.Time) int {
	if raw == "" {
		return now.Year()
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return now.Year()
	}
	if y < 100 {
		return 2000 + y
	}
	return y
}

func makeDate(year int, month time.Month, day int) time.Time {
	if month == 0 || day < 1 || day > 31 {
		return time.Time{}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
