package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// UntitledEvent is the title sentinel used when no eligible title line exists.
const UntitledEvent = "Untitled Event"

const (
	minTitleLen = 6
	maxTitleLen = 99
	maxLocation = 200
)

// turkishMonths maps lowercase Turkish month names to time.Month.
var turkishMonths = map[string]time.Month{
	"ocak": time.January, "şubat": time.February, "mart": time.March,
	"nisan": time.April, "mayıs": time.May, "haziran": time.June,
	"temmuz": time.July, "ağustos": time.August, "eylül": time.September,
	"ekim": time.October, "kasım": time.November, "aralık": time.December,
}

var englishMonths = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var turkishDays = map[string]time.Weekday{
	"pazartesi": time.Monday, "salı": time.Tuesday, "çarşamba": time.Wednesday,
	"perşembe": time.Thursday, "cuma": time.Friday, "cumartesi": time.Saturday,
	"pazar": time.Sunday,
}

var englishDays = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

var (
	numericDateRe = regexp.MustCompile(`(\d{1,2})[./](\d{1,2})[./](\d{2,4})`)
	turkishDateRe = regexp.MustCompile(`(\d{1,2})\s+(ocak|şubat|mart|nisan|mayıs|haziran|temmuz|ağustos|eylül|ekim|kasım|aralık)(?:\s+(\d{4}))?`)
	englishDateRe = regexp.MustCompile(`(\d{1,2})\s+(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+(\d{4}))?`)
	turkishDayRe  = regexp.MustCompile(`pazartesi|salı|çarşamba|perşembe|cumartesi|cuma|pazar`)
	englishDayRe  = regexp.MustCompile(`monday|tuesday|wednesday|thursday|friday|saturday|sunday`)

	leadingNonWordRe = regexp.MustCompile(`^[^\p{L}\p{N}]+`)

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:yer|konum|location|where)[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?:@|📍)\s*([^\n]+)`),
	}
)

// Regex is the deterministic fallback extractor. It is total: any input
// yields a Raw, with the title defaulting to the UntitledEvent sentinel.
// The clock is injectable so the past-date policy is testable.
type Regex struct {
	// Now supplies the current moment; defaults to time.Now.
	Now func() time.Time
	// AssumeFuture advances a parsed date one year when it falls before
	// Now — posts describe events prospectively within a run.
	AssumeFuture bool
}

// NewRegex returns a fallback extractor with the default prospective-date
// policy enabled.
func NewRegex() *Regex {
	return &Regex{Now: time.Now, AssumeFuture: true}
}

// Extract derives title, date, and location directly from text. Category
// is never inferred by this tier; the description is the full input.
func (x *Regex) Extract(text string) Raw {
	now := time.Now()
	if x.Now != nil {
		now = x.Now()
	}

	return Raw{
		Title:       extractTitle(text),
		Description: text,
		EventDate:   x.extractDate(strings.ToLower(text), now),
		Location:    extractLocation(strings.ToLower(text)),
	}
}

// extractTitle returns the first line whose length lands in
// [minTitleLen, maxTitleLen] after stripping a leading run of non-word
// characters (emoji, punctuation). Lengths are counted in runes so
// Turkish text measures the same as ASCII.
func extractTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		cleaned := strings.TrimSpace(leadingNonWordRe.ReplaceAllString(strings.TrimSpace(line), ""))
		n := utf8.RuneCountInString(cleaned)
		if n >= minTitleLen && n <= maxTitleLen {
			return cleaned
		}
	}
	return UntitledEvent
}

// extractDate finds the first date reference among the ordered patterns
// and resolves it to an ISO-8601 string. Returns "" when nothing matches.
func (x *Regex) extractDate(lower string, now time.Time) string {
	if t, ok := parseNumericDate(lower); ok {
		return x.resolve(t, now)
	}
	if t, ok := parseMonthDate(lower, turkishDateRe, turkishMonths, now.Year()); ok {
		return x.resolve(t, now)
	}
	if t, ok := parseMonthDate(lower, englishDateRe, englishMonths, now.Year()); ok {
		return x.resolve(t, now)
	}
	if d, ok := matchWeekday(lower, turkishDayRe, turkishDays); ok {
		return isoFormat(nextWeekday(now, d))
	}
	if d, ok := matchWeekday(lower, englishDayRe, englishDays); ok {
		return isoFormat(nextWeekday(now, d))
	}
	return ""
}

// resolve applies the prospective-date policy: a date strictly before now
// is advanced by exactly one year.
func (x *Regex) resolve(t time.Time, now time.Time) string {
	if x.AssumeFuture && t.Before(now) {
		t = t.AddDate(1, 0, 0)
	}
	return isoFormat(t)
}

func isoFormat(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

func parseNumericDate(lower string) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	day := atoi(m[1])
	month := atoi(m[2])
	year := atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func parseMonthDate(lower string, re *regexp.Regexp, months map[string]time.Month, defaultYear int) (time.Time, bool) {
	m := re.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	day := atoi(m[1])
	month, ok := months[m[2]]
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := defaultYear
	if m[3] != "" {
		year = atoi(m[3])
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func matchWeekday(lower string, re *regexp.Regexp, days map[string]time.Weekday) (time.Weekday, bool) {
	m := re.FindString(lower)
	if m == "" {
		return 0, false
	}
	d, ok := days[m]
	return d, ok
}

// nextWeekday returns the upcoming occurrence of the weekday, counting
// today as upcoming.
func nextWeekday(now time.Time, d time.Weekday) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// extractLocation returns the first labeled location match, trimmed and
// capped. The input is already lowercased, so the result is too.
func extractLocation(lower string) string {
	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		loc := strings.TrimSpace(m[1])
		if utf8.RuneCountInString(loc) > 3 {
			return truncateRunes(loc, maxLocation)
		}
	}
	return ""
}

// truncateRunes caps s at n runes without splitting a multi-byte rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
