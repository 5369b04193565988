package event

import "time"

// dateLayouts are tried in order by ParseDate. ISO forms first, then the
// loose formats that show up in club posts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2 January 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2.1.2006",
	"2.1.06",
	"2/1/2006",
	"2/1/06",
}

// yearlessLayouts are tried after dateLayouts; a match is anchored to the
// given default year.
var yearlessLayouts = []string{
	"2 January",
	"January 2",
	"Jan 2",
}

// ParseDate attempts to parse free-form date text into a time.Time.
// Returns time.Time{} (zero value) if no layout matches. Yearless dates
// are anchored to the current year.
func ParseDate(dateText string) time.Time {
	return ParseDateInYear(dateText, time.Now().Year())
}

// ParseDateInYear is ParseDate with an explicit default year for dates
// that carry no year of their own.
func ParseDateInYear(dateText string, defaultYear int) time.Time {
	if dateText == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateText); err == nil {
			return t
		}
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, dateText); err == nil {
			return time.Date(defaultYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Time{}
}
