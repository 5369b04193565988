// Package validate normalizes the untrusted field values produced by the
// extraction tiers. Every validator is a pure, total function mapping a
// value to its normalized form or to "" (absent). Rejecting a single
// field never aborts a candidate; the acceptance gate lives upstream in
// the pipeline.
package validate

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thehive/hive-events/internal/event"
)

const maxLocationLen = 200

// blockedLocationTerms reject values that are social platforms, virtual
// meeting tools, URL markers, or placeholder tokens rather than places.
var blockedLocationTerms = []string{
	"instagram", "twitter", "facebook", "linkedin", "youtube",
	"tiktok", "http", "www.", "@", "online", "zoom", "teams",
	"null", "none", "n/a", "tba", "tbd",
}

// placeholderTokens are values that mean "no value".
var placeholderTokens = map[string]bool{
	"null": true, "none": true, "n/a": true, "tba": true, "tbd": true, "": true,
}

// validCategories is the fixed category enumeration.
var validCategories = map[string]bool{
	"music": true, "sports": true, "technology": true, "art": true,
	"academic": true, "social": true, "career": true, "workshop": true,
	"seminar": true, "other": true,
}

// categorySynonyms maps common near-miss values into the enumeration.
var categorySynonyms = map[string]string{
	"tech":         "technology",
	"sport":        "sports",
	"artistic":     "art",
	"education":    "academic",
	"educational":  "academic",
	"conference":   "seminar",
	"talk":         "seminar",
	"presentation": "seminar",
	"networking":   "social",
	"party":        "social",
	"concert":      "music",
	"performance":  "music",
	"job":          "career",
	"internship":   "career",
	"training":     "workshop",
}

// Text trims a free-text value and rejects anything shorter than two
// characters after trimming.
func Text(value string) string {
	cleaned := strings.TrimSpace(value)
	if utf8.RuneCountInString(cleaned) < 2 {
		return ""
	}
	return cleaned
}

// Location trims and filters a location value. A blocked term rejects the
// value unless the string is more than 10 characters longer than the term
// and carries no URL marker: a venue description merely mentioning a
// platform name is not itself a platform name. The result is capped at
// 200 characters.
func Location(value string) string {
	loc := strings.TrimSpace(value)
	if loc == "" {
		return ""
	}

	lower := strings.ToLower(loc)
	locLen := utf8.RuneCountInString(loc)
	for _, term := range blockedLocationTerms {
		if !strings.Contains(lower, term) {
			continue
		}
		if locLen > utf8.RuneCountInString(term)+10 && !strings.Contains(lower, "http") {
			continue
		}
		return ""
	}

	if locLen < 3 {
		return ""
	}
	if locLen > maxLocationLen {
		loc = string([]rune(loc)[:maxLocationLen])
	}
	return loc
}

// Date normalizes a date value to ISO-8601, or "" on total failure.
// Placeholder tokens are rejected; a strict ISO parse is attempted first,
// then the fuzzy layout chain. No timezone is inferred beyond what the
// parse yields.
func Date(value string) string {
	s := strings.TrimSpace(value)
	if placeholderTokens[strings.ToLower(s)] {
		return ""
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.RFC3339)
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Format("2006-01-02T15:04:05")
	}

	if t := event.ParseDate(s); !t.IsZero() {
		return t.Format("2006-01-02T15:04:05")
	}
	return ""
}

// Category lower-cases and maps a category value into the fixed
// enumeration, consulting the synonym map for near misses. Any non-empty
// value that matches neither is coerced to "other" rather than dropped:
// category is deliberately lossy-but-present, unlike title, date, and
// location which may become absent.
func Category(value string) string {
	cat := strings.ToLower(strings.TrimSpace(value))
	if cat == "" {
		return ""
	}
	if validCategories[cat] {
		return cat
	}
	if mapped, ok := categorySynonyms[cat]; ok {
		return mapped
	}
	return "other"
}

// Candidate runs every field of a raw extraction through its validator
// and assembles the normalized candidate.
func Candidate(title, description, eventDate, endDate, location, category string) event.Candidate {
	return event.Candidate{
		Title:       Text(title),
		Description: Text(description),
		EventDate:   Date(eventDate),
		EndDate:     Date(endDate),
		Location:    Location(location),
		Category:    Category(category),
	}
}
