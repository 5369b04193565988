// Package extract derives raw event fields from post text. Two tiers exist:
// an AI-assisted extractor talking to an OpenAI-compatible completion
// service, and a deterministic regex fallback that always produces a
// result. Both emit untrusted field bags; validation happens downstream.
package extract

import "strings"

// Raw is the unvalidated field bag produced by either extractor tier.
// Empty string means the field is absent. Values may still contain
// forbidden tokens, malformed dates, or over-length strings.
type Raw struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

// Empty reports whether no field carries a usable value.
func (r Raw) Empty() bool {
	return strings.TrimSpace(r.Title) == "" &&
		strings.TrimSpace(r.Description) == "" &&
		strings.TrimSpace(r.EventDate) == "" &&
		strings.TrimSpace(r.EndDate) == "" &&
		strings.TrimSpace(r.Location) == "" &&
		strings.TrimSpace(r.Category) == ""
}

// Status tags an extraction Result.
type Status int

const (
	// StatusSucceeded means Fields holds the parsed extraction.
	StatusSucceeded Status = iota
	// StatusUnavailable means the tier produced nothing usable and the
	// caller should fall back. Reason says why.
	StatusUnavailable
)

// Result is the tagged outcome of an AI extraction attempt.
type Result struct {
	Status Status
	Fields Raw
	Reason string
}

// Succeeded wraps fields in a successful Result.
func Succeeded(fields Raw) Result {
	return Result{Status: StatusSucceeded, Fields: fields}
}

// Unavailable builds a fallback-triggering Result.
func Unavailable(reason string) Result {
	return Result{Status: StatusUnavailable, Reason: reason}
}
