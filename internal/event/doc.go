// Package event defines the domain types that cross the pipeline boundary:
// the raw post captured from a club page, and the validated event candidate
// proposed for publication to the backend.
package event
