package eventsync

import (
	"context"
	"fmt"

	"github.com/thehive/hive-events/internal/event"
)

// DryRunClient prints what would be published without touching the
// backend. Every candidate reports as created.
type DryRunClient struct{}

// NewDryRunClient creates a dry-run publisher.
func NewDryRunClient() *DryRunClient {
	return &DryRunClient{}
}

// Publish prints the candidate instead of submitting it.
func (c *DryRunClient) Publish(_ context.Context, cand event.Candidate, source event.Post) (Outcome, error) {
	fmt.Printf("--- Would publish for %s ---\n", source.ClubName)
	fmt.Printf("Title:    %s\n", cand.Title)
	fmt.Printf("Date:     %s\n", cand.EventDate)
	if cand.Location != "" {
		fmt.Printf("Location: %s\n", cand.Location)
	}
	if cand.Category != "" {
		fmt.Printf("Category: %s\n", cand.Category)
	}
	fmt.Println()
	return Outcome{Status: StatusCreated}, nil
}
