// Package dedup tracks which posts have already been published, so a
// re-scrape does not resubmit them. The backend's sync contract is
// idempotent anyway; this cache just avoids pointless extraction work
// and API calls.
package dedup

import (
	"context"
	"time"
)

// SeenStore records post IDs that have completed a publish.
type SeenStore interface {
	// Seen reports whether the post ID was already published.
	Seen(ctx context.Context, postID string) (bool, error)
	// MarkSeen records a published post ID.
	MarkSeen(ctx context.Context, postID string, at time.Time) error
	// Close releases any underlying resources.
	Close() error
}
