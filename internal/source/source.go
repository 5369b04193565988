// Package source loads captured posts for the pipeline. Each
// implementation normalizes its input into event.Post values; the
// pipeline never knows where a post came from.
package source

import (
	"context"

	"github.com/thehive/hive-events/internal/event"
)

// Source produces a batch of posts to scan.
type Source interface {
	Load(ctx context.Context) ([]event.Post, error)
}
