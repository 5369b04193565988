package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thehive/hive-events/internal/dedup"
	"github.com/thehive/hive-events/internal/event"
	"github.com/thehive/hive-events/internal/eventsync"
	"github.com/thehive/hive-events/internal/logger"
	"github.com/thehive/hive-events/internal/metrics"
)

// Publisher is the sync boundary the runner hands accepted candidates to.
type Publisher interface {
	Publish(ctx context.Context, cand event.Candidate, source event.Post) (eventsync.Outcome, error)
}

// ItemResult records what happened to a single post in a batch.
type ItemResult struct {
	Post      event.Post       `json:"-"`
	PostID    string           `json:"post_id"`
	Club      string           `json:"club,omitempty"`
	Verdict   string           `json:"verdict"`
	Tier      string           `json:"tier,omitempty"`
	Candidate *event.Candidate `json:"candidate,omitempty"`
	Outcome   eventsync.Status `json:"outcome,omitempty"`
	Error     string           `json:"error,omitempty"`
	Skipped   bool             `json:"skipped,omitempty"`
}

// Summary aggregates a batch run. It is always returned, even when the
// run is interrupted: candidates published before the interrupt stay
// published and stay counted.
type Summary struct {
	RunID       string       `json:"run_id"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Scanned     int          `json:"scanned"`
	Skipped     int          `json:"skipped"`
	NotEvents   int          `json:"not_events"`
	Rejected    int          `json:"rejected"`
	Accepted    int          `json:"accepted"`
	Created     int          `json:"created"`
	Duplicates  int          `json:"duplicates"`
	Failures    int          `json:"failures"`
	Interrupted bool         `json:"interrupted,omitempty"`
	Items       []ItemResult `json:"items,omitempty"`
}

// Runner drives a batch of posts through the pipeline and publishes
// accepted candidates. Posts are processed serially with a configurable
// inter-post delay — a politeness policy toward the crawling session,
// not a pipeline invariant.
type Runner struct {
	Pipeline  *Pipeline
	Publisher Publisher
	Seen      dedup.SeenStore // optional
	Delay     time.Duration
	Log       *logger.Logger
}

// Run processes posts until done or the context is cancelled. A per-item
// sync failure never aborts the remaining items; cancellation returns the
// partial summary instead of discarding it.
func (r *Runner) Run(ctx context.Context, posts []event.Post) *Summary {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	defer func() { summary.FinishedAt = time.Now().UTC() }()

	for i, post := range posts {
		if ctx.Err() != nil {
			summary.Interrupted = true
			r.logWarn("Run interrupted, flushing partial results", logger.Fields{
				"run_id":    summary.RunID,
				"processed": i,
				"total":     len(posts),
			})
			break
		}

		summary.Items = append(summary.Items, r.processOne(ctx, post, summary))

		if r.Delay > 0 && i < len(posts)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(r.Delay):
			}
		}
	}

	return summary
}

func (r *Runner) processOne(ctx context.Context, post event.Post, summary *Summary) ItemResult {
	item := ItemResult{Post: post, PostID: post.ID(), Club: post.ClubName}
	summary.Scanned++
	metrics.PostsScanned.Inc()

	if r.Seen != nil {
		seen, err := r.Seen.Seen(ctx, item.PostID)
		if err != nil {
			r.logWarn("Seen-store lookup failed, treating post as unseen", logger.Fields{
				"post_id": item.PostID,
				"error":   err.Error(),
			})
		} else if seen {
			item.Skipped = true
			item.Verdict = "skipped"
			summary.Skipped++
			return item
		}
	}

	ext := r.Pipeline.Process(ctx, post)
	item.Verdict = ext.Verdict.String()
	item.Tier = string(ext.Tier)

	if ext.Verdict == VerdictNotEvent {
		summary.NotEvents++
		return item
	}

	metrics.PostsClassifiedEvent.Inc()
	if ext.Tier == TierAI {
		metrics.ExtractionsAI.Inc()
	} else {
		metrics.ExtractionsFallback.Inc()
	}

	if ext.Verdict == VerdictRejected {
		summary.Rejected++
		metrics.CandidatesRejected.Inc()
		return item
	}

	summary.Accepted++
	metrics.CandidatesAccepted.Inc()

	cand := ext.Candidate
	item.Candidate = &cand

	outcome, err := r.Publisher.Publish(ctx, cand, post)
	if err != nil {
		// Per-item failure: log, count, move on to the next post.
		item.Error = err.Error()
		summary.Failures++
		metrics.SyncFailures.Inc()
		r.logError("Publish failed", logger.Fields{
			"post_id": item.PostID,
			"club":    post.ClubName,
			"title":   cand.Title,
		}, err)
		return item
	}

	item.Outcome = outcome.Status
	switch outcome.Status {
	case eventsync.StatusCreated:
		summary.Created++
		metrics.SyncCreated.Inc()
	case eventsync.StatusDuplicate:
		// Duplicate means the record already exists: success, not error.
		summary.Duplicates++
		metrics.SyncDuplicates.Inc()
	case eventsync.StatusRejected:
		summary.Failures++
		metrics.SyncFailures.Inc()
	}

	if r.Seen != nil && (outcome.Status == eventsync.StatusCreated || outcome.Status == eventsync.StatusDuplicate) {
		if err := r.Seen.MarkSeen(ctx, item.PostID, time.Now().UTC()); err != nil {
			r.logWarn("Failed to record seen post", logger.Fields{
				"post_id": item.PostID,
				"error":   err.Error(),
			})
		}
	}

	return item
}

func (r *Runner) logWarn(msg string, fields logger.Fields) {
	if r.Log != nil {
		r.Log.Warn(msg, fields)
	}
}

func (r *Runner) logError(msg string, fields logger.Fields, err error) {
	if r.Log != nil {
		r.Log.Error(msg, fields, err)
	}
}
