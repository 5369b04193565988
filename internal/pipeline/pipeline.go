// Package pipeline composes the extraction stages: classifier, AI tier
// with regex fallback, validators, and the acceptance gate. Each post is
// processed independently; the only I/O inside a single extraction is the
// AI tier's bounded network call.
package pipeline

import (
	"context"

	"github.com/thehive/hive-events/internal/classify"
	"github.com/thehive/hive-events/internal/event"
	"github.com/thehive/hive-events/internal/extract"
	"github.com/thehive/hive-events/internal/validate"
)

// AITier is the primary, AI-assisted extractor.
type AITier interface {
	Extract(ctx context.Context, text, clubName string) extract.Result
}

// FallbackTier is the deterministic extractor used when the AI tier is
// unavailable or produces nothing usable.
type FallbackTier interface {
	Extract(text string) extract.Raw
}

// Verdict is the terminal state of a single post's extraction.
type Verdict int

const (
	// VerdictNotEvent means the classifier said no; no candidate produced.
	VerdictNotEvent Verdict = iota
	// VerdictRejected means extraction ran but neither title nor date
	// survived validation. A normal outcome, not a failure.
	VerdictRejected
	// VerdictAccepted means the candidate passed the gate and may be
	// handed to the sync boundary.
	VerdictAccepted
)

func (v Verdict) String() string {
	switch v {
	case VerdictNotEvent:
		return "not_event"
	case VerdictRejected:
		return "rejected"
	case VerdictAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Tier names which extractor produced the fields.
type Tier string

const (
	TierNone  Tier = ""
	TierAI    Tier = "ai"
	TierRegex Tier = "regex"
)

// Extraction is the full result of processing one post.
type Extraction struct {
	Post      event.Post
	Signals   classify.Result
	Tier      Tier
	Candidate event.Candidate
	Verdict   Verdict
}

// Pipeline wires the stages together. AI may be nil, in which case every
// classified post goes straight to the fallback tier.
type Pipeline struct {
	AI       AITier
	Fallback FallbackTier
}

// New builds a pipeline with the given tiers.
func New(ai AITier, fallback FallbackTier) *Pipeline {
	return &Pipeline{AI: ai, Fallback: fallback}
}

// Process runs one post through classification, extraction, validation,
// and the acceptance gate. The AI tier is attempted exactly once; any
// unavailable, malformed, or empty result triggers exactly one fallback
// to the regex tier. Both tiers' output passes through the same
// validators.
func (p *Pipeline) Process(ctx context.Context, post event.Post) Extraction {
	ext := Extraction{Post: post}

	ext.Signals = classify.Classify(post.Caption)
	if !ext.Signals.IsEvent {
		ext.Verdict = VerdictNotEvent
		return ext
	}

	var raw extract.Raw
	ext.Tier = TierRegex
	if p.AI != nil {
		res := p.AI.Extract(ctx, post.Caption, post.ClubName)
		switch res.Status {
		case extract.StatusSucceeded:
			if !res.Fields.Empty() {
				raw = res.Fields
				ext.Tier = TierAI
			}
		case extract.StatusUnavailable:
			// fall back below
		}
	}
	if ext.Tier == TierRegex {
		raw = p.Fallback.Extract(post.Caption)
	}

	// The AI tier may omit the description; the caption is the
	// authoritative fallback either way.
	if raw.Description == "" {
		raw.Description = post.Caption
	}

	ext.Candidate = validate.Candidate(raw.Title, raw.Description, raw.EventDate, raw.EndDate, raw.Location, raw.Category)

	if ext.Candidate.HasIdentity() {
		ext.Verdict = VerdictAccepted
	} else {
		ext.Verdict = VerdictRejected
	}
	return ext
}
