package event

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// Post is the unstructured content of a single club post, as captured by
// the crawler. Immutable once captured.
type Post struct {
	Caption    string    `json:"caption"`
	ClubName   string    `json:"club_name,omitempty"`
	PostURL    string    `json:"post_url,omitempty"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
}

// ID returns a deterministic identifier for the post. The post URL is the
// natural identity when present; otherwise the caption content stands in.
func (p Post) ID() string {
	key := p.PostURL
	if key == "" {
		key = p.Caption
	}
	return GenerateID(p.ClubName, key)
}

// Candidate is the validated, normalized output of the extraction pipeline.
// Empty string means the field is absent. A candidate is only publishable
// when at least one of Title or EventDate is present.
type Candidate struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	EventDate   string `json:"event_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Location    string `json:"location,omitempty"`
	Category    string `json:"category,omitempty"`
}

// HasIdentity reports whether the candidate passes the acceptance gate:
// a title or an event date survived validation.
func (c Candidate) HasIdentity() bool {
	return c.Title != "" || c.EventDate != ""
}

// GenerateID creates a deterministic ID from a club name and a content key.
func GenerateID(club, key string) string {
	h := sha1.New()
	h.Write([]byte(club + "|" + key))
	return fmt.Sprintf("%x", h.Sum(nil))
}
