package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/thehive/hive-events/internal/event"
)

// FileSource reads posts from a JSON file: an array of objects with
// caption, club_name, post_url, and captured_at fields. Produced by
// capture tooling outside this repo.
type FileSource struct {
	Path string
	Club string // overrides club_name when set
}

// NewFileSource creates a file-backed post source.
func NewFileSource(path, club string) *FileSource {
	return &FileSource{Path: path, Club: club}
}

type filePost struct {
	Caption    string `json:"caption"`
	ClubName   string `json:"club_name"`
	PostURL    string `json:"post_url"`
	CapturedAt string `json:"captured_at"`
}

// Load reads and normalizes all posts from the file.
func (s *FileSource) Load(_ context.Context) ([]event.Post, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading posts file: %w", err)
	}

	var raw []filePost
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing posts file: %w", err)
	}

	posts := make([]event.Post, 0, len(raw))
	for _, p := range raw {
		post := event.Post{
			Caption:  p.Caption,
			ClubName: p.ClubName,
			PostURL:  p.PostURL,
		}
		if s.Club != "" {
			post.ClubName = s.Club
		}
		if p.CapturedAt != "" {
			if t, err := time.Parse(time.RFC3339, p.CapturedAt); err == nil {
				post.CapturedAt = t
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}
