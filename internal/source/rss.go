package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/thehive/hive-events/internal/event"
)

// RSSSource pulls posts from club announcement feeds. Title and
// description are joined into one caption so the classifier sees the
// same text a reader would.
type RSSSource struct {
	Feeds  []string
	Club   string
	parser *gofeed.Parser
}

// NewRSSSource creates a feed-backed post source.
func NewRSSSource(feeds []string, club string) *RSSSource {
	return &RSSSource{
		Feeds:  feeds,
		Club:   club,
		parser: gofeed.NewParser(),
	}
}

// Load fetches every configured feed. A single unreachable feed fails
// the load; feed problems should surface before a batch starts.
func (s *RSSSource) Load(ctx context.Context) ([]event.Post, error) {
	posts := make([]event.Post, 0)

	for _, url := range s.Feeds {
		feed, err := s.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching feed %s: %w", url, err)
		}

		club := s.Club
		if club == "" {
			club = feed.Title
		}

		for _, item := range feed.Items {
			caption := item.Title
			if item.Description != "" {
				caption = caption + "\n" + item.Description
			}
			caption = strings.TrimSpace(caption)
			if caption == "" {
				continue
			}

			post := event.Post{
				Caption:  caption,
				ClubName: club,
				PostURL:  item.Link,
			}
			if item.PublishedParsed != nil {
				post.CapturedAt = *item.PublishedParsed
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}
