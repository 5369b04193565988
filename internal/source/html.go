package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/thehive/hive-events/internal/event"
)

// HTMLSource parses a saved profile-page export. Captions live in image
// alt text or inside article blocks; permalinks are anchors under /p/.
type HTMLSource struct {
	Path string
	Club string
}

// NewHTMLSource creates an HTML-export post source.
func NewHTMLSource(path, club string) *HTMLSource {
	return &HTMLSource{Path: path, Club: club}
}

// Load parses the export file into posts.
func (s *HTMLSource) Load(_ context.Context) ([]event.Post, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	return s.parse(f)
}

func (s *HTMLSource) parse(r io.Reader) ([]event.Post, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	posts := make([]event.Post, 0)

	// Strategy 1: permalink anchors with an image whose alt holds the
	// caption. This is the shape of a saved grid page.
	doc.Find(`a[href*="/p/"]`).Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		caption := ""
		sel.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			if alt, ok := img.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
				caption = strings.TrimSpace(alt)
				return false
			}
			return true
		})
		if caption == "" {
			return
		}
		posts = append(posts, event.Post{
			Caption:  caption,
			ClubName: s.Club,
			PostURL:  href,
		})
	})

	// Strategy 2: article blocks from a saved single-post page.
	doc.Find("article").Each(func(i int, sel *goquery.Selection) {
		caption := strings.TrimSpace(sel.Find("h1, [data-caption]").First().Text())
		if caption == "" {
			return
		}
		href := ""
		if link, ok := sel.Find(`a[href*="/p/"]`).First().Attr("href"); ok {
			href = link
		}
		posts = append(posts, event.Post{
			Caption:  caption,
			ClubName: s.Club,
			PostURL:  href,
		})
	})

	// Deduplicate by stable ID across strategies.
	seen := make(map[string]bool)
	unique := make([]event.Post, 0, len(posts))
	for _, p := range posts {
		id := p.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, p)
		}
	}
	return unique, nil
}
