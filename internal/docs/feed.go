package docs

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// ParseFeed extracts documents from syndication-feed XML. Each item becomes
// one Document; items with neither title nor description are dropped.
// Malformed feeds degrade to zero documents, never an error.
func ParseFeed(body, feedURL string) []Document {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(body)
	if err != nil {
		return nil
	}

	out := make([]Document, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		snippet := stripMarkup(item.Description)
		if title == "" && snippet == "" {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" && len(item.Links) > 0 {
			link = strings.TrimSpace(item.Links[0])
		}
		if link == "" {
			link = feedURL
		}
		out = append(out, Document{
			Title:   title,
			Snippet: snippet,
			URL:     link,
			Joined:  collapseWhitespace(title + " " + snippet),
		})
	}
	return out
}
