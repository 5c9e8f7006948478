package source

import (
	"context"
	"time"

	"github.com/ppiankov/newsflash/internal/content"
)

// Item is a single fetched entry: a content variant plus where it came from.
type Item struct {
	Source   string          // source identifier: "rss", "reddit", "hn", "posts"
	URL      string          // link to the original item, if any
	PostedAt time.Time       // publication timestamp
	Content  content.Summary // the variant handed to the notifiers
}

// Source fetches items from an information stream.
type Source interface {
	// Name returns the source identifier (e.g. "rss").
	Name() string

	// Fetch returns items published after the given time.
	Fetch(ctx context.Context, since time.Time) ([]Item, error)
}

// Batch extracts the content handles of items, keeping their order.
func Batch(items []Item) []content.Summary {
	batch := make([]content.Summary, 0, len(items))
	for _, it := range items {
		batch = append(batch, it.Content)
	}
	return batch
}
