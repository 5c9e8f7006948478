package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ppiankov/newsflash/internal/content"
)

const (
	hnSourceName   = "hn"
	hnPlatform     = "Hacker News"
	hnAPIBase      = "https://hacker-news.firebaseio.com/v0"
	hnItemURL      = "https://news.ycombinator.com/item?id="
	hnFetchTimeout = 30 * time.Second
	hnMaxStories   = 200
	hnMaxWorkers   = 5
)

// HNSource fetches top stories from Hacker News via the Firebase API.
type HNSource struct {
	minPoints int
	baseURL   string
	client    *http.Client
	log       *slog.Logger
}

// NewHN creates a Hacker News source. minPoints filters stories below the threshold.
func NewHN(minPoints int, log *slog.Logger) (*HNSource, error) {
	if minPoints < 1 {
		return nil, errors.New("hn: min_points must be at least 1")
	}
	if log == nil {
		log = slog.Default()
	}
	return &HNSource{
		minPoints: minPoints,
		baseURL:   hnAPIBase,
		client:    &http.Client{Timeout: hnFetchTimeout},
		log:       log,
	}, nil
}

func (h *HNSource) Name() string {
	return hnSourceName
}

// hnItem represents a Hacker News story from the API.
type hnItem struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
	By    string `json:"by"`
}

// Fetch returns qualifying stories in top-stories rank order.
func (h *HNSource) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, hnFetchTimeout)
	defer cancel()

	ids, err := h.fetchTopStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("hn: fetch top stories: %w", err)
	}
	if len(ids) > hnMaxStories {
		ids = ids[:hnMaxStories]
	}

	// Slots are indexed by rank so parallel fetches keep the API order.
	slots := make([]*Item, len(ids))
	jobs := make(chan int, len(ids))
	for i := range ids {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range min(hnMaxWorkers, len(ids)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item, err := h.fetchItem(ctx, ids[i])
				if err != nil {
					h.log.WarnContext(ctx, "hn item failed", "id", ids[i], "error", err)
					continue
				}
				slots[i] = h.toItem(item, since)
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []Item
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

func (h *HNSource) toItem(item *hnItem, since time.Time) *Item {
	if item.Type != "story" || item.Score < h.minPoints {
		return nil
	}
	postedAt := time.Unix(item.Time, 0)
	if postedAt.Before(since) {
		return nil
	}

	link := item.URL
	if link == "" {
		link = fmt.Sprintf("%s%d", hnItemURL, item.ID)
	}
	return &Item{
		Source:   hnSourceName,
		URL:      link,
		PostedAt: postedAt,
		Content: content.PlatformPost{
			Platform: hnPlatform,
			Account:  item.By,
			Title:    item.Title,
		},
	}
}

func (h *HNSource) fetchTopStories(ctx context.Context) ([]int, error) {
	var ids []int
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("topstories: %w", err)
	}
	return ids, nil
}

func (h *HNSource) fetchItem(ctx context.Context, id int) (*hnItem, error) {
	var item hnItem
	if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &item); err != nil {
		return nil, fmt.Errorf("item %d: %w", id, err)
	}
	return &item, nil
}

func (h *HNSource) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
