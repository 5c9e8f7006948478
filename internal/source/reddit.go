package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/newsflash/internal/content"
)

const (
	redditSourceName = "reddit"
	redditPlatform   = "reddit"
	redditBaseURL    = "https://www.reddit.com"
	redditTimeout    = 30 * time.Second
	redditUserAgent  = "newsflash/1.0"
	redditRateLimit  = 1 * time.Second
)

// RedditSource fetches posts from public subreddits via Reddit's JSON API.
type RedditSource struct {
	subreddits []string
	client     *http.Client
	baseURL    string
	log        *slog.Logger
	sleep      func(time.Duration)
}

// NewReddit creates a Reddit source. At least one subreddit is required.
func NewReddit(subreddits []string, log *slog.Logger) (*RedditSource, error) {
	if len(subreddits) == 0 {
		return nil, errors.New("reddit: at least one subreddit is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedditSource{
		subreddits: subreddits,
		client:     &http.Client{Timeout: redditTimeout},
		baseURL:    redditBaseURL,
		log:        log,
		sleep:      time.Sleep,
	}, nil
}

func (rs *RedditSource) Name() string {
	return redditSourceName
}

// Fetch reads subreddits one at a time; a failing subreddit is logged and skipped.
func (rs *RedditSource) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	var items []Item

	for i, sub := range rs.subreddits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			rs.sleep(redditRateLimit)
		}

		got, err := rs.fetchSubreddit(ctx, sub, since)
		if err != nil {
			rs.log.WarnContext(ctx, "reddit fetch failed", "subreddit", sub, "error", err)
			continue
		}
		items = append(items, got...)
	}

	return items, nil
}

func (rs *RedditSource) fetchSubreddit(ctx context.Context, subreddit string, since time.Time) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, redditTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/r/%s/new.json?limit=100", rs.baseURL, subreddit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := rs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("r/%s: status %d", subreddit, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode r/%s: %w", subreddit, err)
	}

	return itemsFromListing(listing, subreddit, since), nil
}

func itemsFromListing(listing redditListing, subreddit string, since time.Time) []Item {
	var items []Item
	for _, child := range listing.Data.Children {
		p := child.Data
		postedAt := time.Unix(int64(p.CreatedUTC), 0).UTC()
		if postedAt.Before(since) {
			continue
		}

		items = append(items, Item{
			Source:   redditSourceName,
			URL:      redditBaseURL + p.Permalink,
			PostedAt: postedAt,
			Content: content.PlatformPost{
				Platform: redditPlatform,
				Account:  "r/" + subreddit,
				Title:    strings.TrimSpace(p.Title),
			},
		})
	}
	return items
}

type redditListing struct {
	Data struct {
		Children []redditChild `json:"children"`
	} `json:"data"`
}

type redditChild struct {
	Data redditPost `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}
