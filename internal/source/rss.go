package source

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ppiankov/newsflash/internal/content"
)

const (
	rssSourceName    = "rss"
	rssFetchTimeout  = 30 * time.Second
	rssUserAgent     = "Mozilla/5.0 (compatible; newsflash/1.0; +https://github.com/ppiankov/newsflash)"
	rssMaxWorkers    = 10
	rssMaxRetries    = 3
	rssDomainDelay   = 3 * time.Second
	rssUnknownAuthor = "unknown"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s{3,}`)
)

// RSSSource fetches news articles from RSS/Atom feeds.
type RSSSource struct {
	feeds  []string
	log    *slog.Logger
	client *http.Client
}

// NewRSS creates an RSS/Atom source. At least one feed URL is required.
func NewRSS(feeds []string, log *slog.Logger) (*RSSSource, error) {
	if len(feeds) == 0 {
		return nil, errors.New("rss: at least one feed URL is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &RSSSource{
		feeds: feeds,
		log:   log,
		client: &http.Client{
			Timeout:   rssFetchTimeout,
			Transport: &rssTransport{base: http.DefaultTransport},
		},
	}, nil
}

func (rs *RSSSource) Name() string {
	return rssSourceName
}

// Fetch reads every feed. Feeds on the same host are fetched one after the
// other; a failing feed is logged and skipped.
func (rs *RSSSource) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	type result struct {
		items []Item
		err   error
		url   string
	}

	domainFeeds := make(map[string][]string)
	for _, feedURL := range rs.feeds {
		d := feedDomain(feedURL)
		domainFeeds[d] = append(domainFeeds[d], feedURL)
	}

	results := make(chan result, len(rs.feeds))
	domainJobs := make(chan []string, len(domainFeeds))

	workers := min(rssMaxWorkers, len(domainFeeds))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feeds := range domainJobs {
				for i, feedURL := range feeds {
					if i > 0 {
						rssSleepFunc(rssDomainDelay)
					}
					items, err := rs.fetchWithRetry(ctx, feedURL, since)
					results <- result{items: items, err: err, url: feedURL}
				}
			}
		}()
	}

	for _, feeds := range domainFeeds {
		domainJobs <- feeds
	}
	close(domainJobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var items []Item
	for r := range results {
		if r.err != nil {
			rs.log.WarnContext(ctx, "rss feed failed", "feed", r.url, "error", r.err)
			continue
		}
		items = append(items, r.items...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// feedDomain extracts the host from a feed URL for rate limiting grouping.
func feedDomain(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Host
}

// rssTransport injects a User-Agent header into every request.
type rssTransport struct {
	base http.RoundTripper
}

func (t *rssTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", rssUserAgent)
	return t.base.RoundTrip(req)
}

// rssSleepFunc is the function used for retry backoff delays.
// It defaults to time.Sleep but can be overridden in tests.
var rssSleepFunc = time.Sleep

func (rs *RSSSource) fetchWithRetry(ctx context.Context, feedURL string, since time.Time) ([]Item, error) {
	var lastErr error
	for attempt := range rssMaxRetries {
		items, err := rs.fetchFeed(ctx, feedURL, since)
		if err == nil {
			return items, nil
		}
		if !isRetryableError(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		if attempt < rssMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second // 1s, 2s, 4s
			rs.log.DebugContext(ctx, "rss retry", "feed", feedURL, "attempt", attempt+1, "backoff", backoff)
			rssSleepFunc(backoff)
		}
	}
	return nil, lastErr
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 429 || httpErr.StatusCode >= 500
	}
	s := err.Error()
	if strings.Contains(s, "timeout") || strings.Contains(s, "Timeout") {
		return true
	}
	if strings.Contains(s, "connection refused") || strings.Contains(s, "no such host") {
		return true
	}
	return false
}

func (rs *RSSSource) fetchFeed(ctx context.Context, feedURL string, since time.Time) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, rssFetchTimeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = rs.client
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}

	return itemsFromFeed(feed, feedURL, since), nil
}

func itemsFromFeed(feed *gofeed.Feed, feedURL string, since time.Time) []Item {
	var items []Item
	for _, it := range feed.Items {
		postedAt := itemPublishedTime(it)
		if postedAt.IsZero() || postedAt.Before(since) {
			continue
		}

		items = append(items, Item{
			Source:   rssSourceName,
			URL:      it.Link,
			PostedAt: postedAt,
			Content: content.NewsArticle{
				Headline: strings.TrimSpace(it.Title),
				Author:   itemAuthor(feed, it),
				Location: feedLabel(feed, feedURL),
				Content:  itemText(it),
			},
		})
	}
	return items
}

func itemPublishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemAuthor(feed *gofeed.Feed, item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	for _, p := range feed.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	return rssUnknownAuthor
}

func feedLabel(feed *gofeed.Feed, feedURL string) string {
	if feed.Title != "" {
		return feed.Title
	}
	return feedURL
}

func itemText(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}
	return stripHTML(raw)
}

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
