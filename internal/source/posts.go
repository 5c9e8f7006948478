package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/newsflash/internal/content"
)

const postsSourceName = "posts"

// PostsFileSource reads short posts from a local YAML file:
//
//	posts:
//	  - username: horse_ebooks
//	    text: of course, as you probably already know, people
//	    reply: false
//	    retweet: false
//	    posted_at: 2026-10-17T09:00:00Z
//	    url: https://example.com/status/1
type PostsFileSource struct {
	path string
}

type postsFile struct {
	Posts []postEntry `yaml:"posts"`
}

type postEntry struct {
	Username string    `yaml:"username"`
	Text     string    `yaml:"text"`
	Reply    bool      `yaml:"reply"`
	Retweet  bool      `yaml:"retweet"`
	PostedAt time.Time `yaml:"posted_at"`
	URL      string    `yaml:"url"`
}

// NewPostsFile creates a source backed by the YAML file at path.
func NewPostsFile(path string) (*PostsFileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("posts: file path is required")
	}
	return &PostsFileSource{path: path}, nil
}

func (ps *PostsFileSource) Name() string {
	return postsSourceName
}

// Fetch returns posts in file order. Posts without a timestamp are always
// included; the others must not be older than since.
func (ps *PostsFileSource) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ps.path)
	if err != nil {
		return nil, fmt.Errorf("posts: read %s: %w", ps.path, err)
	}

	var f postsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("posts: parse %s: %w", ps.path, err)
	}

	var items []Item
	for _, p := range f.Posts {
		if !p.PostedAt.IsZero() && p.PostedAt.Before(since) {
			continue
		}
		items = append(items, Item{
			Source:   postsSourceName,
			URL:      p.URL,
			PostedAt: p.PostedAt,
			Content: content.Tweet{
				Username: p.Username,
				Content:  p.Text,
				Reply:    p.Reply,
				Retweet:  p.Retweet,
			},
		})
	}
	return items, nil
}
