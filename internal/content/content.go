// Package content defines the item variants newsflash can summarize and the
// single capability they share.
package content

import (
	"errors"
	"fmt"

	"github.com/goccy/go-reflect"
)

// ErrNotSummarizable is returned when a value entering a handle does not
// implement Summary.
var ErrNotSummarizable = errors.New("value does not implement content.Summary")

// Summary is implemented by every item that can be turned into a digest.
// Summarize must not mutate the receiver, perform I/O, or fail.
type Summary interface {
	Summarize() string
}

// NewsArticle is a long-form article from a feed.
type NewsArticle struct {
	Headline string
	Location string
	Author   string
	Content  string
}

// Summarize returns "<headline>, by <author> (<location>)".
func (a NewsArticle) Summarize() string {
	return fmt.Sprintf("%s, by %s (%s)", a.Headline, a.Author, a.Location)
}

// Tweet is a short post.
type Tweet struct {
	Username string
	Content  string
	Reply    bool
	Retweet  bool
}

// Summarize returns "<username>: <content>".
func (t Tweet) Summarize() string {
	return t.Username + ": " + t.Content
}

// PlatformPost is a titled post on a link aggregator or forum.
type PlatformPost struct {
	Platform string
	Account  string
	Title    string
}

// Summarize returns "<platform> from <account>: <title>".
func (p PlatformPost) Summarize() string {
	return fmt.Sprintf("%s from %s: %s", p.Platform, p.Account, p.Title)
}

const (
	KindArticle      = "article"
	KindTweet        = "tweet"
	KindPlatformPost = "platform_post"
	KindCustom       = "custom"
)

// Kind labels s for output and storage. Implementations from other packages
// are reported as KindCustom.
func Kind(s Summary) string {
	switch s.(type) {
	case NewsArticle, *NewsArticle:
		return KindArticle
	case Tweet, *Tweet:
		return KindTweet
	case PlatformPost, *PlatformPost:
		return KindPlatformPost
	default:
		return KindCustom
	}
}

// Handle is the entry point for values typed as any: it turns v into a
// Summary, rejecting anything that does not implement the capability.
// Statically typed call sites don't need it.
func Handle(v any) (Summary, error) {
	if v == nil {
		return nil, fmt.Errorf("nil: %w", ErrNotSummarizable)
	}
	s, ok := v.(Summary)
	if !ok {
		return nil, fmt.Errorf("%T: %w", v, ErrNotSummarizable)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, fmt.Errorf("nil %T: %w", v, ErrNotSummarizable)
	}
	return s, nil
}

// Handles converts every value with Handle, failing on the first
// non-conforming one. The order of vs is kept.
func Handles(vs ...any) ([]Summary, error) {
	out := make([]Summary, 0, len(vs))
	for i, v := range vs {
		s, err := Handle(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
