// Package digest renders a batch of notifications for people and tools.
package digest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/ppiankov/newsflash/internal/content"
)

// Entry is one notification with the metadata of the item it came from.
type Entry struct {
	Source   string
	Kind     string
	Message  string
	URL      string
	PostedAt time.Time
}

// Input is the full input for a formatter. Entries are rendered in order.
type Input struct {
	Entries []Entry
	Sources int           // number of sources fetched
	Since   time.Duration // time window
}

// Formatter writes a formatted digest to w.
type Formatter interface {
	Format(w io.Writer, input Input) error
}

// New returns the formatter for name. color only affects the terminal format.
func New(name string, color bool) (Formatter, error) {
	switch name {
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "terminal", "":
		return NewTerminal(color), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, json, or markdown)", name)
	}
}

// ColorEnabled reports whether ANSI colors should be used for f: never when
// NO_COLOR is set, otherwise only on a terminal.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type kindCount struct {
	Kind  string
	Count int
}

// countKinds tallies entries per kind, in the order kinds first appear.
func countKinds(entries []Entry) []kindCount {
	var out []kindCount
	idx := make(map[string]int)
	for _, e := range entries {
		i, ok := idx[e.Kind]
		if !ok {
			i = len(out)
			idx[e.Kind] = i
			out = append(out, kindCount{Kind: e.Kind})
		}
		out[i].Count++
	}
	return out
}

func kindLabel(kind string) string {
	switch kind {
	case content.KindArticle:
		return "articles"
	case content.KindTweet:
		return "tweets"
	case content.KindPlatformPost:
		return "platform posts"
	default:
		return kind
	}
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	if hours >= 24 && hours%24 == 0 {
		return fmt.Sprintf("%dd", hours/24)
	}
	if hours == 0 && d > 0 {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", hours)
}
