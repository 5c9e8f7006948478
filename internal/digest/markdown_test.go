package digest

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMarkdownFormat_Full(t *testing.T) {
	input := Input{Entries: sampleEntries(), Sources: 3, Since: 48 * time.Hour}

	var buf bytes.Buffer
	if err := NewMarkdown().Format(&buf, input); err != nil {
		t.Fatalf("format: %v", err)
	}
	out := buf.String()

	checks := []string{
		"# newsflash digest",
		"4 items from 3 sources, since 2d",
		"- **article** Breaking news! Penguins win the Stanley Cup Championship!, by Iceburgh (Pittsburgh, PA, USA) ([link](https://example.com/1))",
		"- **tweet** Breaking news! horse_ebooks: of course, as you probably already know, people\n",
		"| articles | 2 |",
		"| tweets | 1 |",
		"| platform posts | 1 |",
	}
	for _, c := range checks {
		if !strings.Contains(out, c) {
			t.Errorf("missing %q in output:\n%s", c, out)
		}
	}
}

func TestMarkdownFormat_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdown().Format(&buf, Input{Since: 24 * time.Hour}); err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(buf.String(), "No news.") {
		t.Errorf("output = %q, want No news.", buf.String())
	}
}

func TestCountKinds_FirstSeenOrder(t *testing.T) {
	got := countKinds([]Entry{{Kind: "tweet"}, {Kind: "article"}, {Kind: "tweet"}, {Kind: "custom"}})
	want := []kindCount{{"tweet", 2}, {"article", 1}, {"custom", 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
