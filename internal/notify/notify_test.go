package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ppiankov/newsflash/internal/content"
)

// alert is an implementation this package has never seen before.
type alert struct {
	level string
	msg   string
}

func (a alert) Summarize() string { return "[" + a.level + "] " + a.msg }

func sampleArticle() content.NewsArticle {
	return content.NewsArticle{
		Headline: "Penguins win the Stanley Cup Championship!",
		Location: "Pittsburgh, PA, USA",
		Author:   "Iceburgh",
		Content:  "The Pittsburgh Penguins once again are the best hockey team in the NHL.",
	}
}

func sampleTweet() content.Tweet {
	return content.Tweet{
		Username: "horse_ebooks",
		Content:  "of course, as you probably already know, people",
	}
}

func samplePost() content.PlatformPost {
	return content.PlatformPost{Platform: "Hacker News", Account: "dang", Title: "Ask HN: What are you working on?"}
}

func TestStatic(t *testing.T) {
	want := "Breaking news! Penguins win the Stanley Cup Championship!, by Iceburgh (Pittsburgh, PA, USA)"
	if got := Static(sampleArticle()); got != want {
		t.Errorf("Static() = %q, want %q", got, want)
	}
}

func TestStaticEqualsDynamic(t *testing.T) {
	article, tweet, post := sampleArticle(), sampleTweet(), samplePost()
	custom := alert{level: "warn", msg: "disk full"}

	tests := []struct {
		name    string
		static  string
		dynamic string
		digest  string
	}{
		{"article", Static(article), Dynamic(article), article.Summarize()},
		{"tweet", Static(tweet), Dynamic(tweet), tweet.Summarize()},
		{"platform post", Static(post), Dynamic(post), post.Summarize()},
		{"pointer", Static(&article), Dynamic(&article), article.Summarize()},
		{"custom", Static(custom), Dynamic(custom), custom.Summarize()},
	}

	for _, tt := range tests {
		want := Prefix + tt.digest
		if tt.static != want {
			t.Errorf("%s: Static = %q, want %q", tt.name, tt.static, want)
		}
		if tt.dynamic != want {
			t.Errorf("%s: Dynamic = %q, want %q", tt.name, tt.dynamic, want)
		}
	}
}

func TestStaticAll(t *testing.T) {
	tweets := []content.Tweet{
		{Username: "a", Content: "one"},
		{Username: "b", Content: "two"},
	}
	got := StaticAll(tweets)
	want := []string{"Breaking news! a: one", "Breaking news! b: two"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProcess_OrderPreserved(t *testing.T) {
	a, b, c := sampleArticle(), sampleTweet(), samplePost()
	batch := []content.Summary{a, b, c, alert{level: "info", msg: "ok"}}

	got := Process(batch)
	want := []string{Dynamic(a), Dynamic(b), Dynamic(c), "Breaking news! [info] ok"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProcess_Length(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		batch := make([]content.Summary, 0, n)
		for i := range n {
			batch = append(batch, content.Tweet{Username: fmt.Sprintf("u%d", i), Content: "x"})
		}
		got := Process(batch)
		if len(got) != n {
			t.Errorf("len(Process(%d items)) = %d", n, len(got))
		}
		if got == nil {
			t.Errorf("Process(%d items) returned nil slice", n)
		}
	}
}

func TestProcess_NilBatch(t *testing.T) {
	if got := Process(nil); got == nil || len(got) != 0 {
		t.Errorf("Process(nil) = %#v, want empty slice", got)
	}
}

func TestProcess_Duplicates(t *testing.T) {
	tw := sampleTweet()
	got := Process([]content.Summary{tw, tw, tw})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (no deduplication)", len(got))
	}
}

func TestProcessParallel_MatchesProcess(t *testing.T) {
	var batch []content.Summary
	for i := range 50 {
		switch i % 3 {
		case 0:
			batch = append(batch, content.NewsArticle{Headline: fmt.Sprintf("h%d", i), Author: "a", Location: "l"})
		case 1:
			batch = append(batch, content.Tweet{Username: fmt.Sprintf("u%d", i), Content: "c"})
		default:
			batch = append(batch, content.PlatformPost{Platform: "p", Account: "acc", Title: fmt.Sprintf("t%d", i)})
		}
	}

	want := Process(batch)
	for _, workers := range []int{0, 1, 4, 100} {
		got, err := ProcessParallel(context.Background(), batch, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(got) != len(want) {
			t.Fatalf("workers=%d: len = %d, want %d", workers, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("workers=%d: got[%d] = %q, want %q", workers, i, got[i], want[i])
			}
		}
	}
}

func TestProcessParallel_Empty(t *testing.T) {
	got, err := ProcessParallel(context.Background(), nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestProcessParallel_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := []content.Summary{sampleArticle(), sampleTweet(), samplePost()}
	for _, workers := range []int{1, 4} {
		_, err := ProcessParallel(ctx, batch, workers)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: err = %v, want context.Canceled", workers, err)
		}
	}
}

func BenchmarkStatic(b *testing.B) {
	article := sampleArticle()
	for b.Loop() {
		_ = Static(article)
	}
}

func BenchmarkDynamic(b *testing.B) {
	var item content.Summary = sampleArticle()
	for b.Loop() {
		_ = Dynamic(item)
	}
}
