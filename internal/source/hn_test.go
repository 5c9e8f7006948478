package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewHN(t *testing.T) {
	if h, err := NewHN(100, discardLogger()); err != nil || h == nil {
		t.Fatalf("valid: got %v, %v", h, err)
	}
	if _, err := NewHN(0, discardLogger()); err == nil {
		t.Fatal("expected error for zero min_points")
	}
	if _, err := NewHN(-1, discardLogger()); err == nil {
		t.Fatal("expected error for negative min_points")
	}
}

func TestHNSource_Name(t *testing.T) {
	h, _ := NewHN(100, nil)
	if h.Name() != "hn" {
		t.Errorf("name = %q, want hn", h.Name())
	}
}

func hnServer(t *testing.T, order []int, items map[string]hnItem) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/topstories.json" {
			_ = json.NewEncoder(w).Encode(order)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/item/") {
			idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
			item, ok := items[idStr]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(item)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHNFetch(t *testing.T) {
	now := time.Now()
	recentUnix := now.Add(-1 * time.Hour).Unix()
	oldUnix := now.Add(-48 * time.Hour).Unix()

	items := map[string]hnItem{
		"1": {ID: 1, Type: "story", Title: "Show HN: A tiny Go notifier", URL: "https://example.com/1", Score: 769, Time: recentUnix, By: "gopher"},
		"2": {ID: 2, Type: "story", Title: "Low score post", URL: "https://example.com/2", Score: 5, Time: recentUnix},
		"3": {ID: 3, Type: "story", Title: "Old post", URL: "https://example.com/3", Score: 500, Time: oldUnix},
		"4": {ID: 4, Type: "job", Title: "Hiring at BigCo", URL: "https://example.com/4", Score: 200, Time: recentUnix},
		"5": {ID: 5, Type: "story", Title: "Ask HN: What are you working on?", Score: 620, Time: recentUnix, By: "dang"},
	}
	ts := hnServer(t, []int{5, 1, 2, 3, 4, 99}, items)

	h, err := NewHN(100, discardLogger())
	if err != nil {
		t.Fatalf("NewHN: %v", err)
	}
	h.baseURL = ts.URL

	got, err := h.Fetch(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// #2 low score, #3 old, #4 job, #99 missing.
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	want := []string{
		"Hacker News from dang: Ask HN: What are you working on?",
		"Hacker News from gopher: Show HN: A tiny Go notifier",
	}
	for i := range want {
		if s := got[i].Content.Summarize(); s != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, s, want[i])
		}
		if got[i].Source != "hn" {
			t.Errorf("items[%d].Source = %q", i, got[i].Source)
		}
	}
	if got[0].URL != "https://news.ycombinator.com/item?id=5" {
		t.Errorf("self post url = %q", got[0].URL)
	}
	if got[1].URL != "https://example.com/1" {
		t.Errorf("link post url = %q", got[1].URL)
	}
}

func TestHNFetch_TopStoriesError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	h, _ := NewHN(10, discardLogger())
	h.baseURL = ts.URL

	if _, err := h.Fetch(context.Background(), time.Now().Add(-time.Hour)); err == nil {
		t.Fatal("expected error")
	}
}

func TestHNFetch_Empty(t *testing.T) {
	ts := hnServer(t, []int{}, nil)

	h, _ := NewHN(10, discardLogger())
	h.baseURL = ts.URL

	got, err := h.Fetch(context.Background(), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d items, want 0", len(got))
	}
}

func TestHNFetch_CancelledMidFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/topstories.json" {
			_ = json.NewEncoder(w).Encode([]int{1, 2, 3})
			return
		}
		cancel()
		_ = json.NewEncoder(w).Encode(hnItem{ID: 1, Type: "story", Title: "late", Score: 500, Time: time.Now().Unix()})
	}))
	defer ts.Close()

	h, _ := NewHN(10, discardLogger())
	h.baseURL = ts.URL

	got, err := h.Fetch(ctx, time.Now().Add(-time.Hour))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got != nil {
		t.Errorf("got %d items after cancellation, want none", len(got))
	}
}
