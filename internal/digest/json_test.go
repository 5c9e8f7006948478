package digest

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestJSONFormat_Full(t *testing.T) {
	input := Input{Entries: sampleEntries(), Sources: 3, Since: 24 * time.Hour}

	var buf bytes.Buffer
	if err := NewJSON().Format(&buf, input); err != nil {
		t.Fatalf("format: %v", err)
	}

	var result jsonDigest
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v\noutput: %s", err, buf.String())
	}

	if result.Meta.Sources != 3 {
		t.Errorf("sources = %d, want 3", result.Meta.Sources)
	}
	if result.Meta.Items != 4 {
		t.Errorf("items = %d, want 4", result.Meta.Items)
	}
	if result.Meta.Since != "1d" {
		t.Errorf("since = %q, want 1d", result.Meta.Since)
	}
	if len(result.Notifications) != 4 {
		t.Fatalf("notifications = %d, want 4", len(result.Notifications))
	}

	for i, e := range sampleEntries() {
		got := result.Notifications[i]
		if got.Position != i {
			t.Errorf("[%d] position = %d", i, got.Position)
		}
		if got.Message != e.Message || got.Kind != e.Kind || got.Source != e.Source {
			t.Errorf("[%d] = %+v, want %+v", i, got, e)
		}
	}
	if result.Notifications[0].PostedAt != "2026-10-17T09:00:00Z" {
		t.Errorf("posted_at = %q", result.Notifications[0].PostedAt)
	}
	if result.Notifications[1].PostedAt != "" || result.Notifications[1].URL != "" {
		t.Errorf("zero fields not omitted: %+v", result.Notifications[1])
	}
}

func TestJSONFormat_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Format(&buf, Input{}); err != nil {
		t.Fatalf("format: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw["notifications"]) != "[]" {
		t.Errorf("notifications = %s, want []", raw["notifications"])
	}
}
