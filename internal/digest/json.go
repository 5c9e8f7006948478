package digest

import (
	"encoding/json"
	"io"
)

type jsonDigest struct {
	Meta          jsonMeta   `json:"meta"`
	Notifications []jsonItem `json:"notifications"`
}

type jsonMeta struct {
	Sources int    `json:"sources"`
	Items   int    `json:"items"`
	Since   string `json:"since"`
}

type jsonItem struct {
	Position int    `json:"position"`
	Source   string `json:"source"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	URL      string `json:"url,omitempty"`
	PostedAt string `json:"posted_at,omitempty"`
}

// JSONFormatter formats a digest as JSON.
type JSONFormatter struct{}

// NewJSON creates a JSON formatter.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the digest as JSON to w.
func (f *JSONFormatter) Format(w io.Writer, input Input) error {
	out := jsonDigest{
		Meta: jsonMeta{
			Sources: input.Sources,
			Items:   len(input.Entries),
			Since:   formatDuration(input.Since),
		},
		Notifications: make([]jsonItem, 0, len(input.Entries)),
	}

	for i, e := range input.Entries {
		ji := jsonItem{
			Position: i,
			Source:   e.Source,
			Kind:     e.Kind,
			Message:  e.Message,
			URL:      e.URL,
		}
		if !e.PostedAt.IsZero() {
			ji.PostedAt = e.PostedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		out.Notifications = append(out.Notifications, ji)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
