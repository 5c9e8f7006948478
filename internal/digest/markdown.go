package digest

import (
	"fmt"
	"io"
)

// MarkdownFormatter formats a digest as Markdown.
type MarkdownFormatter struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the digest as Markdown to w.
func (f *MarkdownFormatter) Format(w io.Writer, input Input) error {
	fmt.Fprintf(w, "# newsflash digest\n\n")
	fmt.Fprintf(w, "%d items from %d sources, since %s\n\n",
		len(input.Entries), input.Sources, formatDuration(input.Since))

	if len(input.Entries) == 0 {
		fmt.Fprintln(w, "No news.")
		return nil
	}

	for _, e := range input.Entries {
		if e.URL != "" {
			fmt.Fprintf(w, "- **%s** %s ([link](%s))\n", e.Kind, e.Message, e.URL)
			continue
		}
		fmt.Fprintf(w, "- **%s** %s\n", e.Kind, e.Message)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Kind | Count |")
	fmt.Fprintln(w, "|------|-------|")
	for _, kc := range countKinds(input.Entries) {
		fmt.Fprintf(w, "| %s | %d |\n", kindLabel(kc.Kind), kc.Count)
	}

	return nil
}
