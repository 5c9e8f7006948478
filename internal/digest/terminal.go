package digest

import (
	"fmt"
	"io"
	"strings"
)

// TerminalFormatter formats a digest for terminal output.
type TerminalFormatter struct {
	color bool
}

// NewTerminal creates a terminal formatter. Set color=true for ANSI colors.
func NewTerminal(color bool) *TerminalFormatter {
	return &TerminalFormatter{color: color}
}

// Format writes the digest to w, one notification per entry in input order.
func (f *TerminalFormatter) Format(w io.Writer, input Input) error {
	header := fmt.Sprintf("newsflash — %d items from %d sources, since %s",
		len(input.Entries), input.Sources, formatDuration(input.Since))
	fmt.Fprintln(w, f.bold(header))
	fmt.Fprintln(w)

	if len(input.Entries) == 0 {
		fmt.Fprintln(w, "No news.")
		return nil
	}

	for _, e := range input.Entries {
		fmt.Fprintf(w, "  %s %s\n", f.dim("["+e.Kind+"]"), f.red(e.Message))
		if e.URL != "" {
			fmt.Fprintf(w, "      %s\n", f.dim(e.URL))
		}
	}
	fmt.Fprintln(w)

	var parts []string
	for _, kc := range countKinds(input.Entries) {
		parts = append(parts, fmt.Sprintf("%s: %d", kindLabel(kc.Kind), kc.Count))
	}
	fmt.Fprintln(w, f.dim(strings.Join(parts, ", ")))

	return nil
}

// ANSI helpers, no-op when color=false.

func (f *TerminalFormatter) bold(s string) string {
	if !f.color {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func (f *TerminalFormatter) red(s string) string {
	if !f.color {
		return s
	}
	return "\033[31m" + s + "\033[0m"
}

func (f *TerminalFormatter) dim(s string) string {
	if !f.color {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}
