// Package privacy scrubs notification text before it is printed or stored.
package privacy

import (
	"fmt"
	"regexp"

	"mvdan.cc/xurls/v2"
)

const (
	redactedPlaceholder = "[REDACTED]"
	linkPlaceholder     = "[link]"
)

// Redactor replaces configured patterns, and optionally links, in text.
// A nil *Redactor leaves text unchanged.
type Redactor struct {
	patterns []*regexp.Regexp
	links    *regexp.Regexp
}

// New compiles patterns into a Redactor. When links is set, every URL xurls
// recognises is replaced too. Returns an error if any pattern is invalid.
func New(patterns []string, links bool) (*Redactor, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile redact pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	r := &Redactor{patterns: compiled}
	if links {
		r.links = xurls.Strict()
	}
	return r, nil
}

// Apply returns text with links replaced by [link] and pattern matches by
// [REDACTED]. Links go first so a pattern can't split a URL.
func (r *Redactor) Apply(text string) string {
	if r == nil {
		return text
	}
	if r.links != nil {
		text = r.links.ReplaceAllString(text, linkPlaceholder)
	}
	for _, re := range r.patterns {
		text = re.ReplaceAllString(text, redactedPlaceholder)
	}
	return text
}

// ApplyAll redacts every message in place and returns the slice.
func (r *Redactor) ApplyAll(messages []string) []string {
	for i, m := range messages {
		messages[i] = r.Apply(m)
	}
	return messages
}
