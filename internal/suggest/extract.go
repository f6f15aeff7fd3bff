// Package suggest turns free-text model output into structured suggestions.
package suggest

import (
	"strings"

	"trading-journal/internal/types"
)

const (
	titlePrefix       = "Title:"
	descriptionPrefix = "Description:"

	// MaxFallbackRunes bounds the description of the fallback suggestion.
	MaxFallbackRunes = 500

	FallbackTitle  = "Trading Insight"
	NoInsightTitle = "No patterns detected"
	NoInsightText  = "Not enough trade data to generate meaningful insights. Please add more trades."
)

type options struct {
	noInsight bool
}

// Option tunes Extract.
type Option func(*options)

// WithNoInsightFallback makes blank input produce a single
// "No patterns detected" suggestion instead of an empty list.
func WithNoInsightFallback() Option {
	return func(o *options) {
		o.noInsight = true
	}
}

// Extract parses text using the Title:/Description: line grammar.
//
// A Title: line starts a new record, closing the previous one only if it has
// both fields. A Description: line is accepted only once the record has a
// title. Every other line is ignored. If nothing parses and the text is not
// blank, a single fallback suggestion carrying the (truncated) text is
// returned. Extract never fails.
func Extract(text string, opts ...Option) []types.Suggestion {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if o.noInsight {
			return []types.Suggestion{{Title: NoInsightTitle, Description: NoInsightText, Category: types.DefaultCategory}}
		}
		return []types.Suggestion{}
	}

	out := []types.Suggestion{}
	var cur types.Suggestion
	complete := func() bool { return cur.Title != "" && cur.Description != "" }

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, titlePrefix):
			if complete() {
				out = append(out, cur)
			}
			cur = types.Suggestion{Title: strings.TrimSpace(strings.TrimPrefix(line, titlePrefix))}
		case strings.HasPrefix(line, descriptionPrefix) && cur.Title != "":
			cur.Description = strings.TrimSpace(strings.TrimPrefix(line, descriptionPrefix))
		}
	}
	if complete() {
		out = append(out, cur)
	}

	if len(out) == 0 {
		out = append(out, types.Suggestion{
			Title:       FallbackTitle,
			Description: truncateRunes(trimmed, MaxFallbackRunes),
			Category:    types.DefaultCategory,
		})
	}
	return ApplyDefaultCategory(out)
}

// ApplyDefaultCategory fills in the default category where none is set.
// Explicit categories are left alone, so applying it twice is a no-op.
func ApplyDefaultCategory(in []types.Suggestion) []types.Suggestion {
	for i := range in {
		if strings.TrimSpace(in[i].Category) == "" {
			in[i].Category = types.DefaultCategory
		}
	}
	return in
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
