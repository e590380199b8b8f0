package analyzer

import (
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

const (
	ellipsis        = "..."
	minLedeLength   = 31
	maxLedeLength   = 250
	summarySections = 2
	minSentence     = 21
	maxSentence     = 199
	fallbackLength  = 300
)

// BuildSummary composes the lede of text with the first sentence of the
// first sections. Without any usable fragment it falls back to the start of
// text.
func BuildSummary(text string, sections []models.Section) string {
	var parts []string

	lede, _, _ := strings.Cut(text, "\n\n")
	lede = strings.TrimSpace(lede)
	if patterns.Len(lede) >= minLedeLength {
		parts = append(parts, patterns.Truncate(lede, maxLedeLength))
	}

	for i, sec := range sections {
		if i == summarySections {
			break
		}
		content := strings.TrimSpace(sec.Content.String())
		if content == "" {
			continue
		}
		sentence, _, _ := strings.Cut(content, ".")
		sentence += "."
		if n := patterns.Len(sentence); n >= minSentence && n <= maxSentence {
			parts = append(parts, sentence)
		}
	}

	summary := capSummary(strings.Join(parts, " "))
	if summary != "" {
		return summary
	}
	if text == "" {
		return ""
	}
	return patterns.Truncate(text, fallbackLength) + ellipsis
}

func capSummary(s string) string {
	if patterns.Len(s) <= models.MaxSummaryLength {
		return s
	}
	return patterns.Truncate(s, models.MaxSummaryLength-len(ellipsis)) + ellipsis
}
