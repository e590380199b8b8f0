// Package patterns holds the text matchers shared by every extractor.
//
// Matching is line and substring based. False positives are expected and are
// resolved downstream by deduplication and truncation. All lengths handled
// here are counted in runes.
package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// NumberWithUnit matches a number optionally followed by a percent sign or
	// a scale/currency word (millions, milliards, M, k, €, $, euros, dollars).
	NumberWithUnit = regexp.MustCompile(`(?i)(?:^|\s)([0-9]+(?:\s*[.,]\s*[0-9]+)*)\s*%?(?:\s*(?:millions?|milliards?|M|k|€|\$|euros?|dollars?))?(?:\s|$|[.,;:])`)

	// Percent captures the numeric part of "12%", "12,5 %" or "12.5%".
	Percent = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)

	// Year matches a four digit year between 1900 and 2099.
	Year = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// Bullet captures the text of a line prefixed by -, *, • or ▪.
	Bullet = regexp.MustCompile(`(?m)^\s*[-*•▪]\s+(.+)$`)

	// Heading captures the text of a line prefixed by one or more #.
	Heading = regexp.MustCompile(`(?m)^#+\s*(.+)$`)

	// LabeledNumber captures "label: value" and "label - value" pairs where the
	// label is alphabetic (accented letters included) and the value numeric.
	LabeledNumber = regexp.MustCompile(`(?i)([A-Za-zÀ-ÿ\s]+?)\s*[:\-]\s*(\d+(?:[.,]\d+)?)\s*%?(?:\s*(?:M|k|€|\$|%))?`)
)

// WindowRadius is how many runes a year window reaches on each side.
const WindowRadius = 100

// YearWindow is the text surrounding one year occurrence.
type YearWindow struct {
	Year string
	Text string
}

// YearWindows returns, for every year occurrence in text, the substring
// reaching up to WindowRadius runes before and after it without crossing a
// line break.
func YearWindows(text string) []YearWindow {
	locs := Year.FindAllStringIndex(text, -1)
	windows := make([]YearWindow, 0, len(locs))
	for _, loc := range locs {
		start := lineStart(text, loc[0])
		if back := RunesBefore(text, loc[0], WindowRadius); back > start {
			start = back
		}
		end := lineEnd(text, loc[1])
		if fwd := RunesAfter(text, loc[1], WindowRadius); fwd < end {
			end = fwd
		}
		windows = append(windows, YearWindow{
			Year: text[loc[0]:loc[1]],
			Text: text[start:end],
		})
	}
	return windows
}

// RunesBefore returns the byte offset n runes before offset i, or 0.
func RunesBefore(s string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

// RunesAfter returns the byte offset n runes after offset i, or len(s).
func RunesAfter(s string, i, n int) int {
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

func lineStart(s string, i int) int {
	return strings.LastIndexByte(s[:i], '\n') + 1
}

func lineEnd(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(s)
}

// Len returns the number of runes in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate keeps at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	end := RunesAfter(s, 0, n)
	return s[:end]
}

// CollapseSpaces replaces every whitespace run with one space and trims.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
