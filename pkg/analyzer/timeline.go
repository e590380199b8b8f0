package analyzer

import (
	"slices"
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

const (
	minEventLength = 10
	maxEventLength = 150
)

// ExtractTimeline returns one item per distinct year found in text, described
// by the text surrounding its first occurrence, sorted by year.
func ExtractTimeline(text string) []models.TimelineItem {
	items := make([]models.TimelineItem, 0)
	seen := make(map[string]struct{})

	for _, w := range patterns.YearWindows(text) {
		desc := patterns.CollapseSpaces(w.Text)
		if patterns.Len(desc) < minEventLength {
			continue
		}
		if _, ok := seen[w.Year]; ok {
			continue
		}
		seen[w.Year] = struct{}{}
		items = append(items, models.TimelineItem{
			DateOrStep:  w.Year,
			Description: patterns.Truncate(desc, maxEventLength),
		})
	}

	return boundTimeline(items)
}

// boundTimeline keeps the first item per date token, sorts by date token and
// applies the timeline cap.
func boundTimeline(items []models.TimelineItem) []models.TimelineItem {
	out := make([]models.TimelineItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.DateOrStep]; ok {
			continue
		}
		seen[item.DateOrStep] = struct{}{}
		item.Description = patterns.Truncate(item.Description, maxEventLength)
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b models.TimelineItem) int {
		return strings.Compare(a.DateOrStep, b.DateOrStep)
	})

	if len(out) > models.MaxTimeline {
		out = out[:models.MaxTimeline]
	}
	return out
}
