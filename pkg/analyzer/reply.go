package analyzer

import (
	"regexp"
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

const (
	summaryLineLength  = 80
	replyStructureSize = 8
)

var (
	codeFence    = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	bulletMarker = regexp.MustCompile(`^[-*•]\s+`)
	summaryLabel = regexp.MustCompile(`(?i)^(?:summary|résumé|resume)\s*:\s*`)
)

// cutTag reports whether line starts with tag, ignoring case, and returns the
// rest of the line.
func cutTag(line string, tags ...string) (string, bool) {
	for _, tag := range tags {
		if len(line) >= len(tag) && strings.EqualFold(line[:len(tag)], tag) {
			return strings.TrimSpace(line[len(tag):]), true
		}
	}
	return "", false
}

// ParseReply reads a line-tagged generator reply. The second result is false
// when the reply holds no IDEE, CHIFFRE or DATE line.
func ParseReply(reply string, content *models.ExtractedContent) (*models.DocumentAnalysis, bool) {
	if content == nil {
		content = &models.ExtractedContent{}
	}

	var (
		ideas    []models.KeyIdea
		figures  []models.KeyFigure
		timeline []models.TimelineItem
		summary  string
		tagged   bool
	)

	reply = codeFence.ReplaceAllString(reply, "")
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = bulletMarker.ReplaceAllString(line, "")
		if line == "" {
			continue
		}

		if rest, ok := cutTag(line, "IDEE:", "IDÉE:"); ok {
			tagged = true
			if rest != "" {
				ideas = append(ideas, models.KeyIdea{
					Text:       rest,
					Importance: models.ImportanceMedium,
					Icon:       IconFor(rest),
				})
			}
			continue
		}
		if rest, ok := cutTag(line, "CHIFFRE:"); ok {
			tagged = true
			label, value, found := strings.Cut(rest, ":")
			if found {
				figures = append(figures, models.KeyFigure{
					Label: strings.TrimSpace(label),
					Value: strings.TrimSpace(value),
				})
			}
			continue
		}
		if rest, ok := cutTag(line, "DATE:"); ok {
			tagged = true
			date, desc, found := strings.Cut(rest, ":")
			if found {
				timeline = append(timeline, models.TimelineItem{
					DateOrStep:  strings.TrimSpace(date),
					Description: strings.TrimSpace(desc),
				})
			} else {
				timeline = append(timeline, models.TimelineItem{Description: rest})
			}
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "summary") || strings.Contains(lower, "résumé") ||
			patterns.Len(line) > summaryLineLength {
			summary = summaryLabel.ReplaceAllString(line, "")
		}
	}

	if !tagged {
		return nil, false
	}

	if summary == "" {
		summary = content.RawText
	}

	if len(ideas) > models.MaxKeyIdeas {
		ideas = ideas[:models.MaxKeyIdeas]
	}
	if len(figures) > models.MaxKeyFigures {
		figures = figures[:models.MaxKeyFigures]
	}

	structure := make([]string, 0, replyStructureSize)
	for i, idea := range ideas {
		if i == replyStructureSize {
			break
		}
		structure = append(structure, idea.Text)
	}

	return &models.DocumentAnalysis{
		Title:              strings.TrimSpace(content.Title),
		Summary:            capSummary(summary),
		KeyIdeas:           nonNil(ideas),
		KeyFigures:         nonNil(figures),
		Timeline:           boundTimeline(timeline),
		Structure:          structure,
		CategoriesForChart: BuildChartData(figures),
		RawText:            content.RawText,
	}, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
