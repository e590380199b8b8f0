package analyzer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/xhad/infographic/internal/models"
)

// DefaultTitle names an analysis that has no title and no source name.
const DefaultTitle = "Infographie"

// Normalize coerces an analysis-shaped JSON payload from an untrusted source
// into a DocumentAnalysis. Missing or mistyped fields become empty values;
// a payload that is not a JSON object yields an empty analysis. The chart is
// always rebuilt from the normalized figures.
func Normalize(payload []byte) *models.DocumentAnalysis {
	analysis := &models.DocumentAnalysis{
		KeyIdeas:   []models.KeyIdea{},
		KeyFigures: []models.KeyFigure{},
		Timeline:   []models.TimelineItem{},
		Structure:  []string{},
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return analysis
	}

	analysis.Title = strings.TrimSpace(models.RawString(fields["title"]))
	analysis.Summary = capSummary(strings.TrimSpace(models.RawString(fields["summary"])))
	analysis.RawText = models.RawString(fields["raw_text"])

	for _, item := range rawArray(fields["key_ideas"]) {
		var idea models.KeyIdea
		if obj, ok := rawObject(item); ok {
			idea.Text = strings.TrimSpace(models.RawString(obj["text"]))
			idea.Importance = models.ParseImportance(models.RawString(obj["importance"]))
		} else {
			idea.Text = strings.TrimSpace(models.RawString(item))
			idea.Importance = models.ImportanceMedium
		}
		if idea.Text == "" {
			continue
		}
		idea.Icon = IconFor(idea.Text)
		analysis.KeyIdeas = append(analysis.KeyIdeas, idea)
		if len(analysis.KeyIdeas) == models.MaxKeyIdeas {
			break
		}
	}

	for _, item := range rawArray(fields["key_figures"]) {
		var figure models.KeyFigure
		if obj, ok := rawObject(item); ok {
			figure.Label = strings.TrimSpace(models.RawString(obj["label"]))
			figure.Value = strings.TrimSpace(models.RawString(obj["value"]))
			figure.Unit = strings.TrimSpace(models.RawString(obj["unit"]))
		} else {
			figure.Label = StatisticLabel
			figure.Value = strings.TrimSpace(models.RawString(item))
		}
		analysis.KeyFigures = append(analysis.KeyFigures, figure)
		if len(analysis.KeyFigures) == models.MaxKeyFigures {
			break
		}
	}

	var timeline []models.TimelineItem
	for _, item := range rawArray(fields["timeline"]) {
		var event models.TimelineItem
		if obj, ok := rawObject(item); ok {
			event.DateOrStep = strings.TrimSpace(models.RawString(obj["date_or_step"]))
			event.Description = strings.TrimSpace(models.RawString(obj["description"]))
		} else {
			event.Description = strings.TrimSpace(models.RawString(item))
		}
		timeline = append(timeline, event)
	}
	analysis.Timeline = boundTimeline(timeline)

	for _, item := range rawArray(fields["structure"]) {
		if s := strings.TrimSpace(models.RawString(item)); s != "" {
			analysis.Structure = append(analysis.Structure, s)
		}
	}

	analysis.CategoriesForChart = BuildChartData(analysis.KeyFigures)
	return analysis
}

// rawArray returns the elements of a JSON array, or nil for anything else.
func rawArray(raw json.RawMessage) []json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func rawObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// NormalizeTitle fills an empty title with fallback, or "Infographie" when
// fallback is blank too.
func NormalizeTitle(a *models.DocumentAnalysis, fallback string) {
	if a == nil || strings.TrimSpace(a.Title) != "" {
		return
	}
	if fallback = strings.TrimSpace(fallback); fallback == "" {
		fallback = DefaultTitle
	}
	a.Title = fallback
}
