package analyzer

import (
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

// StatisticLabel labels every percentage figure.
const StatisticLabel = "Statistic"

const (
	contextBefore  = 60
	contextAfter   = 40
	contextMax     = 80
	labelMinLength = 3
	labelMaxLength = 59
	labelKeyLength = 30
)

type figureKey struct {
	kind  string
	value string
}

// ExtractKeyFigures finds percentages, then "label: value" pairs, in text.
// Values keep the notation they were written in.
func ExtractKeyFigures(text string) []models.KeyFigure {
	figures := make([]models.KeyFigure, 0)
	seen := make(map[figureKey]struct{})

	for _, loc := range patterns.Percent.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[2]:loc[3]]
		key := figureKey{kind: "%", value: strings.ReplaceAll(raw, ",", ".")}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		start := patterns.RunesBefore(text, loc[0], contextBefore)
		end := patterns.RunesAfter(text, loc[1], contextAfter)
		figures = append(figures, models.KeyFigure{
			Label:   StatisticLabel,
			Value:   raw + "%",
			Unit:    "%",
			Context: patterns.Truncate(strings.TrimSpace(text[start:end]), contextMax),
		})
	}

	for _, m := range patterns.LabeledNumber.FindAllStringSubmatch(text, -1) {
		label := strings.TrimSpace(m[1])
		if n := patterns.Len(label); n < labelMinLength || n > labelMaxLength {
			continue
		}
		// Long labels sharing a prefix collapse; charts cut labels at the same width.
		key := figureKey{kind: patterns.Truncate(label, labelKeyLength), value: m[2]}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		figures = append(figures, models.KeyFigure{Label: label, Value: m[2]})
	}

	if len(figures) > models.MaxKeyFigures {
		figures = figures[:models.MaxKeyFigures]
	}
	return figures
}
