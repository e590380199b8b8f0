package analyzer

import (
	"math"
	"strconv"
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

const chartLabelLength = 30

// BuildChartData maps the first figures' labels to their values written with
// a decimal point. It returns nil when there are no figures.
func BuildChartData(figures []models.KeyFigure) *models.ChartData {
	if len(figures) == 0 {
		return nil
	}
	if len(figures) > models.MaxChartEntries {
		figures = figures[:models.MaxChartEntries]
	}
	chart := models.NewChartData()
	for _, f := range figures {
		chart.Set(patterns.Truncate(f.Label, chartLabelLength), strings.ReplaceAll(f.Value, ",", "."))
	}
	return chart
}

// ChartSeries is the label, value and maximum triple a renderer draws bars
// from.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Max    float64   `json:"max"`
}

// NewChartSeries reads the chart of a. Values that do not parse count as 0
// and Max is never 0.
func NewChartSeries(a *models.DocumentAnalysis) ChartSeries {
	series := ChartSeries{Labels: []string{}, Values: []float64{}, Max: 1}
	if a == nil || a.CategoriesForChart.Len() == 0 {
		return series
	}

	series.Labels = a.CategoriesForChart.Labels()
	for i, label := range series.Labels {
		raw, _ := a.CategoriesForChart.Get(label)
		v := parseChartValue(raw)
		series.Values = append(series.Values, v)
		if i == 0 || v > series.Max {
			series.Max = v
		}
	}
	if series.Max == 0 {
		series.Max = 1
	}
	return series
}

func parseChartValue(s string) float64 {
	s = strings.ReplaceAll(strings.ReplaceAll(s, ",", "."), " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
