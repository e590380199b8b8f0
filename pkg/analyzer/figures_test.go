package analyzer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/analyzer"
)

func TestExtractKeyFigures_Percentages(t *testing.T) {
	text := "Revenue grew 23% in 2019 and reached 45% in 2021."
	figures := analyzer.ExtractKeyFigures(text)

	require.Len(t, figures, 2)
	assert.Equal(t, models.KeyFigure{Label: "Statistic", Value: "23%", Unit: "%", Context: text}, figures[0])
	assert.Equal(t, "45%", figures[1].Value)
	assert.Equal(t, "%", figures[1].Unit)
}

func TestExtractKeyFigures_KeepsNotationAndDedupsValue(t *testing.T) {
	figures := analyzer.ExtractKeyFigures("Hausse de 12,5% puis encore 12.5% et enfin 30 %.")

	require.Len(t, figures, 2)
	assert.Equal(t, "12,5%", figures[0].Value)
	assert.Equal(t, "30%", figures[1].Value)
}

func TestExtractKeyFigures_ContextBounded(t *testing.T) {
	text := strings.Repeat("é", 200) + " 42% " + strings.Repeat("è", 200)
	figures := analyzer.ExtractKeyFigures(text)

	require.Len(t, figures, 1)
	assert.LessOrEqual(t, len([]rune(figures[0].Context)), 80)
	assert.True(t, strings.HasPrefix(figures[0].Context, "é"))
}

func TestExtractKeyFigures_LabelPairs(t *testing.T) {
	figures := analyzer.ExtractKeyFigures("Effectif total: 340\nBudget annuel: 12,5 M")

	require.Len(t, figures, 2)
	assert.Equal(t, models.KeyFigure{Label: "Effectif total", Value: "340"}, figures[0])
	assert.Equal(t, models.KeyFigure{Label: "Budget annuel", Value: "12,5"}, figures[1])
}

func TestExtractKeyFigures_ShortLabelIgnored(t *testing.T) {
	assert.Empty(t, analyzer.ExtractKeyFigures("PI: 3,14"))
}

func TestExtractKeyFigures_LabelPrefixCollision(t *testing.T) {
	text := "Taux de croissance annuel moyen du secteur A: 12\nTaux de croissance annuel moyen du secteur B: 12"
	figures := analyzer.ExtractKeyFigures(text)

	require.Len(t, figures, 1)
	assert.Equal(t, "Taux de croissance annuel moyen du secteur A", figures[0].Label)
}

func TestExtractKeyFigures_Capped(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "valeur %d%% ", i)
	}
	figures := analyzer.ExtractKeyFigures(b.String())

	assert.Len(t, figures, models.MaxKeyFigures)
	assert.Equal(t, "1%", figures[0].Value)
}

func TestExtractKeyFigures_Empty(t *testing.T) {
	figures := analyzer.ExtractKeyFigures("")
	assert.NotNil(t, figures)
	assert.Empty(t, figures)
}
