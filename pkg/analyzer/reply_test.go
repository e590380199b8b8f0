package analyzer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/analyzer"
)

func TestParseReply(t *testing.T) {
	reply := strings.Join([]string{
		"```text",
		"Résumé: Le document présente la stratégie 2024 du groupe.",
		"- IDEE: Accélérer la croissance à l'international",
		"idee: Réduire les coûts",
		"CHIFFRE: Chiffre d'affaires: 12,5 M€",
		"CHIFFRE: valeur sans séparateur",
		"DATE: 2024: Lancement",
		"DATE: Phase finale",
		"```",
	}, "\n")
	content := &models.ExtractedContent{Title: " Stratégie ", RawText: "Texte source."}

	got, ok := analyzer.ParseReply(reply, content)

	require.True(t, ok)
	assert.Equal(t, "Stratégie", got.Title)
	assert.Equal(t, "Le document présente la stratégie 2024 du groupe.", got.Summary)
	assert.Equal(t, []models.KeyIdea{
		{Text: "Accélérer la croissance à l'international", Importance: models.ImportanceMedium, Icon: analyzer.CategoryGrowth.Glyph()},
		{Text: "Réduire les coûts", Importance: models.ImportanceMedium, Icon: analyzer.CategoryFinance.Glyph()},
	}, got.KeyIdeas)
	assert.Equal(t, []models.KeyFigure{{Label: "Chiffre d'affaires", Value: "12,5 M€"}}, got.KeyFigures)
	assert.Equal(t, []models.TimelineItem{
		{DateOrStep: "", Description: "Phase finale"},
		{DateOrStep: "2024", Description: "Lancement"},
	}, got.Timeline)
	assert.Equal(t, []string{"Accélérer la croissance à l'international", "Réduire les coûts"}, got.Structure)
	assert.Equal(t, "Texte source.", got.RawText)

	v, ok := got.CategoriesForChart.Get("Chiffre d'affaires")
	require.True(t, ok)
	assert.Equal(t, "12.5 M€", v)
}

func TestParseReply_LongLineIsSummary(t *testing.T) {
	long := strings.Repeat("Une phrase de synthèse assez longue. ", 3)
	got, ok := analyzer.ParseReply("IDEE: Point clé\n"+long, &models.ExtractedContent{})

	require.True(t, ok)
	assert.Equal(t, strings.TrimSpace(long), got.Summary)
}

func TestParseReply_SummaryFallsBackToRawText(t *testing.T) {
	raw := strings.Repeat("x", 500)
	got, ok := analyzer.ParseReply("DATE: 2020: Création", &models.ExtractedContent{RawText: raw})

	require.True(t, ok)
	assert.Len(t, []rune(got.Summary), models.MaxSummaryLength)
	assert.Empty(t, got.KeyIdeas)
	assert.NotNil(t, got.KeyFigures)
	assert.Nil(t, got.CategoriesForChart)
}

func TestParseReply_Untagged(t *testing.T) {
	for _, reply := range []string{"", "Désolé, je ne peux pas répondre.", "```\n```"} {
		got, ok := analyzer.ParseReply(reply, &models.ExtractedContent{RawText: "texte"})
		assert.False(t, ok, reply)
		assert.Nil(t, got)
	}
}

func TestParseReply_Caps(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "IDEE: idée numéro "+strings.Repeat("i", i+1))
		lines = append(lines, "CHIFFRE: Indicateur "+strings.Repeat("c", i+1)+": 1")
		lines = append(lines, "DATE: Étape "+strings.Repeat("d", i+1)+": description")
	}
	got, ok := analyzer.ParseReply(strings.Join(lines, "\n"), &models.ExtractedContent{})

	require.True(t, ok)
	assert.Len(t, got.KeyIdeas, models.MaxKeyIdeas)
	assert.Len(t, got.KeyFigures, models.MaxKeyFigures)
	assert.Len(t, got.Timeline, models.MaxTimeline)
	assert.Len(t, got.Structure, 8)
	assert.Equal(t, models.MaxChartEntries, got.CategoriesForChart.Len())
}
