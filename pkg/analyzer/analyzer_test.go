package analyzer_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/analyzer"
)

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.reply, g.err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleContent() *models.ExtractedContent {
	return &models.ExtractedContent{
		Title: "Rapport annuel 2023",
		RawText: "Le groupe a connu une forte croissance cette année avec une hausse de 23% du chiffre d'affaires.\n\n" +
			"- Ouverture de trois nouvelles filiales\n" +
			"- Recrutement de 120 collaborateurs\n" +
			"En 2021 le plan stratégique a été lancé.\n" +
			"Effectif total: 340",
		Sections: []models.Section{
			{Title: "Synthèse", Content: models.TextContent("L'exercice a été marqué par une croissance soutenue. Détails plus bas.")},
			{Title: "Perspectives", Content: models.LinesContent("Le groupe vise une expansion européenne.", "Suite.")},
		},
	}
}

func TestAnalyze_HeuristicWithoutGenerator(t *testing.T) {
	a := analyzer.New(analyzer.Config{Logger: quietLogger()})
	content := sampleContent()

	got := a.Analyze(context.Background(), content)

	assert.Equal(t, analyzer.AnalyzeHeuristic(content), got)
	_, ok := a.AnalyzeExternal(context.Background(), content)
	assert.False(t, ok)
}

func TestAnalyzeHeuristic(t *testing.T) {
	content := sampleContent()
	got := analyzer.AnalyzeHeuristic(content)

	assert.Equal(t, "Rapport annuel 2023", got.Title)
	assert.Equal(t, content.RawText, got.RawText)
	assert.Equal(t, []string{"Synthèse", "Perspectives"}, got.Structure)
	assert.True(t, strings.HasPrefix(got.Summary, "Le groupe a connu une forte croissance"))

	require.NotEmpty(t, got.KeyFigures)
	assert.Equal(t, "23%", got.KeyFigures[0].Value)
	assert.Equal(t, "Effectif total", got.KeyFigures[len(got.KeyFigures)-1].Label)

	require.Len(t, got.Timeline, 1)
	assert.Equal(t, "2021", got.Timeline[0].DateOrStep)

	texts := make([]string, 0, len(got.KeyIdeas))
	for _, idea := range got.KeyIdeas {
		texts = append(texts, idea.Text)
	}
	assert.Equal(t, []string{
		"Synthèse",
		"Perspectives",
		"Ouverture de trois nouvelles filiales",
		"Recrutement de 120 collaborateurs",
	}, texts)

	require.NotNil(t, got.CategoriesForChart)
	assert.Equal(t, analyzer.BuildChartData(got.KeyFigures), got.CategoriesForChart)
}

func TestAnalyzeHeuristic_Title(t *testing.T) {
	content := &models.ExtractedContent{
		Title:    "   ",
		Sections: []models.Section{{Title: " Rapport d'activité "}},
	}
	assert.Equal(t, "Rapport d'activité", analyzer.AnalyzeHeuristic(content).Title)

	content.Sections[0].Title = strings.Repeat("t", 60)
	assert.Equal(t, "", analyzer.AnalyzeHeuristic(content).Title)

	assert.Equal(t, "", analyzer.AnalyzeHeuristic(nil).Title)
}

func TestAnalyzeHeuristic_RawTextVerbatim(t *testing.T) {
	content := &models.ExtractedContent{RawText: "  Un texte avec des espaces autour.  \n"}
	got := analyzer.AnalyzeHeuristic(content)
	assert.Equal(t, content.RawText, got.RawText)
}

func TestAnalyzeHeuristic_Idempotent(t *testing.T) {
	content := sampleContent()
	first, err := json.Marshal(analyzer.AnalyzeHeuristic(content))
	require.NoError(t, err)
	second, err := json.Marshal(analyzer.AnalyzeHeuristic(content))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestAnalyzeHeuristic_Bounds(t *testing.T) {
	var b strings.Builder
	var sections []models.Section
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "- Point numéro %d de la liste des actions\n", i)
		fmt.Fprintf(&b, "# Titre %d\n", i)
		fmt.Fprintf(&b, "Indicateur numéro %d: %d,5 et hausse de %d%% en %d\n", i, i, i, 1950+i)
		sections = append(sections, models.Section{Title: fmt.Sprintf("Chapitre %d", i)})
	}
	got := analyzer.AnalyzeHeuristic(&models.ExtractedContent{RawText: b.String(), Sections: sections})

	assert.Len(t, got.KeyIdeas, models.MaxKeyIdeas)
	assert.Len(t, got.KeyFigures, models.MaxKeyFigures)
	assert.Len(t, got.Timeline, models.MaxTimeline)
	assert.LessOrEqual(t, got.CategoriesForChart.Len(), models.MaxChartEntries)
	assert.LessOrEqual(t, len([]rune(got.Summary)), models.MaxSummaryLength)
}

func TestAnalyze_UsesGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "IDEE: Accélérer la croissance\nCHIFFRE: Marge: 12,5\nDATE: 2024: Lancement"}
	a := analyzer.New(analyzer.Config{Generator: gen, Logger: quietLogger()})

	got := a.Analyze(context.Background(), sampleContent())

	assert.Equal(t, 1, gen.calls)
	require.Len(t, got.KeyIdeas, 1)
	assert.Equal(t, "Accélérer la croissance", got.KeyIdeas[0].Text)
	assert.Equal(t, []models.KeyFigure{{Label: "Marge", Value: "12,5"}}, got.KeyFigures)
	assert.Equal(t, []string{"Accélérer la croissance"}, got.Structure)
	v, _ := got.CategoriesForChart.Get("Marge")
	assert.Equal(t, "12.5", v)
}

func TestAnalyze_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"service error", &fakeGenerator{err: errors.New("connection refused")}},
		{"untagged reply", &fakeGenerator{reply: "Je ne peux pas analyser ce document."}},
		{"empty reply", &fakeGenerator{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyzer.New(analyzer.Config{Generator: tt.gen, Logger: quietLogger()})
			content := sampleContent()

			got := a.Analyze(context.Background(), content)

			assert.Equal(t, 1, tt.gen.calls)
			assert.Equal(t, analyzer.AnalyzeHeuristic(content), got)
		})
	}
}

func TestAnalyze_ShortTextSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "IDEE: x"}
	a := analyzer.New(analyzer.Config{Generator: gen, Logger: quietLogger()})

	got := a.Analyze(context.Background(), &models.ExtractedContent{RawText: strings.Repeat("é", 49)})

	assert.Equal(t, 0, gen.calls)
	assert.Empty(t, got.KeyIdeas)
}

func TestAnalyze_Timeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	a := analyzer.New(analyzer.Config{Generator: gen, Timeout: 20 * time.Millisecond, Logger: quietLogger()})

	start := time.Now()
	got := a.Analyze(context.Background(), sampleContent())

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, analyzer.AnalyzeHeuristic(sampleContent()), got)
}

func TestAnalyze_PromptTruncated(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("offline")}
	a := analyzer.New(analyzer.Config{Generator: gen, Logger: quietLogger()})

	a.Analyze(context.Background(), &models.ExtractedContent{RawText: strings.Repeat("é", 9000)})

	require.Len(t, gen.prompts, 1)
	instruction := analyzer.BuildPrompt("")
	assert.True(t, strings.HasPrefix(gen.prompts[0], instruction))
	assert.Equal(t, strings.Repeat("é", analyzer.MaxPromptChars), strings.TrimPrefix(gen.prompts[0], instruction))
	assert.Contains(t, instruction, "IDEE:")
}

func TestAnalyze_Concurrent(t *testing.T) {
	a := analyzer.New(analyzer.Config{Logger: quietLogger()})
	want := analyzer.AnalyzeHeuristic(sampleContent())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, a.Analyze(context.Background(), sampleContent()))
		}()
	}
	wg.Wait()
}
