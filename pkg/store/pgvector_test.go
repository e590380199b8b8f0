package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/internal/types"
	"github.com/xhad/infographic/pkg/store"
)

const testDim = 3

func getTestConfig(t *testing.T) store.AnalysisStoreConfig {
	t.Helper()
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}
	return store.AnalysisStoreConfig{
		ConnString: connString,
		TableName:  fmt.Sprintf("test_analyses_%d", time.Now().UnixNano()),
		VectorDim:  testDim,
	}
}

func newTestStore(t *testing.T) *store.AnalysisStore {
	t.Helper()
	s, err := store.NewWithConfig(context.Background(), getTestConfig(t))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func sampleRecord(embedding []float32) types.Record {
	chart := models.NewChartData()
	chart.Set("CA", "12")
	return types.Record{
		ID:     uuid.NewString(),
		Source: "rapport.txt",
		Theme:  "Ocean Deep",
		Analysis: models.DocumentAnalysis{
			Title:              "Rapport annuel",
			Summary:            "Le groupe a connu une forte croissance.",
			KeyIdeas:           []models.KeyIdea{{Text: "Croissance", Importance: models.ImportanceHigh, Icon: "📈"}},
			KeyFigures:         []models.KeyFigure{{Label: "CA", Value: "12", Unit: "M€"}},
			Timeline:           []models.TimelineItem{},
			Structure:          []string{"Introduction"},
			CategoriesForChart: chart,
			RawText:            "Le groupe a connu une forte croissance.",
		},
		Embedding: embedding,
	}
}

func TestNewWithConfig_InvalidTable(t *testing.T) {
	_, err := store.NewWithConfig(context.Background(), store.AnalysisStoreConfig{
		ConnString: "postgres://localhost:5432/test",
		TableName:  "analyses; DROP TABLE users",
	})
	assert.ErrorContains(t, err, "invalid table name")

	_, err = store.NewWithConfig(context.Background(), store.AnalysisStoreConfig{
		ConnString: "postgres://localhost:5432/test",
		VectorDim:  -1,
	})
	assert.ErrorContains(t, err, "invalid vector dimension")
}

func TestAnalysisStore_SaveGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord([]float32{1, 0, 0})
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Source, got.Source)
	assert.Equal(t, rec.Theme, got.Theme)
	assert.Equal(t, rec.Analysis.Title, got.Analysis.Title)
	assert.Equal(t, rec.Analysis.KeyFigures, got.Analysis.KeyFigures)
	assert.Equal(t, []string{"CA"}, got.Analysis.CategoriesForChart.Labels())
	assert.Equal(t, []float32{1, 0, 0}, got.Embedding)
	assert.False(t, got.CreatedAt.IsZero())

	// Upsert replaces the row.
	rec.Theme = "Forest Pro"
	require.NoError(t, s.Save(ctx, rec))
	got, err = s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Forest Pro", got.Theme)
}

func TestAnalysisStore_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnalysisStore_Similar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	near := sampleRecord([]float32{1, 0.1, 0})
	far := sampleRecord([]float32{0, 0, 1})
	bare := sampleRecord(nil)
	for _, rec := range []types.Record{far, near, bare} {
		require.NoError(t, s.Save(ctx, rec))
	}

	results, err := s.Similar(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].ID)
	assert.Equal(t, far.ID, results[1].ID)

	_, err = s.Similar(ctx, []float32{1, 0}, 5)
	assert.Error(t, err)
}

func TestAnalysisStore_SaveRejectsWrongDimension(t *testing.T) {
	s := newTestStore(t)

	err := s.Save(context.Background(), sampleRecord([]float32{1, 2, 3, 4}))
	assert.ErrorContains(t, err, "dimensions")
}
