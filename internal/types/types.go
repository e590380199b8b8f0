package types

import (
	"context"
	"time"

	"github.com/xhad/infographic/internal/models"
)

// Core interfaces
type Extractor interface {
	Extract(ctx context.Context, source string) (*models.ExtractedContent, error)
}

// Generator is the optional external text-generation service.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type AnalysisStore interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Similar(ctx context.Context, embedding []float32, limit int) ([]Record, error)
	Close()
}

// Record is one archived analysis.
type Record struct {
	ID        string
	Source    string
	Theme     string
	Analysis  models.DocumentAnalysis
	Embedding []float32
	CreatedAt time.Time
}
