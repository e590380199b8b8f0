package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/analyzer"
	"github.com/xhad/infographic/pkg/theme"
)

// Bundle is everything a renderer needs for one infographic.
type Bundle struct {
	ID       string                   `json:"id"`
	Source   string                   `json:"source"`
	Title    string                   `json:"title"`
	Analysis *models.DocumentAnalysis `json:"analysis"`
	Theme    theme.Theme              `json:"theme"`
	Chart    analyzer.ChartSeries     `json:"chart"`
}

func newBundle(id, source string, a *models.DocumentAnalysis) *Bundle {
	return &Bundle{
		ID:       id,
		Source:   source,
		Title:    a.Title,
		Analysis: a,
		Theme:    theme.ForAnalysis(a),
		Chart:    analyzer.NewChartSeries(a),
	}
}

// writeBundle writes b to dir/<id>.json through a temporary file so readers
// never see a partial bundle.
func writeBundle(dir string, b *Bundle) (path string, err error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, b.ID+"-*.json.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create bundle file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(append(data, '\n')); err != nil {
		return "", fmt.Errorf("failed to write bundle: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write bundle: %w", err)
	}

	path = filepath.Join(dir, b.ID+".json")
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write bundle: %w", err)
	}
	return path, nil
}

// analysisInput is a normalize payload: either an analysis object, or an
// envelope {"file_id", "filename", "analysis"} as posted by a front end.
type analysisInput struct {
	FileID   string
	Filename string
	Payload  []byte
}

func readAnalysisInput(path string) (*analysisInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var envelope struct {
		FileID   string          `json:"file_id"`
		ID       string          `json:"id"`
		Filename string          `json:"filename"`
		Source   string          `json:"source"`
		Analysis json.RawMessage `json:"analysis"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		if json.Valid(data) {
			return &analysisInput{Filename: path, Payload: data}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	analysis := bytes.TrimSpace(envelope.Analysis)
	if len(analysis) == 0 || analysis[0] != '{' {
		return &analysisInput{Filename: path, Payload: data}, nil
	}

	in := &analysisInput{
		FileID:   envelope.FileID,
		Filename: envelope.Filename,
		Payload:  analysis,
	}
	if in.FileID == "" {
		in.FileID = envelope.ID
	}
	if in.Filename == "" {
		in.Filename = envelope.Source
	}
	if in.Filename == "" {
		in.Filename = path
	}
	return in, nil
}
