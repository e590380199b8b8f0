// Package analyzer turns extracted document content into a DocumentAnalysis.
//
// Every extractor in this package is a pure function. The Analyzer composes
// them and optionally asks an external Generator first, falling back to the
// heuristic extractors whenever the generator is absent, fails, or replies in
// an unusable shape.
package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/internal/types"
	"github.com/xhad/infographic/pkg/patterns"
)

const (
	// MinExternalLength is the shortest raw text worth sending to a generator.
	MinExternalLength = 50
	maxTitleLength    = 59
)

// Config configures an Analyzer.
type Config struct {
	// Generator is optional. Without one only the heuristic path runs.
	Generator types.Generator

	MinExternalLength int
	MaxPromptChars    int

	// Timeout bounds the generator call. Zero leaves it to ctx.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Analyzer chooses between the external and the heuristic analysis paths.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	config Config
}

// New creates an Analyzer, filling unset Config fields with defaults.
func New(config Config) *Analyzer {
	if config.MinExternalLength <= 0 {
		config.MinExternalLength = MinExternalLength
	}
	if config.MaxPromptChars <= 0 {
		config.MaxPromptChars = MaxPromptChars
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &Analyzer{config: config}
}

// Analyze returns the generator's analysis when one is available and usable,
// the heuristic analysis otherwise. It never fails.
func (a *Analyzer) Analyze(ctx context.Context, content *models.ExtractedContent) *models.DocumentAnalysis {
	if content == nil {
		content = &models.ExtractedContent{}
	}
	if analysis, ok := a.AnalyzeExternal(ctx, content); ok {
		a.config.Logger.WithField("path", "external").Debug("analysis complete")
		return analysis
	}
	a.config.Logger.WithField("path", "heuristic").Debug("analysis complete")
	return AnalyzeHeuristic(content)
}

// AnalyzeExternal asks the configured generator for an analysis. The second
// result is false when no generator is configured, the text is too short,
// the call fails, or the reply cannot be parsed.
func (a *Analyzer) AnalyzeExternal(ctx context.Context, content *models.ExtractedContent) (*models.DocumentAnalysis, bool) {
	if a.config.Generator == nil || content == nil {
		return nil, false
	}
	log := a.config.Logger

	if n := patterns.Len(content.RawText); n < a.config.MinExternalLength {
		log.WithField("length", n).Debug("text too short for external analysis")
		return nil, false
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := a.config.Generator.Generate(ctx, buildPrompt(content.RawText, a.config.MaxPromptChars))
	if err != nil {
		log.WithError(err).Warn("external analysis unavailable, using heuristics")
		return nil, false
	}

	analysis, ok := ParseReply(reply, content)
	if !ok {
		log.WithField("reply_length", len(reply)).Warn("external analysis reply has no tagged lines, using heuristics")
		return nil, false
	}

	log.WithFields(logrus.Fields{
		"ideas":    len(analysis.KeyIdeas),
		"figures":  len(analysis.KeyFigures),
		"timeline": len(analysis.Timeline),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Debug("external analysis parsed")
	return analysis, true
}

// AnalyzeHeuristic builds an analysis from content with the rule-based
// extractors only. Identical input always yields an identical result.
func AnalyzeHeuristic(content *models.ExtractedContent) *models.DocumentAnalysis {
	if content == nil {
		content = &models.ExtractedContent{}
	}
	text := strings.TrimSpace(content.RawText)
	figures := ExtractKeyFigures(text)

	return &models.DocumentAnalysis{
		Title:              resolveTitle(content),
		Summary:            BuildSummary(text, content.Sections),
		KeyIdeas:           ExtractKeyIdeas(text, content.Sections),
		KeyFigures:         figures,
		Timeline:           ExtractTimeline(text),
		Structure:          ExtractStructure(content.Sections),
		CategoriesForChart: BuildChartData(figures),
		RawText:            content.RawText,
	}
}

// resolveTitle prefers the document title, then a short first section title.
func resolveTitle(content *models.ExtractedContent) string {
	if title := strings.TrimSpace(content.Title); title != "" {
		return title
	}
	if len(content.Sections) == 0 {
		return ""
	}
	first := strings.TrimSpace(content.Sections[0].Title)
	if patterns.Len(first) > maxTitleLength {
		return ""
	}
	return first
}
