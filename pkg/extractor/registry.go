// Package extractor picks the reader for a document source: web pages go to
// the scraper, plain-text files to the processor.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/internal/types"
	"github.com/xhad/infographic/pkg/processor"
	"github.com/xhad/infographic/pkg/scraper"
)

// ErrUnsupportedFormat is returned for sources no extractor reads.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Office and PDF documents are recognised but not parsed.
var binaryFormats = []string{".pdf", ".docx", ".doc", ".pptx", ".ppt"}

type Registry struct {
	text *processor.Processor
	web  types.Extractor
}

// NewRegistry builds a registry. web may be nil, in which case URLs are
// rejected.
func NewRegistry(text processor.Processor, web types.Extractor) *Registry {
	return &Registry{text: &text, web: web}
}

// For returns the extractor that reads source.
func (r *Registry) For(source string) (types.Extractor, error) {
	if scraper.IsURL(source) {
		if r.web == nil {
			return nil, fmt.Errorf("%w: web pages are disabled", ErrUnsupportedFormat)
		}
		return r.web, nil
	}

	ext := strings.ToLower(filepath.Ext(source))
	if slices.Contains(binaryFormats, ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if r.text.CanHandle(source) {
		return r.text, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Extract reads source with the matching extractor.
func (r *Registry) Extract(ctx context.Context, source string) (*models.ExtractedContent, error) {
	ex, err := r.For(source)
	if err != nil {
		return nil, err
	}
	content, err := ex.Extract(ctx, source)
	if err != nil {
		return nil, err
	}
	if content.Sections == nil {
		content.Sections = []models.Section{}
	}
	return content, nil
}
