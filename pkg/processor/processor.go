package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/xhad/infographic/internal/models"
)

type ProcessorConfig struct {
	// Extensions handled, lower case with the leading dot. "" matches files
	// without an extension.
	Extensions []string

	// A line shorter than this ending in ':' opens a section when none is open.
	MaxLabelLength int
}

// Processor turns plain-text files into ExtractedContent.
type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".txt", ".md", ".rst", ".log", ""}
	}
	if config.MaxLabelLength == 0 {
		config.MaxLabelLength = 80
	}

	return Processor{
		config: config,
	}
}

// CanHandle reports whether path has one of the configured extensions.
func (p *Processor) CanHandle(path string) bool {
	return slices.Contains(p.config.Extensions, strings.ToLower(filepath.Ext(path)))
}

// Extract reads the file at path.
func (p *Processor) Extract(ctx context.Context, path string) (*models.ExtractedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to read %s: is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Process(data), nil
}

// Process splits raw bytes into a title and sections. Lines starting with '#'
// open a section, as does a short line ending in ':' when no section is open
// yet. Every other non-blank line belongs to the open section; lines before
// the first section and sections left empty are dropped.
func (p *Processor) Process(data []byte) *models.ExtractedContent {
	raw := strings.TrimSpace(decode(data))
	lines := strings.Split(raw, "\n")

	sections := []models.Section{}
	var (
		title   string
		open    bool
		content []string
	)
	flush := func() {
		if open && len(content) > 0 {
			sections = append(sections, models.Section{
				Title:   title,
				Content: models.LinesContent(content...),
			})
		}
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if strings.HasPrefix(line, "#") || p.isLabel(stripped, open && title != "") {
			flush()
			title = strings.TrimRight(headingText(stripped), ":")
			open = true
			content = nil
			continue
		}
		content = append(content, stripped)
	}
	flush()

	return &models.ExtractedContent{
		RawText:  raw,
		Title:    headingText(lines[0]),
		Sections: sections,
	}
}

func (p *Processor) isLabel(line string, titled bool) bool {
	return !titled && utf8.RuneCountInString(line) < p.config.MaxLabelLength && strings.HasSuffix(line, ":")
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
}

// decode returns data as a string, reading it as Windows-1252 when it is not
// valid UTF-8.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}
