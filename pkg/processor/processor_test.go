package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/infographic/pkg/processor"
)

const report = `Rapport annuel 2023
Introduction:
Le groupe a connu une forte croissance.
Le chiffre d'affaires progresse de 12,5%.

## Objectifs
- Doubler la production
- Recruter 40 personnes

## Vide
## Perspectives
Ouverture de deux sites en 2025.
`

func TestProcessor_Process(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	content := p.Process([]byte(report))

	assert.Equal(t, "Rapport annuel 2023", content.Title)
	assert.Equal(t, strings.TrimSpace(report), content.RawText)

	require.Len(t, content.Sections, 3)
	assert.Equal(t, "Introduction", content.Sections[0].Title)
	assert.Equal(t, []string{
		"Le groupe a connu une forte croissance.",
		"Le chiffre d'affaires progresse de 12,5%.",
	}, content.Sections[0].Content.Lines())
	assert.True(t, content.Sections[0].Content.IsLines())

	assert.Equal(t, "Objectifs", content.Sections[1].Title)
	assert.Equal(t, []string{"- Doubler la production", "- Recruter 40 personnes"}, content.Sections[1].Content.Lines())

	assert.Equal(t, "Perspectives", content.Sections[2].Title)
	assert.Equal(t, "Ouverture de deux sites en 2025.", content.Sections[2].Content.String())
}

func TestProcessor_LabelOnlyWhenNoSectionOpen(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	content := p.Process([]byte("# Titre\nContexte:\nSuite du texte."))

	require.Len(t, content.Sections, 1)
	assert.Equal(t, "Titre", content.Sections[0].Title)
	assert.Equal(t, []string{"Contexte:", "Suite du texte."}, content.Sections[0].Content.Lines())
}

func TestProcessor_TextBeforeFirstSectionIsDropped(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	content := p.Process([]byte("Une note libre sans titre.\nDeuxième ligne."))

	assert.Equal(t, "Une note libre sans titre.", content.Title)
	assert.Empty(t, content.Sections)
	assert.NotNil(t, content.Sections)
}

func TestProcessor_Windows1252(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	// "Été 2023" in Windows-1252.
	content := p.Process([]byte{0xC9, 't', 0xE9, ' ', '2', '0', '2', '3'})

	assert.Equal(t, "Été 2023", content.RawText)
}

func TestProcessor_CanHandle(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	for _, path := range []string{"notes.txt", "README.MD", "doc.rst", "server.log", "LISEZMOI"} {
		assert.True(t, p.CanHandle(path), path)
	}
	for _, path := range []string{"rapport.pdf", "page.html", "slides.pptx"} {
		assert.False(t, p.CanHandle(path), path)
	}
}

func TestProcessor_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rapport.md")
	require.NoError(t, os.WriteFile(path, []byte(report), 0644))

	p := processor.NewWithConfig(processor.ProcessorConfig{})

	content, err := p.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Rapport annuel 2023", content.Title)

	_, err = p.Extract(context.Background(), filepath.Join(dir, "absent.txt"))
	assert.Error(t, err)

	_, err = p.Extract(context.Background(), dir)
	assert.Error(t, err)
}
