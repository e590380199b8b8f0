// Package theme picks the visual palette of an infographic.
package theme

import (
	"crypto/sha256"
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

// CatalogVersion changes whenever Catalog does. Adding or reordering themes
// changes which theme an existing analysis maps to.
const CatalogVersion = 1

const seedSummaryLength = 200

// Theme is a palette and typography bundle.
type Theme struct {
	Name          string    `json:"name" yaml:"name"`
	Primary       string    `json:"primary" yaml:"primary"`
	Secondary     string    `json:"secondary" yaml:"secondary"`
	Accent        string    `json:"accent" yaml:"accent"`
	Background    string    `json:"background" yaml:"background"`
	Text          string    `json:"text" yaml:"text"`
	TextLight     string    `json:"text_light" yaml:"text_light"`
	FontHeading   string    `json:"font_heading" yaml:"font_heading"`
	FontBody      string    `json:"font_body" yaml:"font_body"`
	ChartColors   [6]string `json:"chart_colors" yaml:"chart_colors"`
	GradientStart string    `json:"gradient_start" yaml:"gradient_start"`
	GradientEnd   string    `json:"gradient_end" yaml:"gradient_end"`
	CardBG        string    `json:"card_bg" yaml:"card_bg"`
	IsDark        bool      `json:"is_dark" yaml:"is_dark"`
}

// Catalog is the fixed list of themes, in selection order.
var Catalog = [...]Theme{
	{
		Name:          "Ocean Deep",
		Primary:       "#0d47a1",
		Secondary:     "#1565c0",
		Accent:        "#00e5ff",
		Background:    "#f0f4f8",
		Text:          "#102a43",
		TextLight:     "#627d98",
		FontHeading:   "'Montserrat', sans-serif",
		FontBody:      "'Open Sans', sans-serif",
		ChartColors:   [6]string{"#0d47a1", "#1976d2", "#2196f3", "#64b5f6", "#90caf9", "#bbdefb"},
		GradientStart: "#0d47a1",
		GradientEnd:   "#1565c0",
		CardBG:        "#ffffff",
	},
	{
		Name:          "Forest Pro",
		Primary:       "#1b5e20",
		Secondary:     "#2e7d32",
		Accent:        "#00e676",
		Background:    "#f1f8e9",
		Text:          "#1b5e20",
		TextLight:     "#558b2f",
		FontHeading:   "'Playfair Display', serif",
		FontBody:      "'Source Sans 3', sans-serif",
		ChartColors:   [6]string{"#1b5e20", "#388e3c", "#4caf50", "#81c784", "#a5d6a7", "#c8e6c9"},
		GradientStart: "#1b5e20",
		GradientEnd:   "#43a047",
		CardBG:        "#ffffff",
	},
	{
		Name:          "Corporate Slate",
		Primary:       "#263238",
		Secondary:     "#455a64",
		Accent:        "#ff3d00",
		Background:    "#f5f7fa",
		Text:          "#263238",
		TextLight:     "#546e7a",
		FontHeading:   "'Roboto Slab', serif",
		FontBody:      "'Roboto', sans-serif",
		ChartColors:   [6]string{"#263238", "#37474f", "#546e7a", "#78909c", "#b0bec5", "#cfd8dc"},
		GradientStart: "#37474f",
		GradientEnd:   "#263238",
		CardBG:        "#ffffff",
	},
	{
		Name:          "Tech Dark",
		Primary:       "#6200ea",
		Secondary:     "#651fff",
		Accent:        "#00b0ff",
		Background:    "#121212",
		Text:          "#f5f5f5",
		TextLight:     "#bdbdbd",
		FontHeading:   "'Space Grotesk', sans-serif",
		FontBody:      "'Inter', sans-serif",
		ChartColors:   [6]string{"#6200ea", "#7c4dff", "#b388ff", "#00b0ff", "#40c4ff", "#80d8ff"},
		GradientStart: "#311b92",
		GradientEnd:   "#6200ea",
		CardBG:        "#1e1e1e",
		IsDark:        true,
	},
	{
		Name:          "Luxury Gold",
		Primary:       "#bf360c",
		Secondary:     "#d84315",
		Accent:        "#ffd700",
		Background:    "#fff8e1",
		Text:          "#3e2723",
		TextLight:     "#795548",
		FontHeading:   "'Cinzel', serif",
		FontBody:      "'Lato', sans-serif",
		ChartColors:   [6]string{"#bf360c", "#d84315", "#f4511e", "#ff7043", "#ff8a65", "#ffab91"},
		GradientStart: "#bf360c",
		GradientEnd:   "#d84315",
		CardBG:        "#ffffff",
	},
	{
		Name:          "Modern Berry",
		Primary:       "#880e4f",
		Secondary:     "#ad1457",
		Accent:        "#ff4081",
		Background:    "#fce4ec",
		Text:          "#4a148c",
		TextLight:     "#880e4f",
		FontHeading:   "'Raleway', sans-serif",
		FontBody:      "'Nunito', sans-serif",
		ChartColors:   [6]string{"#880e4f", "#c2185b", "#e91e63", "#f06292", "#f48fb1", "#f8bbd0"},
		GradientStart: "#880e4f",
		GradientEnd:   "#c2185b",
		CardBG:        "#ffffff",
	},
}

// Seed is the text a theme is chosen from: the title followed by the first
// 200 runes of the summary.
func Seed(a *models.DocumentAnalysis) string {
	if a == nil {
		return ""
	}
	return a.Title + patterns.Truncate(a.Summary, seedSummaryLength)
}

// Index maps seed onto a Catalog position: the SHA-256 digest of seed read as
// a big-endian integer, modulo the catalog size.
func Index(seed string) int {
	sum := sha256.Sum256([]byte(seed))
	n := uint64(len(Catalog))
	var r uint64
	for _, b := range sum {
		r = (r<<8 | uint64(b)) % n
	}
	return int(r)
}

// ForAnalysis returns the theme of a. Only the title and the start of the
// summary are read.
func ForAnalysis(a *models.DocumentAnalysis) Theme {
	return Catalog[Index(Seed(a))]
}

// ByName looks a theme up by name, ignoring case.
func ByName(name string) (Theme, bool) {
	for _, t := range Catalog {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Theme{}, false
}

// Names lists the catalog's theme names in order.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for _, t := range Catalog {
		names = append(names, t.Name)
	}
	return names
}
