package analyzer

import (
	"strings"

	"github.com/xhad/infographic/internal/models"
)

// Category is the semantic family of a piece of text, used to pick an icon.
type Category string

const (
	CategoryFinance Category = "finance"
	CategoryGrowth  Category = "growth"
	CategoryTime    Category = "time"
	CategoryTech    Category = "tech"
	CategoryTeam    Category = "team"
	CategoryRisk    Category = "risk"
	CategoryGoal    Category = "goal"
	CategoryGlobal  Category = "global"
	CategoryLegal   Category = "legal"
	CategoryDefault Category = "idea"
)

type category struct {
	name     Category
	glyph    string
	keywords []string
}

// Tested in this order; the first category with a matching keyword wins.
var categories = []category{
	{CategoryFinance, "💰", []string{"euro", "dollar", "coût", "budget", "prix", "chiffre d'affaire", "bénéfice", "invest", "banque", "argent"}},
	{CategoryGrowth, "🚀", []string{"croissance", "hausse", "augmentation", "progression", "développement", "boost", "succès"}},
	{CategoryTime, "📅", []string{"année", "date", "période", "durée", "temps", "deadline", "échéance", "202", "199"}},
	{CategoryTech, "💻", []string{"tech", "logiciel", "digital", "numérique", "web", "app", "système", "donnée", "data", "ia", "intelligence"}},
	{CategoryTeam, "👥", []string{"équipe", "staff", "employé", "personnel", "rh", "humain", "collaborateur", "social"}},
	{CategoryRisk, "⚠️", []string{"risque", "menace", "problème", "crise", "erreur", "faille", "attention"}},
	{CategoryGoal, "🎯", []string{"objectif", "but", "mission", "vision", "stratégie", "plan", "cible"}},
	{CategoryGlobal, "🌍", []string{"international", "monde", "global", "pays", "europe", "étranger", "export"}},
	{CategoryLegal, "⚖️", []string{"loi", "règle", "norme", "juridique", "légal", "contrat", "droit"}},
}

// Classify returns the first category whose keywords occur in text, or
// CategoryDefault.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, c := range categories {
		for _, k := range c.keywords {
			if strings.Contains(lower, k) {
				return c.name
			}
		}
	}
	return CategoryDefault
}

// Glyph returns the icon shown for the category.
func (c Category) Glyph() string {
	for _, cat := range categories {
		if cat.name == c {
			return cat.glyph
		}
	}
	return models.DefaultIcon
}

// IconFor is Classify(text).Glyph().
func IconFor(text string) string {
	return Classify(text).Glyph()
}
