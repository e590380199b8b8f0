package analyzer

import "github.com/xhad/infographic/pkg/patterns"

// MaxPromptChars is how much of the document text is sent to the generator.
const MaxPromptChars = 8000

const instruction = `Tu es un expert en synthèse de documents. À partir du texte suivant, extrais :
1. Un titre court (si évident)
2. Un résumé en 2-3 phrases
3. Une liste d'idées clés (phrases courtes, une par ligne, préfixe "IDEE:")
4. Une liste de chiffres/statistiques (format "LABEL: VALEUR", une par ligne, préfixe "CHIFFRE:")
5. Une chronologie si des dates sont présentes (format "DATE: description", préfixe "DATE:")

Réponds UNIQUEMENT avec ces lignes, sans autre texte.

TEXTE:
`

// BuildPrompt returns the analysis instruction followed by the first
// MaxPromptChars runes of rawText.
func BuildPrompt(rawText string) string {
	return buildPrompt(rawText, MaxPromptChars)
}

func buildPrompt(rawText string, limit int) string {
	return instruction + patterns.Truncate(rawText, limit)
}
