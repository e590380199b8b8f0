package analyzer

import (
	"strings"

	"github.com/xhad/infographic/internal/models"
	"github.com/xhad/infographic/pkg/patterns"
)

const (
	minTitleLength  = 4
	minBulletLength = 11
	maxBulletLength = 149
)

type ideaSet struct {
	ideas []models.KeyIdea
	seen  map[string]struct{}
}

func (s *ideaSet) add(text string, importance models.Importance) {
	key := strings.ToLower(text)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.ideas = append(s.ideas, models.KeyIdea{
		Text:       text,
		Importance: importance,
		Icon:       IconFor(text),
	})
}

// ExtractKeyIdeas merges section titles, bulleted lines and heading lines,
// in that order, skipping any text already seen case-insensitively.
func ExtractKeyIdeas(text string, sections []models.Section) []models.KeyIdea {
	set := &ideaSet{
		ideas: make([]models.KeyIdea, 0),
		seen:  make(map[string]struct{}),
	}

	for _, sec := range sections {
		title := strings.TrimSpace(sec.Title)
		if patterns.Len(title) >= minTitleLength {
			set.add(title, models.ImportanceHigh)
		}
	}

	for _, m := range patterns.Bullet.FindAllStringSubmatch(text, -1) {
		idea := strings.TrimSpace(m[1])
		if n := patterns.Len(idea); n >= minBulletLength && n <= maxBulletLength {
			set.add(idea, models.ImportanceMedium)
		}
	}

	for _, m := range patterns.Heading.FindAllStringSubmatch(text, -1) {
		if idea := strings.TrimSpace(m[1]); idea != "" {
			set.add(idea, models.ImportanceHigh)
		}
	}

	if len(set.ideas) > models.MaxKeyIdeas {
		return set.ideas[:models.MaxKeyIdeas]
	}
	return set.ideas
}

// ExtractStructure lists the non-blank section titles in document order.
func ExtractStructure(sections []models.Section) []string {
	structure := make([]string, 0, len(sections))
	for _, sec := range sections {
		if title := strings.TrimSpace(sec.Title); title != "" {
			structure = append(structure, title)
		}
	}
	return structure
}
