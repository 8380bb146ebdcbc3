package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"crate/internal/config"
)

// maxCategoriesPerLabel bounds how many validated categories a single track
// may carry.
const maxCategoriesPerLabel = 2

var fold = cases.Fold()

// Matcher validates raw classifier output against the configured vocabulary.
// A raw category is accepted when it matches a vocabulary name exactly, or
// fuzzily after stripping the leading decorative glyph and folding case, or
// when it appears among the tokens of a category's hint.
type Matcher struct {
	names   []string
	folded  map[string]string
	hints   map[string]string
	indexed map[string]struct{}
}

// NewMatcher builds a Matcher over the genre vocabulary.
func NewMatcher(genres []config.Category) *Matcher {
	m := &Matcher{
		folded:  make(map[string]string, len(genres)),
		hints:   make(map[string]string, len(genres)),
		indexed: make(map[string]struct{}, len(genres)),
	}
	for _, genre := range genres {
		m.names = append(m.names, genre.Name)
		m.indexed[genre.Name] = struct{}{}
		m.folded[genre.Name] = normalizeCategory(genre.Name)
		m.hints[genre.Name] = fold.String(genre.Hint)
	}
	return m
}

// Validate maps raw categories onto vocabulary names, dedupes, and truncates
// to at most two entries. A label with no surviving category receives the
// fallback, so the result is never empty.
func (m *Matcher) Validate(raw []string, fallback string) []string {
	var categories []string
	seen := make(map[string]struct{}, maxCategoriesPerLabel)
	for _, candidate := range raw {
		name, ok := m.Match(candidate)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
		if len(categories) == maxCategoriesPerLabel {
			break
		}
	}
	if len(categories) == 0 {
		return []string{fallback}
	}
	return categories
}

// Match resolves one raw category string to a vocabulary name.
func (m *Matcher) Match(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if _, ok := m.indexed[raw]; ok {
		return raw, true
	}

	normalized := normalizeCategory(raw)
	if normalized == "" {
		return "", false
	}
	for _, name := range m.names {
		folded := m.folded[name]
		if normalized == folded {
			return name, true
		}
		if strings.Contains(folded, normalized) || strings.Contains(normalized, folded) {
			return name, true
		}
	}
	// Last resort: the model answered with a plain genre word that one of
	// the hints mentions ("Rock" -> a hint containing "rock").
	for _, name := range m.names {
		if hint := m.hints[name]; hint != "" && strings.Contains(hint, normalized) {
			return name, true
		}
	}
	return "", false
}

// normalizeCategory strips the leading decorative glyph run (emoji, symbols,
// punctuation) and case-folds the remainder.
func normalizeCategory(s string) string {
	trimmed := strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return fold.String(strings.TrimSpace(trimmed))
}
