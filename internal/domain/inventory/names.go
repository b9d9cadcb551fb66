package inventory

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// NormalizeModuleName turns free text into the canonical module key,
// e.g. "Netflix Premium" becomes "netflix-premium".
func NormalizeModuleName(name string) (string, error) {
	normalized := slug.Make(strings.TrimSpace(name))
	if normalized == "" || !slug.IsSlug(normalized) {
		return "", ErrInvalidModuleName
	}
	return normalized, nil
}

// Suggest returns up to three known module names that fuzzily match the query.
func Suggest(query string, modules []string) []string {
	if query == "" {
		return nil
	}
	return Match(query, modules, maxSuggestions)
}

// Match ranks modules against query, best first, keeping at most limit.
// An empty query keeps the first limit modules in their given order.
func Match(query string, modules []string, limit int) []string {
	if len(modules) == 0 || limit <= 0 {
		return nil
	}
	if query == "" {
		return append([]string(nil), modules[:min(len(modules), limit)]...)
	}

	matches := fuzzy.Find(strings.ToLower(query), modules)
	out := make([]string, 0, min(len(matches), limit))
	for _, match := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, match.Str)
	}
	return out
}

// ParseItems splits a comma separated list, trimming blanks away.
func ParseItems(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
