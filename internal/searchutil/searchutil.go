// Package searchutil holds the title normalization shared by library
// matching, library search and metadata synonym cleanup.
package searchutil

import (
	"strings"
	"unicode"
)

// Normalize lowercases value, turns every non letter/digit rune into a
// space and collapses whitespace runs.
func Normalize(value string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, value)
	return strings.Join(strings.Fields(mapped), " ")
}

// Compact keeps only ASCII letters and digits, lowercased. Two titles that
// differ only in punctuation or spacing compact to the same key.
func Compact(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type Query struct {
	Normalized string
	Tokens     []string
}

func NewQuery(raw string) Query {
	normalized := Normalize(raw)
	query := Query{Normalized: normalized}
	seen := map[string]struct{}{}
	for _, token := range strings.Fields(normalized) {
		if _, exists := seen[token]; exists {
			continue
		}
		seen[token] = struct{}{}
		query.Tokens = append(query.Tokens, token)
	}
	return query
}

func (q Query) Empty() bool {
	return q.Normalized == ""
}

// Matches reports whether any candidate contains the whole query, or
// every query token.
func (q Query) Matches(candidates ...string) bool {
	if q.Empty() {
		return true
	}
	for _, candidate := range candidates {
		normalized := Normalize(candidate)
		if normalized == "" {
			continue
		}
		if strings.Contains(normalized, q.Normalized) || containsAll(normalized, q.Tokens) {
			return true
		}
	}
	return false
}

func containsAll(haystack string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}

// UniqueNonEmpty trims values and drops blanks and normalized duplicates,
// keeping first occurrences in order.
func UniqueNonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	unique := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		key := Normalize(trimmed)
		if key == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, trimmed)
	}
	return unique
}

// LatinOnly keeps the values written with ASCII letters, digits, spaces and
// common title punctuation.
func LatinOnly(values []string) []string {
	filtered := make([]string, 0, len(values))
	for _, value := range UniqueNonEmpty(values) {
		if IsLatinTitle(value) {
			filtered = append(filtered, value)
		}
	}
	return filtered
}

func IsLatinTitle(value string) bool {
	hasLetter := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9', unicode.IsSpace(r):
		case strings.ContainsRune("-_:;,.!?'\"()[]&/+#*", r):
		default:
			return false
		}
	}
	return hasLetter
}
