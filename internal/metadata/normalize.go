package metadata

import (
	"regexp"
	"strings"
)

// LadderDepth is the number of distinct title strategies a lookup tries.
const LadderDepth = 3

var (
	parentheticalPattern = regexp.MustCompile(`\s*\(.*?\)\s*`)
	bracketedPattern     = regexp.MustCompile(`\s*\[.*?\]\s*`)
	separatorPattern     = regexp.MustCompile(`[:\-–—]`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
	nonAlphanumeric      = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

	noiseTokenPattern = regexp.MustCompile(`(?i)\b(?:full color|colored|remake|digital|vertical|scanlation|official|ver|manga|manhwa|manhua|remastered|raw|chapter|ch\.\d+|v\.\d+)\b`)
)

// NormalizeTitle returns the search text for the given ladder step:
// 0 is the raw title, 1 drops annotations and separators, 2 and above also
// drop noise tokens and any remaining punctuation.
func NormalizeTitle(title string, attempt int) string {
	if attempt <= 0 {
		return strings.TrimSpace(title)
	}

	cleaned := parentheticalPattern.ReplaceAllString(title, " ")
	cleaned = bracketedPattern.ReplaceAllString(cleaned, " ")
	cleaned = separatorPattern.ReplaceAllString(cleaned, " ")
	cleaned = collapse(cleaned)

	if attempt == 1 {
		return cleaned
	}

	cleaned = noiseTokenPattern.ReplaceAllString(cleaned, " ")
	cleaned = nonAlphanumeric.ReplaceAllString(cleaned, " ")
	return collapse(cleaned)
}

func collapse(value string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " "))
}
