package platform

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumberPattern = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)`)

// ParseLeadingFloat reads the numeric prefix of raw ("12-5" -> 12) and
// returns nil when there is none.
func ParseLeadingFloat(raw string) *float64 {
	match := leadingNumberPattern.FindString(raw)
	if match == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(match), 64)
	if err != nil {
		return nil
	}
	return &value
}

func FormatChapter(chapter float64) string {
	return strconv.FormatFloat(chapter, 'f', -1, 64)
}
