package metadata

import (
	"strings"

	"github.com/gabriel/bmh/internal/models"
)

// RankFormat orders candidate formats: manga, then one-shots, then novels,
// then anything else.
func RankFormat(format string) int {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "MANGA":
		return 100
	case "ONE_SHOT":
		return 10
	case "NOVEL":
		return 5
	default:
		return 1
	}
}

// PickBest returns the highest ranked candidate. Ties keep provider order.
func PickBest(candidates []models.ExternalMetadata) *models.ExternalMetadata {
	if len(candidates) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if RankFormat(candidates[i].Format) > RankFormat(candidates[best].Format) {
			best = i
		}
	}
	picked := candidates[best]
	return &picked
}

func FormatName(meta models.ExternalMetadata) string {
	switch meta.CountryOfOrigin {
	case "KR":
		return "Manhwa"
	case "CN", "TW":
		return "Manhua"
	}
	switch meta.Format {
	case "MANGA":
		return "Manga"
	case "ONE_SHOT":
		return "One Shot"
	case "NOVEL":
		return "Light Novel"
	case "":
		return "Unknown"
	default:
		return meta.Format
	}
}
