package library

import (
	"strings"

	"github.com/gabriel/bmh/internal/models"
)

type SourceInferrer interface {
	InferSource(rawURL string) string
}

// MigrateLegacy fills in fields that entries written before multi-platform
// support lack. It infers the platform from the stored URL, defaults the
// status and returns how many entries changed.
func MigrateLegacy(entries []models.LibraryEntry, inferrer SourceInferrer) int {
	changed := 0
	for i := range entries {
		entry := &entries[i]
		dirty := false

		source := strings.ToLower(strings.TrimSpace(entry.Source))
		if source == "" || source == models.UnknownSource {
			inferred := models.UnknownSource
			if inferrer != nil && entry.SourceURL != "" {
				inferred = inferrer.InferSource(entry.SourceURL)
			}
			if inferred != entry.Source {
				entry.Source = inferred
				dirty = true
			}
		}

		if entry.Status == "" {
			entry.Status = models.StatusPlanToRead
			dirty = true
		} else if status, ok := ParseStatus(string(entry.Status)); ok && status != entry.Status {
			entry.Status = status
			dirty = true
		}

		if entry.ReadChapters == 0 && len(entry.ChapterList) > 0 {
			entry.ReadChapters = len(entry.ChapterList)
			dirty = true
		}

		if dirty {
			changed++
		}
	}
	return changed
}
