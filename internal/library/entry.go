// Package library holds the reading-list entry rules: construction,
// validation, history keys, legacy migration and card lookup.
package library

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabriel/bmh/internal/models"
)

var ErrInvalidEntry = errors.New("invalid library entry")

type EntryInput struct {
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Status          models.Status `json:"status"`
	Source          string        `json:"source"`
	SourceID        string        `json:"sourceId"`
	SourceURL       string        `json:"sourceUrl"`
	LastReadChapter *string       `json:"lastReadChapter"`
	TotalChapters   *int          `json:"totalChapters"`
	CustomMarker    *string       `json:"customMarker"`
}

func NewEntry(input EntryInput, now time.Time) models.LibraryEntry {
	now = now.UTC()

	status := input.Status
	if status == "" {
		status = models.StatusPlanToRead
	}
	source := strings.ToLower(strings.TrimSpace(input.Source))
	if source == "" {
		source = models.UnknownSource
	}

	entry := models.LibraryEntry{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(input.Title),
		Slug:            strings.TrimSpace(input.Slug),
		Status:          status,
		DateAdded:       now,
		Source:          source,
		SourceID:        strings.TrimSpace(input.SourceID),
		SourceURL:       strings.TrimSpace(input.SourceURL),
		LastReadChapter: input.LastReadChapter,
		TotalChapters:   input.TotalChapters,
		CustomMarker:    input.CustomMarker,
		LastUpdated:     now,
	}
	if entry.LastReadChapter != nil {
		entry.LastReadDate = &now
		entry.ChapterList = []string{*entry.LastReadChapter}
		entry.ReadChapters = 1
	}
	return entry
}

func Validate(entry models.LibraryEntry) error {
	if strings.TrimSpace(entry.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEntry)
	}
	if _, ok := ParseStatus(string(entry.Status)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEntry, entry.Status)
	}
	if entry.ReadChapters < 0 {
		return fmt.Errorf("%w: readChapters must be >= 0", ErrInvalidEntry)
	}
	if entry.TotalChapters != nil && *entry.TotalChapters < 0 {
		return fmt.Errorf("%w: totalChapters must be >= 0", ErrInvalidEntry)
	}
	if rating := entry.PersonalData; rating != nil && rating.Rating != nil {
		if *rating.Rating < 0 || *rating.Rating > 10 {
			return fmt.Errorf("%w: rating must be between 0 and 10", ErrInvalidEntry)
		}
	}
	return nil
}

// ParseStatus accepts the canonical status names case-insensitively along
// with the spellings older data used ("On Hold", "Rereading").
func ParseStatus(raw string) (models.Status, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(raw, "-", " "))), " ")
	switch key {
	case "reading":
		return models.StatusReading, true
	case "completed":
		return models.StatusCompleted, true
	case "dropped":
		return models.StatusDropped, true
	case "plan to read":
		return models.StatusPlanToRead, true
	case "on hold":
		return models.StatusOnHold, true
	case "re reading", "rereading":
		return models.StatusRereading, true
	default:
		return "", false
	}
}

// RecordChapter marks chapter as read and advances the last-read pointer.
func RecordChapter(entry *models.LibraryEntry, chapter string, now time.Time) {
	chapter = strings.TrimSpace(chapter)
	if entry == nil || chapter == "" {
		return
	}
	now = now.UTC()

	seen := false
	for _, existing := range entry.ChapterList {
		if existing == chapter {
			seen = true
			break
		}
	}
	if !seen {
		entry.ChapterList = append(entry.ChapterList, chapter)
	}
	entry.ReadChapters = len(entry.ChapterList)
	entry.LastReadChapter = &chapter
	entry.LastReadDate = &now
	entry.LastUpdated = now
}
