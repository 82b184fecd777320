package library

import (
	"strings"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/searchutil"
)

// Index is a read-only snapshot of stored entries keyed the ways a card
// can be matched. The first entry wins when keys collide.
type Index struct {
	entries  []models.LibraryEntry
	bySource map[string]int
	bySlug   map[string]int
	byLegacy map[string]int
	byTitle  map[string]int
}

func NewIndex(entries []models.LibraryEntry) *Index {
	index := &Index{
		entries:  append([]models.LibraryEntry(nil), entries...),
		bySource: map[string]int{},
		bySlug:   map[string]int{},
		byLegacy: map[string]int{},
		byTitle:  map[string]int{},
	}

	for i, entry := range index.entries {
		source := strings.ToLower(entry.Source)
		if entry.SourceID != "" {
			putFirst(index.bySource, scopedKey(source, entry.SourceID), i)
		}
		if entry.Slug != "" {
			putFirst(index.bySlug, scopedKey(source, entry.Slug), i)
			if source == "" || source == models.UnknownSource {
				putFirst(index.byLegacy, entry.Slug, i)
			}
		}
		if title := searchutil.Compact(entry.Title); title != "" {
			putFirst(index.byTitle, scopedKey(source, title), i)
		}
	}
	return index
}

func putFirst(m map[string]int, key string, position int) {
	if _, exists := m[key]; !exists {
		m[key] = position
	}
}

func scopedKey(platformID string, value string) string {
	return platformID + "\x00" + value
}

func (i *Index) Len() int {
	return len(i.entries)
}

// Find matches (platform, id), then (platform, slug), then slug-only
// legacy entries, then the compacted title on the same platform. The
// returned entry is a copy.
func (i *Index) Find(platformID string, id string, slug string, title string) (*models.LibraryEntry, bool) {
	platformID = strings.ToLower(platformID)

	if id != "" {
		if pos, ok := i.bySource[scopedKey(platformID, id)]; ok {
			return i.at(pos)
		}
	}
	if slug != "" {
		if pos, ok := i.bySlug[scopedKey(platformID, slug)]; ok {
			return i.at(pos)
		}
		if pos, ok := i.byLegacy[slug]; ok {
			return i.at(pos)
		}
	}
	if compact := searchutil.Compact(title); compact != "" {
		if pos, ok := i.byTitle[scopedKey(platformID, compact)]; ok {
			return i.at(pos)
		}
	}
	return nil, false
}

func (i *Index) at(pos int) (*models.LibraryEntry, bool) {
	entry := i.entries[pos]
	return &entry, true
}
