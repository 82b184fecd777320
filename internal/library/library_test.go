package library

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/platform/native/asurascans"
	"github.com/gabriel/bmh/internal/platform/native/mangafire"
)

func TestNewEntryDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	chapter := "12"

	entry := NewEntry(EntryInput{Title: "  Nano Machine ", Source: "AsuraScans", LastReadChapter: &chapter}, now)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Nano Machine", entry.Title)
	assert.Equal(t, models.StatusPlanToRead, entry.Status)
	assert.Equal(t, "asurascans", entry.Source)
	assert.Equal(t, now, entry.DateAdded)
	assert.Equal(t, []string{"12"}, entry.ChapterList)
	assert.Equal(t, 1, entry.ReadChapters)
	require.NotNil(t, entry.LastReadDate)

	other := NewEntry(EntryInput{Title: "x"}, now)
	assert.Equal(t, models.UnknownSource, other.Source)
	assert.NotEqual(t, entry.ID, other.ID)
}

func TestValidate(t *testing.T) {
	negative := -1
	rating := 11.0

	tests := map[string]models.LibraryEntry{
		"missing title":  {Status: models.StatusReading},
		"unknown status": {Title: "a", Status: "Binging"},
		"negative total": {Title: "a", Status: models.StatusReading, TotalChapters: &negative},
		"rating range":   {Title: "a", Status: models.StatusReading, PersonalData: &models.PersonalData{Rating: &rating}},
	}
	for name, entry := range tests {
		err := Validate(entry)
		assert.Truef(t, errors.Is(err, ErrInvalidEntry), "%s: expected ErrInvalidEntry, got %v", name, err)
	}

	assert.NoError(t, Validate(models.LibraryEntry{Title: "a", Status: "on hold"}))
}

func TestParseStatus(t *testing.T) {
	cases := map[string]models.Status{
		"Reading":      models.StatusReading,
		"plan to read": models.StatusPlanToRead,
		"On Hold":      models.StatusOnHold,
		"On-Hold":      models.StatusOnHold,
		"Rereading":    models.StatusRereading,
		"re-reading":   models.StatusRereading,
	}
	for raw, want := range cases {
		got, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParseStatus("paused")
	assert.False(t, ok)
}

func TestRecordChapter(t *testing.T) {
	entry := NewEntry(EntryInput{Title: "a"}, time.Now())
	now := time.Now()

	RecordChapter(&entry, "1", now)
	RecordChapter(&entry, "2", now)
	RecordChapter(&entry, "1", now)

	assert.Equal(t, []string{"1", "2"}, entry.ChapterList)
	assert.Equal(t, 2, entry.ReadChapters)
	require.NotNil(t, entry.LastReadChapter)
	assert.Equal(t, "1", *entry.LastReadChapter)
}

func TestNamespacedKeys(t *testing.T) {
	prefixes := map[string]string{"asura:": "asurascans", "mp:": "mangaplus"}

	key := NamespacedKey("asura:", "nano-machine")
	platformID, slug := ParseNamespacedKey(key, prefixes)
	assert.Equal(t, "asurascans", platformID)
	assert.Equal(t, "nano-machine", slug)

	platformID, slug = ParseNamespacedKey("one-piecee.dkw", prefixes)
	assert.Empty(t, platformID)
	assert.Equal(t, "one-piecee.dkw", slug)
}

func TestHistoryKeys(t *testing.T) {
	card := &platform.CardRecord{Title: "One Piece", Slug: "one-piecee.dkw"}

	keys := HistoryKeys(mangafire.NewAdapter(), card)
	assert.Equal(t, []string{"one-piecee.dkw", "one-piecee", "One Piece", "onepiece"}, keys)

	keys = HistoryKeys(asurascans.NewAdapter(), &platform.CardRecord{Title: "Nano Machine", Slug: "nano-machine"})
	assert.Equal(t, []string{"asura:nano-machine", "nano-machine", "Nano Machine", "nanomachine"}, keys)
}

type fakeInferrer map[string]string

func (f fakeInferrer) InferSource(rawURL string) string {
	if source, ok := f[rawURL]; ok {
		return source
	}
	return models.UnknownSource
}

func TestMigrateLegacy(t *testing.T) {
	entries := []models.LibraryEntry{
		{Title: "a", SourceURL: "https://asuracomic.net/series/a", Status: models.StatusReading},
		{Title: "b", Source: "mangadex", Status: models.StatusReading},
		{Title: "c", Status: "on hold", ChapterList: []string{"1", "2"}},
	}

	changed := MigrateLegacy(entries, fakeInferrer{"https://asuracomic.net/series/a": "asurascans"})

	assert.Equal(t, 2, changed)
	assert.Equal(t, "asurascans", entries[0].Source)
	assert.Equal(t, "mangadex", entries[1].Source)
	assert.Equal(t, models.UnknownSource, entries[2].Source)
	assert.Equal(t, models.StatusOnHold, entries[2].Status)
	assert.Equal(t, 2, entries[2].ReadChapters)
}

func TestIndexLookupOrder(t *testing.T) {
	entries := []models.LibraryEntry{
		{ID: "by-id", Title: "Tower of God", Source: "mangadex", SourceID: "57e1d491-1dc9-4854-83bf-7a9379566fb2", Status: models.StatusReading},
		{ID: "by-slug", Title: "Nano Machine", Source: "asurascans", Slug: "nano-machine-1", Status: models.StatusCompleted},
		{ID: "legacy", Title: "Old Entry", Source: models.UnknownSource, Slug: "old-entry", Status: models.StatusDropped},
		{ID: "title", Title: "Solo Leveling", Source: "manganato", Slug: "manga-aa951409", Status: models.StatusReading},
	}
	index := NewIndex(entries)
	assert.Equal(t, 4, index.Len())

	tests := []struct {
		name     string
		platform string
		id       string
		slug     string
		title    string
		want     string
	}{
		{name: "source id", platform: "mangadex", id: "57e1d491-1dc9-4854-83bf-7a9379566fb2", title: "whatever", want: "by-id"},
		{name: "slug fallback", platform: "asurascans", id: "missing", slug: "nano-machine-1", want: "by-slug"},
		{name: "legacy slug", platform: "mangafire", slug: "old-entry", want: "legacy"},
		{name: "title fallback", platform: "manganato", slug: "solo-leveling-x", title: "Solo  Leveling!", want: "title"},
		{name: "title scoped to platform", platform: "mangafire", slug: "other-slug.x9", title: "Solo Leveling", want: ""},
		{name: "no match", platform: "asurascans", slug: "unknown", title: "Unknown", want: ""},
		{name: "slug scoped to platform", platform: "mangadex", slug: "nano-machine-1", want: ""},
	}

	for _, tc := range tests {
		entry, ok := index.Find(tc.platform, tc.id, tc.slug, tc.title)
		if tc.want == "" {
			assert.Falsef(t, ok, "%s: expected no match, got %+v", tc.name, entry)
			continue
		}
		require.Truef(t, ok, "%s: expected match", tc.name)
		assert.Equal(t, tc.want, entry.ID, tc.name)
	}
}
