package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/notifications"
)

type fakeLibrary struct {
	items   []models.LibraryEntry
	updated map[string]models.ExternalMetadata
}

func (f *fakeLibrary) ListMissingMetadata(_ context.Context, limit int) ([]models.LibraryEntry, error) {
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeLibrary) SetMetadata(_ context.Context, id string, meta models.ExternalMetadata, _ time.Time) error {
	if f.updated == nil {
		f.updated = map[string]models.ExternalMetadata{}
	}
	f.updated[id] = meta
	return nil
}

type fakeResolver struct {
	results map[string]metadata.Resolution
}

func (f fakeResolver) Resolve(_ context.Context, title string) metadata.Resolution {
	if res, ok := f.results[title]; ok {
		return res
	}
	return metadata.Resolution{Outcome: metadata.OutcomeNotFound}
}

type fakeNotifier struct {
	messages []notifications.Message
}

func (f *fakeNotifier) Notify(_ context.Context, message notifications.Message) error {
	f.messages = append(f.messages, message)
	return nil
}

func found(id string, chapters int) metadata.Resolution {
	return metadata.Resolution{
		Outcome: metadata.OutcomeFound,
		Data:    &models.ExternalMetadata{ID: id, Source: metadata.ProviderAniList, Chapters: &chapters},
	}
}

func chapter(value string) *string {
	return &value
}

func TestPollerBackfill_NotifiesOnNewChapters(t *testing.T) {
	library := &fakeLibrary{items: []models.LibraryEntry{
		{ID: "a", Title: "Tower of God", LastReadChapter: chapter("550")},
		{ID: "b", Title: "Up To Date", LastReadChapter: chapter("200")},
		{ID: "c", Title: "Unknown Thing"},
	}}
	resolver := fakeResolver{results: map[string]metadata.Resolution{
		"Tower of God": found("85143", 560),
		"Up To Date":   found("1", 200),
	}}
	notifier := &fakeNotifier{}

	poller := NewPoller(library, resolver, nil, notifier, PollerConfig{Interval: time.Minute, NotifyEnabled: true}, nil)
	report, err := poller.Backfill(context.Background())
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}

	if report.Checked != 3 || report.Resolved != 2 || report.Missed != 1 || report.Notified != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(library.updated) != 2 || library.updated["a"].ID != "85143" {
		t.Fatalf("unexpected updates %+v", library.updated)
	}
	if len(notifier.messages) != 1 || notifier.messages[0].Event != notifications.EventNewChapters || notifier.messages[0].Context["entryId"] != "a" {
		t.Fatalf("unexpected notifications %+v", notifier.messages)
	}
}

func TestPollerBackfill_NoNotifyWhenDisabled(t *testing.T) {
	library := &fakeLibrary{items: []models.LibraryEntry{{ID: "a", Title: "Tower of God", LastReadChapter: chapter("10")}}}
	resolver := fakeResolver{results: map[string]metadata.Resolution{"Tower of God": found("85143", 560)}}
	notifier := &fakeNotifier{}

	poller := NewPoller(library, resolver, nil, notifier, PollerConfig{Interval: time.Minute, NotifyEnabled: false}, nil)
	if _, err := poller.Backfill(context.Background()); err != nil {
		t.Fatalf("backfill failed: %v", err)
	}

	if len(notifier.messages) != 0 {
		t.Fatalf("expected 0 notifications, got %d", len(notifier.messages))
	}
}

func TestPollerBackfill_RespectsBatchSize(t *testing.T) {
	library := &fakeLibrary{items: []models.LibraryEntry{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}}

	poller := NewPoller(library, fakeResolver{}, nil, nil, PollerConfig{BackfillBatch: 2}, nil)
	report, err := poller.Backfill(context.Background())
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	if report.Checked != 2 {
		t.Fatalf("expected 2 checked entries, got %d", report.Checked)
	}
}

func TestPollerRunOnce_PurgesEachProvider(t *testing.T) {
	cache := metadata.NewMemoryCache()
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	old := metadata.CacheEntry{Status: metadata.CacheNotFound, Timestamp: now.Add(-8 * 24 * time.Hour)}
	fresh := metadata.CacheEntry{Status: metadata.CacheNotFound, Timestamp: now.Add(-time.Hour)}
	for _, provider := range []string{metadata.ProviderAniList, metadata.ProviderMangaDex} {
		if err := cache.Put(context.Background(), provider, "old", old); err != nil {
			t.Fatalf("seed cache: %v", err)
		}
		if err := cache.Put(context.Background(), provider, "fresh", fresh); err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}

	poller := NewPoller(&fakeLibrary{}, fakeResolver{}, cache, nil, PollerConfig{}, nil)
	poller.now = func() time.Time { return now }

	report, err := poller.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if report.Purged != 2 {
		t.Fatalf("expected 2 purged rows, got %d", report.Purged)
	}
}

func TestHasNewChapters(t *testing.T) {
	total := 12
	meta := models.ExternalMetadata{Chapters: &total}

	if !hasNewChapters(models.LibraryEntry{LastReadChapter: chapter("11.5")}, meta) {
		t.Fatalf("expected new chapters after 11.5")
	}
	if hasNewChapters(models.LibraryEntry{LastReadChapter: chapter("12")}, meta) {
		t.Fatalf("expected no new chapters at 12")
	}
	if hasNewChapters(models.LibraryEntry{}, meta) {
		t.Fatalf("expected no new chapters without reading progress")
	}
	if hasNewChapters(models.LibraryEntry{LastReadChapter: chapter("oneshot")}, meta) {
		t.Fatalf("expected unparseable progress to be ignored")
	}
}

var errStore = errors.New("store unavailable")
