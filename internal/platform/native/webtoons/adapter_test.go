package webtoons

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

func mustDocument(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestWebtoonsExtractCardData(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `
<ul><li>
  <a class="card_item _title_a" href="https://www.webtoons.com/en/fantasy/tower-of-god/list?title_no=95">
    <div class="info"><p class="subj">Tower of God</p></div>
  </a>
</li></ul>`)

	record := adapter.ExtractCardData(doc.Find(adapter.CardSelector()))
	if record == nil {
		t.Fatalf("expected card record")
	}
	if record.ID != "95" || record.Slug != "tower-of-god" || record.Title != "Tower of God" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestWebtoonsExtractCardDataTitleAttribute(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `<ul><li><a class="_title_a" title="Lore Olympus" href="/en/romance/lore-olympus/list?title_no=1320"></a></li></ul>`)

	record := adapter.ExtractCardData(doc.Find("li"))
	if record == nil || record.Title != "Lore Olympus" || record.ID != "1320" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.URL != "https://www.webtoons.com/en/romance/lore-olympus/list?title_no=1320" {
		t.Fatalf("unexpected url %q", record.URL)
	}
}

func TestWebtoonsParseReaderURL(t *testing.T) {
	adapter := NewAdapter()

	location := adapter.ParseReaderURL("https://www.webtoons.com/en/fantasy/tower-of-god/season-3-ep-133/viewer?title_no=95&episode_no=550")
	if location == nil {
		t.Fatalf("expected location")
	}
	if location.SeriesID != "95" || location.Slug != "tower-of-god" {
		t.Fatalf("unexpected identity %+v", location)
	}
	if location.Chapter == nil || *location.Chapter != 550 {
		t.Fatalf("unexpected episode %v", location.Chapter)
	}

	if adapter.ParseReaderURL("https://www.webtoons.com/en/fantasy/tower-of-god/list?title_no=95") != nil {
		t.Fatalf("expected list page without episode_no to be nil")
	}
}

func TestWebtoonsBuildChapterURL(t *testing.T) {
	adapter := NewAdapter()
	entry := models.LibraryEntry{SourceURL: "https://www.webtoons.com/en/fantasy/tower-of-god/list?title_no=95"}

	got := adapter.BuildChapterURL(entry, 551)
	want := "https://www.webtoons.com/en/fantasy/tower-of-god/viewer?episode_no=551&title_no=95"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if adapter.BuildChapterURL(models.LibraryEntry{SourceURL: "https://www.webtoons.com/en/"}, 1) != "" {
		t.Fatalf("expected empty url for non-list source")
	}
}

func TestWebtoonsExitReaderURL(t *testing.T) {
	adapter := NewAdapter()
	current := "https://www.webtoons.com/en/fantasy/tower-of-god/ep-1/viewer?title_no=95&episode_no=1"

	doc := mustDocument(t, `<a id="detail_list_btn" href="/en/fantasy/tower-of-god/list?title_no=95">List</a>`)
	if got := adapter.ExitReaderURL(doc.Selection, current); got != "https://www.webtoons.com/en/fantasy/tower-of-god/list?title_no=95" {
		t.Fatalf("unexpected exit url %q", got)
	}

	got := adapter.ExitReaderURL(mustDocument(t, `<p></p>`).Selection, current)
	if got != "https://www.webtoons.com/en/fantasy/tower-of-god/ep-1/list?title_no=95" {
		t.Fatalf("unexpected rewritten exit url %q", got)
	}
}

func TestWebtoonsNavigationAndBorder(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `
<ul><li id="row"><a class="_title_a" href="/en/a/b/list?title_no=1">B</a></li></ul>
<a class="pg_prev" href="/en/a/b/ep/viewer?title_no=1&episode_no=1">prev</a>
<a class="pg_next" href="/en/a/b/ep/viewer?title_no=1&episode_no=3">next</a>`)

	if next := adapter.NavigateNextUnit(doc.Selection); !next.Found || !strings.Contains(next.Href, "episode_no=3") {
		t.Fatalf("unexpected next action %+v", next)
	}
	if prev := adapter.NavigatePrevUnit(doc.Selection); !prev.Found || !strings.Contains(prev.Href, "episode_no=1") {
		t.Fatalf("unexpected prev action %+v", prev)
	}

	adapter.ApplyStatusBorder(doc.Find("a._title_a"), "#4ade80", 4, "solid")
	if got := platform.StyleValue(doc.Find("#row"), "border"); got != "4px solid #4ade80" {
		t.Fatalf("expected border on list row, got %q", got)
	}
	if adapter.Unit() != platform.UnitEpisode {
		t.Fatalf("expected episode unit")
	}
}
