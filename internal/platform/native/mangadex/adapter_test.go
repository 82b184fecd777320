package mangadex

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/platform"
)

const towerOfGodID = "57e1d491-1dc9-4854-83bf-7a9379566fb2"

func mustDocument(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestMangaDexExtractCardData(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `
<div class="manga-card">
  <a href="/title/`+towerOfGodID+`/tower-of-god"><div class="manga-card-cover"></div></a>
  <a class="title" href="/title/`+towerOfGodID+`"><span>Tower of God</span></a>
</div>`)

	record := adapter.ExtractCardData(doc.Find(".manga-card"))
	if record == nil {
		t.Fatalf("expected card record")
	}
	if record.ID != towerOfGodID {
		t.Fatalf("unexpected id %q", record.ID)
	}
	if record.Title != "Tower of God" || record.Slug != "tower-of-god" {
		t.Fatalf("unexpected title=%q slug=%q", record.Title, record.Slug)
	}
	if record.URL != "https://mangadex.org/title/"+towerOfGodID+"/tower-of-god" {
		t.Fatalf("unexpected url %q", record.URL)
	}
}

func TestMangaDexExtractChapterCardTitle(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `
<div class="hchaptercard">
  <a href="/title/`+towerOfGodID+`"><h6>Tower of God</h6></a>
  <a href="/chapter/0a3bcbd1-57f3-4b55-a04c-c0ff1bd5d7a2">Ch. 600</a>
</div>`)

	record := adapter.ExtractCardData(doc.Find(".hchaptercard"))
	if record == nil || record.Title != "Tower of God" || record.ID != towerOfGodID {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestMangaDexExtractCardDataRequiresTitleLink(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `<div class="manga-card"><span class="title">Orphan</span></div>`)

	if record := adapter.ExtractCardData(doc.Find(".manga-card")); record != nil {
		t.Fatalf("expected nil record, got %+v", record)
	}
}

func TestExtractUUID(t *testing.T) {
	tests := map[string]string{
		"https://mangadex.org/title/" + towerOfGodID + "/tower-of-god": towerOfGodID,
		"/chapter/" + strings.ToUpper(towerOfGodID):                    strings.ToUpper(towerOfGodID),
		"https://mangadex.org/titles/latest":                           "",
	}
	for raw, want := range tests {
		if got := ExtractUUID(raw); got != want {
			t.Fatalf("ExtractUUID(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestMangaDexParseReaderURLNeverMatches(t *testing.T) {
	adapter := NewAdapter()
	if location := adapter.ParseReaderURL("https://mangadex.org/chapter/" + towerOfGodID + "/1"); location != nil {
		t.Fatalf("expected nil location, got %+v", location)
	}
}

func TestMangaDexApplyStatusBorderTargetsCover(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `<div class="manga-card"><a href="/title/`+towerOfGodID+`"><div class="manga-card-cover"></div></a></div>`)
	card := doc.Find(".manga-card")

	adapter.ApplyStatusBorder(card, "#60a5fa", 4, "dashed")
	adapter.ApplyStatusBorder(card, "#60a5fa", 4, "dashed")

	cover := doc.Find(".manga-card-cover")
	if got := platform.StyleValue(cover, "border"); got != "4px dashed #60a5fa" {
		t.Fatalf("unexpected cover border %q", got)
	}
	if got := platform.StyleValue(cover, "position"); got != "relative" {
		t.Fatalf("expected relative positioning, got %q", got)
	}
	if _, ok := card.Attr("style"); ok {
		t.Fatalf("expected card itself untouched")
	}
	style, _ := cover.Attr("style")
	if strings.Count(style, "border:") != 1 {
		t.Fatalf("expected one border declaration, got %q", style)
	}
}

func TestMangaDexNavigationByAnchorText(t *testing.T) {
	adapter := NewAdapter()
	doc := mustDocument(t, `<div><a href="/chapter/a">Previous chapter</a><a href="/chapter/b">Next chapter</a></div>`)

	next := adapter.NavigateNextUnit(doc.Selection)
	if !next.Found || next.Href != "https://mangadex.org/chapter/b" {
		t.Fatalf("unexpected next action %+v", next)
	}
	prev := adapter.NavigatePrevUnit(doc.Selection)
	if !prev.Found || prev.Href != "https://mangadex.org/chapter/a" {
		t.Fatalf("unexpected prev action %+v", prev)
	}

	empty := mustDocument(t, `<div><a href="/">Home</a></div>`)
	if action := adapter.NavigateNextUnit(empty.Selection); action.Found {
		t.Fatalf("expected no next control, got %+v", action)
	}
}
