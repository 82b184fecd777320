package platform_test

import (
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

type fakeAdapter struct {
	id     string
	prefix string
	hosts  []string
}

func (f *fakeAdapter) ID() string {
	return f.id
}

func (f *fakeAdapter) Name() string {
	return f.id
}

func (f *fakeAdapter) Kind() string {
	return platform.KindNative
}

func (f *fakeAdapter) Unit() platform.Unit {
	return platform.UnitChapter
}

func (f *fakeAdapter) Prefix() string {
	return f.prefix
}

func (f *fakeAdapter) Hosts() []string {
	return f.hosts
}

func (f *fakeAdapter) CardSelector() string {
	return ".card"
}

func (f *fakeAdapter) MatchesURL(rawURL string) bool {
	return platform.MatchesHosts(rawURL, f.hosts)
}

func (f *fakeAdapter) ExtractCardData(*goquery.Selection) *platform.CardRecord {
	return nil
}

func (f *fakeAdapter) ParseReaderURL(string) *platform.ReaderLocation {
	return nil
}

func (f *fakeAdapter) ApplyStatusBorder(*goquery.Selection, string, int, string) {}

func (f *fakeAdapter) NavigateNextUnit(*goquery.Selection) platform.NavAction {
	return platform.NavAction{}
}

func (f *fakeAdapter) NavigatePrevUnit(*goquery.Selection) platform.NavAction {
	return platform.NavAction{}
}

func (f *fakeAdapter) BadgePosition() platform.BadgePosition {
	return platform.BadgePosition{}
}

func (f *fakeAdapter) BuildChapterURL(models.LibraryEntry, float64) string {
	return ""
}

func (f *fakeAdapter) IsReaderPage(string) bool {
	return false
}

func (f *fakeAdapter) ExitReaderURL(*goquery.Selection, string) string {
	return ""
}

func TestRegistryRegisterAndList(t *testing.T) {
	r := platform.NewRegistry()

	if err := r.Register(&fakeAdapter{id: "b", hosts: []string{"b.example"}}); err != nil {
		t.Fatalf("register b: %v", err)
	}
	if err := r.Register(&fakeAdapter{id: "A", hosts: []string{"a.example"}}); err != nil {
		t.Fatalf("register a: %v", err)
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(list))
	}
	if list[0].ID != "A" || list[1].ID != "b" {
		t.Fatalf("expected sorted ids A,b got %s,%s", list[0].ID, list[1].ID)
	}

	ordered := r.Ordered()
	if ordered[0].ID() != "b" || ordered[1].ID() != "A" {
		t.Fatalf("expected registration order b,A")
	}

	if _, ok := r.Get(" a "); !ok {
		t.Fatalf("expected lookup to ignore case and whitespace")
	}
}

func TestRegistryRejectsInvalidAdapters(t *testing.T) {
	r := platform.NewRegistry()

	if err := r.Register(nil); err == nil {
		t.Fatalf("expected nil adapter error")
	}
	if err := r.Register(&fakeAdapter{id: "  "}); err == nil {
		t.Fatalf("expected empty id error")
	}
	if err := r.Register(&fakeAdapter{id: "dup"}); err != nil {
		t.Fatalf("register dup: %v", err)
	}
	err := r.Register(&fakeAdapter{id: "DUP"})
	if !errors.Is(err, platform.ErrDuplicateAdapter) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestDetectCurrentPlatformPrefersFirstRegistered(t *testing.T) {
	r := platform.NewRegistry()
	_ = r.Register(&fakeAdapter{id: "first", hosts: []string{"shared.example"}})
	_ = r.Register(&fakeAdapter{id: "second", hosts: []string{"shared.example", "other.example"}})

	tests := []struct {
		url  string
		want string
	}{
		{url: "https://shared.example/series/1", want: "first"},
		{url: "https://www.shared.example/", want: "first"},
		{url: "https://other.example/read/2", want: "second"},
		{url: "https://unrelated.example/", want: ""},
		{url: "not a url", want: ""},
	}

	for _, tc := range tests {
		adapter := r.DetectCurrentPlatform(tc.url)
		got := ""
		if adapter != nil {
			got = adapter.ID()
		}
		if got != tc.want {
			t.Fatalf("DetectCurrentPlatform(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestInferSourceAndPrefixes(t *testing.T) {
	r := platform.NewRegistry()
	_ = r.Register(&fakeAdapter{id: "asurascans", prefix: "asura:", hosts: []string{"asuracomic.net"}})
	_ = r.Register(&fakeAdapter{id: "mangafire", hosts: []string{"mangafire.to"}})

	if got := r.InferSource("https://asuracomic.net/series/x"); got != "asurascans" {
		t.Fatalf("unexpected source %q", got)
	}
	if got := r.InferSource("https://example.com/"); got != models.UnknownSource {
		t.Fatalf("expected unknown source, got %q", got)
	}

	prefixes := r.Prefixes()
	if len(prefixes) != 1 || prefixes["asura:"] != "asurascans" {
		t.Fatalf("unexpected prefixes %+v", prefixes)
	}
}
