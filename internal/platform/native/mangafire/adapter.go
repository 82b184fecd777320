package mangafire

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	cardSelector  = `.unit, .swiper-slide, #top-trending .swiper-slide`
	linkSelector  = `a[href*="/manga/"]`
	nextSelector  = `a.btn-next, .chapter-nav .next, [data-direction="next"]`
	prevSelector  = `a.btn-prev, .chapter-nav .prev, [data-direction="prev"]`
	exitSelector  = `a.manga-link, a[href*="/manga/"]`
	slideClass    = "swiper-slide"
	slideInnerSel = ".swiper-inner"
)

var (
	slugPattern   = regexp.MustCompile(`/manga/([^/?#]+)`)
	readerPattern = regexp.MustCompile(`/read/([^/]+)/(?:[^/]+/)?chapter-([^/?#]+)`)
)

type Adapter struct {
	baseURL string
	hosts   []string
}

func NewAdapter() *Adapter {
	return &Adapter{
		baseURL: "https://mangafire.to",
		hosts:   []string{"mangafire.to"},
	}
}

func NewAdapterWithOptions(baseURL string, hosts []string) *Adapter {
	adapter := NewAdapter()
	if strings.TrimSpace(baseURL) != "" {
		adapter.baseURL = strings.TrimRight(baseURL, "/")
	}
	if len(hosts) > 0 {
		adapter.hosts = hosts
	}
	return adapter
}

func (a *Adapter) ID() string {
	return "mangafire"
}

func (a *Adapter) Name() string {
	return "MangaFire"
}

func (a *Adapter) Kind() string {
	return platform.KindNative
}

func (a *Adapter) Unit() platform.Unit {
	return platform.UnitChapter
}

// Prefix is empty: history keys for this site predate namespacing.
func (a *Adapter) Prefix() string {
	return ""
}

func (a *Adapter) Hosts() []string {
	return a.hosts
}

func (a *Adapter) CardSelector() string {
	return cardSelector
}

func (a *Adapter) MatchesURL(rawURL string) bool {
	return platform.MatchesHosts(rawURL, a.hosts)
}

func (a *Adapter) ExtractCardData(card *goquery.Selection) *platform.CardRecord {
	if card == nil || card.Length() == 0 {
		return nil
	}

	title := platform.Text(platform.FirstMatch(card, ".info a", ".info h6 a", ".above a"))

	var link, slug string
	if anchor := platform.FirstMatch(card, linkSelector); anchor != nil {
		link = platform.Href(anchor, a.baseURL)
		slug = ExtractSlug(link)
	}

	record := &platform.CardRecord{ID: slug, Title: title, Slug: slug, URL: link}
	if link == "" || (title == "" && !record.Mergeable()) {
		return nil
	}
	return record
}

func ExtractSlug(rawURL string) string {
	match := slugPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// ParseReaderURL handles /read/{slug}.{id}/{lang}/chapter-{n}. The series id
// keeps the ".{id}" suffix so it lines up with the slug taken from cards.
func (a *Adapter) ParseReaderURL(rawURL string) *platform.ReaderLocation {
	match := readerPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return nil
	}
	return &platform.ReaderLocation{
		SeriesID: match[1],
		Slug:     match[1],
		Chapter:  platform.ParseLeadingFloat(match[2]),
	}
}

func (a *Adapter) ApplyStatusBorder(card *goquery.Selection, color string, widthPx int, style string) {
	if card == nil || card.Length() == 0 {
		return
	}

	if card.HasClass(slideClass) {
		inner := platform.FirstMatch(card, slideInnerSel)
		if inner == nil {
			inner = card
		}
		platform.PaintBorder(inner, platform.BorderSpec{
			Property: "border-left",
			Width:    widthPx,
			Style:    style,
			Color:    color,
		})
		return
	}

	target := card.Closest("li")
	if target.Length() == 0 {
		target = card
	}
	platform.PaintBorder(target, platform.BorderSpec{
		Width:     widthPx,
		Style:     style,
		Color:     color,
		Radius:    "8px",
		BoxSizing: true,
	})
}

func (a *Adapter) NavigateNextUnit(doc *goquery.Selection) platform.NavAction {
	return platform.Click(platform.FirstMatch(doc, nextSelector), a.baseURL)
}

func (a *Adapter) NavigatePrevUnit(doc *goquery.Selection) platform.NavAction {
	return platform.Click(platform.FirstMatch(doc, prevSelector), a.baseURL)
}

func (a *Adapter) BadgePosition() platform.BadgePosition {
	return platform.BadgePosition{Bottom: "4px", Left: "4px"}
}

func (a *Adapter) BuildChapterURL(models.LibraryEntry, float64) string {
	return ""
}

func (a *Adapter) IsReaderPage(rawURL string) bool {
	return strings.Contains(rawURL, "/read/")
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, _ string) string {
	return platform.Href(platform.FirstMatch(doc, exitSelector), a.baseURL)
}
