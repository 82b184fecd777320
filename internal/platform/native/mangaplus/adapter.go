package mangaplus

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	cardSelector   = `a[href*="/titles/"]`
	titleSelector  = `h3, div[class*="TitleName"], p`
	coverSelector  = `div[class*="Cover"]`
	exitSelector   = `a[href*="/titles/"]`
	viewerFragment = "/viewer/"
)

var titleIDPattern = regexp.MustCompile(`/titles/(\d+)`)

// Adapter covers MANGA Plus. Cards are the title anchors themselves and the
// viewer exposes no chapter navigation controls.
type Adapter struct {
	baseURL string
	hosts   []string
}

func NewAdapter() *Adapter {
	return &Adapter{
		baseURL: "https://mangaplus.shueisha.co.jp",
		hosts:   []string{"mangaplus.shueisha.co.jp"},
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
	return "mangaplus"
}

func (a *Adapter) Name() string {
	return "MangaPlus"
}

func (a *Adapter) Kind() string {
	return platform.KindNative
}

func (a *Adapter) Unit() platform.Unit {
	return platform.UnitChapter
}

func (a *Adapter) Prefix() string {
	return "mp:"
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
	anchor := platform.SelfOrFind(card, cardSelector)
	if anchor == nil {
		return nil
	}

	link := platform.Href(anchor, a.baseURL)
	id := ExtractTitleID(link)
	title := platform.Text(platform.FirstMatch(card, titleSelector))

	record := &platform.CardRecord{ID: id, Title: title, Slug: id, URL: link}
	if link == "" || (title == "" && !record.Mergeable()) {
		return nil
	}
	return record
}

func ExtractTitleID(rawURL string) string {
	match := titleIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// ParseReaderURL yields only the title id; chapter ids on this site are
// opaque and do not map to chapter numbers.
func (a *Adapter) ParseReaderURL(rawURL string) *platform.ReaderLocation {
	id := ExtractTitleID(rawURL)
	if id == "" {
		return nil
	}
	return &platform.ReaderLocation{SeriesID: id}
}

func (a *Adapter) ApplyStatusBorder(card *goquery.Selection, color string, widthPx int, style string) {
	if card == nil || card.Length() == 0 {
		return
	}
	target := platform.FirstMatch(card, coverSelector)
	if target == nil {
		target = card
	}
	platform.PaintBorder(target, platform.BorderSpec{
		Width:     widthPx,
		Style:     style,
		Color:     color,
		Radius:    "4px",
		BoxSizing: true,
		Relative:  true,
	})
}

func (a *Adapter) NavigateNextUnit(*goquery.Selection) platform.NavAction {
	return platform.NavAction{}
}

func (a *Adapter) NavigatePrevUnit(*goquery.Selection) platform.NavAction {
	return platform.NavAction{}
}

func (a *Adapter) BadgePosition() platform.BadgePosition {
	return platform.BadgePosition{Top: "4px", Right: "4px"}
}

func (a *Adapter) BuildChapterURL(models.LibraryEntry, float64) string {
	return ""
}

func (a *Adapter) IsReaderPage(rawURL string) bool {
	return strings.Contains(rawURL, viewerFragment)
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, _ string) string {
	return platform.Href(platform.FirstMatch(doc, exitSelector), a.baseURL)
}
