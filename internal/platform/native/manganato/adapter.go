package manganato

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	cardSelector = `.content-genres-item, .list-truyen-item-wrap, .sh`
	linkSelector = `h3 a, a.genres-item-name`
	nextSelector = `.navi-change-chapter-btn-next`
	prevSelector = `.navi-change-chapter-btn-prev`
)

var readerPattern = regexp.MustCompile(`/([^/]+)/chapter-([\d.-]+)`)

type Adapter struct {
	baseURL string
	hosts   []string
}

func NewAdapter() *Adapter {
	return &Adapter{
		baseURL: "https://manganato.com",
		hosts:   []string{"manganato.com", "chapmanganato.com"},
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
	return "manganato"
}

func (a *Adapter) Name() string {
	return "Manganato"
}

func (a *Adapter) Kind() string {
	return platform.KindNative
}

func (a *Adapter) Unit() platform.Unit {
	return platform.UnitChapter
}

func (a *Adapter) Prefix() string {
	return "manganato:"
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

	anchor := platform.FirstMatch(card, linkSelector)
	if anchor == nil && goquery.NodeName(card.First()) == "a" {
		anchor = card.First()
	}
	if anchor == nil {
		return nil
	}

	title := platform.Attr(anchor, "title")
	if title == "" {
		title = platform.Text(anchor)
	}
	link := platform.Href(anchor, a.baseURL)
	slug := firstSegment(link)

	record := &platform.CardRecord{ID: slug, Title: title, Slug: slug, URL: link}
	if link == "" || (title == "" && !record.Mergeable()) {
		return nil
	}
	return record
}

func firstSegment(rawURL string) string {
	segments := platform.PathSegments(rawURL)
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

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
	platform.PaintBorder(card, platform.BorderSpec{
		Width:     widthPx,
		Style:     style,
		Color:     color,
		Radius:    "5px",
		BoxSizing: true,
		Relative:  true,
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
	segments := platform.PathSegments(rawURL)
	for _, segment := range segments {
		if strings.Contains(segment, "chapter-") {
			return true
		}
	}
	return false
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, _ string) string {
	return platform.Href(platform.FirstMatch(doc, ".panel-breadcrumb a:last-child", `a[href*="/manga-"]`), a.baseURL)
}
