package asurascans

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	cardSelector      = `a[href*="/series/"]:has(img), div.grid.grid-cols-12:has(a[href*="/series/"])`
	titleSelector     = `span.font-medium, a[href*="/series/"] span, h2, h3`
	linkSelector      = `a[href*="/series/"]`
	gridTitleSelector = `span.font-medium a, a[href*="/series/"]`
	nextSelector      = `a[href*="/chapter"]:has(svg[class*="right"]), button:has(svg[stroke*="next"]), .next-chapter`
	prevSelector      = `a[href*="/chapter"]:has(svg[class*="left"]), button:has(svg[stroke*="prev"]), .prev-chapter`
	exitSelector      = `a[href*="/series/"]:not([href*="/chapter"])`
)

var (
	readerPattern     = regexp.MustCompile(`(?i)/series/([^/]+)/chapter[/-]?([\d.-]+)`)
	titleSplitPattern = regexp.MustCompile(`(?i)\n|chapter`)
)

type Adapter struct {
	baseURL string
	hosts   []string
}

func NewAdapter() *Adapter {
	return &Adapter{
		baseURL: "https://asuracomic.net",
		hosts:   []string{"asuracomic.net", "asurascans.com", "asuratoon.com"},
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
	return "asurascans"
}

func (a *Adapter) Name() string {
	return "Asura Scans"
}

func (a *Adapter) Kind() string {
	return platform.KindNative
}

func (a *Adapter) Unit() platform.Unit {
	return platform.UnitChapter
}

func (a *Adapter) Prefix() string {
	return "asura:"
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

	var (
		title string
		link  string
		slug  string
	)

	anchor := card.First()
	if goquery.NodeName(anchor) != "a" {
		anchor = card.Find(linkSelector).First()
	}
	if anchor.Length() > 0 {
		link = platform.Href(anchor, a.baseURL)
		slug = extractSlug(link)

		titleEl := platform.FirstMatch(card, titleSelector)
		if titleEl == nil {
			titleEl = platform.FirstMatch(anchor, "span")
		}
		if titleEl == nil {
			titleEl = anchor
		}
		title = cleanTitle(titleEl.Text())
	}

	if title == "" && card.HasClass("grid") {
		if titleLink := platform.FirstMatch(card, gridTitleSelector); titleLink != nil {
			title = strings.TrimSpace(titleLink.Text())
			link = platform.Href(titleLink, a.baseURL)
			slug = extractSlug(link)
		}
	}

	record := &platform.CardRecord{ID: slug, Title: title, Slug: slug, URL: link}
	if link == "" || (title == "" && !record.Mergeable()) {
		return nil
	}
	return record
}

func (a *Adapter) ParseReaderURL(raw string) *platform.ReaderLocation {
	match := readerPattern.FindStringSubmatch(raw)
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
	return platform.BadgePosition{Bottom: "8px", Left: "8px"}
}

func (a *Adapter) BuildChapterURL(entry models.LibraryEntry, chapter float64) string {
	if entry.Slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/series/%s/chapter-%s", a.baseURL, entry.Slug, platform.FormatChapter(chapter))
}

func (a *Adapter) IsReaderPage(raw string) bool {
	return strings.Contains(raw, "/chapter")
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, _ string) string {
	return platform.Href(platform.FirstMatch(doc, exitSelector), a.baseURL)
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if loc := titleSplitPattern.FindStringIndex(title); loc != nil {
		title = title[:loc[0]]
	}
	return strings.TrimSpace(title)
}

func extractSlug(rawURL string) string {
	parts := platform.PathSegments(rawURL)
	for i, part := range parts {
		if part == "series" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
