package mangadex

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	cardSelector       = `.manga-card, .hchaptercard, [class*="chapter-feed__container"]`
	linkSelector       = `a[href*="/title/"]`
	chapterCardTitle   = `a[href*="/title/"] h6`
	coverSelector      = `.manga-card-cover`
	hchapterCardClass  = "hchaptercard"
	exitReaderSelector = `a[href*="/title/"]`
)

var uuidPattern = regexp.MustCompile(`(?i)/(title|chapter)/([a-f0-9-]{36})`)

// Adapter covers mangadex.org listing cards. Reader pages are a SPA with no
// chapter number in the URL, so ParseReaderURL never matches.
type Adapter struct {
	baseURL string
	hosts   []string
}

func NewAdapter() *Adapter {
	return &Adapter{
		baseURL: "https://mangadex.org",
		hosts:   []string{"mangadex.org"},
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
	return "mangadex"
}

func (a *Adapter) Name() string {
	return "MangaDex"
}

func (a *Adapter) Kind() string {
	return platform.KindNative
}

func (a *Adapter) Unit() platform.Unit {
	return platform.UnitChapter
}

func (a *Adapter) Prefix() string {
	return "mangadex:"
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
	if anchor == nil {
		return nil
	}

	link := platform.Href(anchor, a.baseURL)
	id := ExtractUUID(link)

	var titleEl *goquery.Selection
	if card.HasClass(hchapterCardClass) {
		titleEl = platform.FirstMatch(card, chapterCardTitle)
	} else {
		titleEl = platform.FirstMatch(card, "a.title span", "a.title", `[class*="title"]`)
	}
	title := platform.Text(titleEl)

	record := &platform.CardRecord{ID: id, Title: title, Slug: platform.Slugify(title), URL: link}
	if link == "" || !record.Mergeable() {
		return nil
	}
	return record
}

func ExtractUUID(rawURL string) string {
	match := uuidPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[2]
}

func (a *Adapter) ParseReaderURL(string) *platform.ReaderLocation {
	return nil
}

func (a *Adapter) ApplyStatusBorder(card *goquery.Selection, color string, widthPx int, style string) {
	if card == nil || card.Length() == 0 {
		return
	}

	var target *goquery.Selection
	if card.HasClass(hchapterCardClass) {
		target = platform.FirstMatch(card, linkSelector)
	} else {
		target = platform.FirstMatch(card, coverSelector)
	}
	if target == nil {
		target = card
	}

	platform.PaintBorder(target, platform.BorderSpec{
		Width:     widthPx,
		Style:     style,
		Color:     color,
		Radius:    "8px",
		BoxSizing: true,
		Relative:  true,
	})
}

func (a *Adapter) NavigateNextUnit(doc *goquery.Selection) platform.NavAction {
	return platform.ClickAnchorWithText(doc, a.baseURL, "Next", "next")
}

func (a *Adapter) NavigatePrevUnit(doc *goquery.Selection) platform.NavAction {
	return platform.ClickAnchorWithText(doc, a.baseURL, "Previous", "Prev")
}

func (a *Adapter) BadgePosition() platform.BadgePosition {
	return platform.BadgePosition{Bottom: "4px", Left: "4px"}
}

func (a *Adapter) BuildChapterURL(models.LibraryEntry, float64) string {
	return ""
}

func (a *Adapter) IsReaderPage(rawURL string) bool {
	return strings.Contains(rawURL, "/chapter/")
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, _ string) string {
	return platform.Href(platform.FirstMatch(doc, exitReaderSelector), a.baseURL)
}
