package webtoons

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

const (
	cardSelector = `li:has(a[class*="_title_a"])`
	linkSelector = `a[class*="_title_a"], a.link`
)

var (
	titleSelectors = []string{".title", ".subj", "p.subj", ".info .subj", ".info_area .subj"}
	slugPattern    = regexp.MustCompile(`/(?:webtoon|challenge)/([^/]+)`)
)

type Adapter struct {
	baseURL string
	hosts   []string
}

func NewAdapter() *Adapter {
	return &Adapter{
		baseURL: "https://www.webtoons.com",
		hosts:   []string{"www.webtoons.com", "webtoons.com"},
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
	return "webtoons"
}

func (a *Adapter) Name() string {
	return "Webtoons"
}

func (a *Adapter) Kind() string {
	return platform.KindNative
}

func (a *Adapter) Unit() platform.Unit {
	return platform.UnitEpisode
}

func (a *Adapter) Prefix() string {
	return "webtoon:"
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

type urlInfo struct {
	titleNo   string
	slug      string
	episodeNo string
}

func extractInfo(rawURL string) urlInfo {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || rawURL == "" {
		return urlInfo{}
	}

	info := urlInfo{
		titleNo:   parsed.Query().Get("title_no"),
		episodeNo: parsed.Query().Get("episode_no"),
	}
	if match := slugPattern.FindStringSubmatch(parsed.Path); match != nil {
		info.slug = match[1]
	} else if segments := platform.PathSegments(parsed.String()); len(segments) >= 3 {
		// /{lang}/{genre}/{slug}/list
		info.slug = segments[2]
	}
	return info
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

	link := platform.Href(anchor, a.baseURL)
	info := extractInfo(link)

	title := platform.Text(platform.FirstMatch(card, titleSelectors...))
	if title == "" {
		title = platform.Attr(anchor, "title")
	}

	record := &platform.CardRecord{ID: info.titleNo, Title: title, Slug: info.slug, URL: link}
	if link == "" || (title == "" && !record.Mergeable()) {
		return nil
	}
	return record
}

// ParseReaderURL only matches viewer URLs carrying an episode_no.
func (a *Adapter) ParseReaderURL(rawURL string) *platform.ReaderLocation {
	info := extractInfo(rawURL)
	if info.episodeNo == "" {
		return nil
	}
	return &platform.ReaderLocation{
		SeriesID: info.titleNo,
		Slug:     info.slug,
		Chapter:  platform.ParseLeadingFloat(info.episodeNo),
	}
}

func (a *Adapter) ApplyStatusBorder(card *goquery.Selection, color string, widthPx int, style string) {
	if card == nil || card.Length() == 0 {
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
		Relative:  true,
	})
}

func (a *Adapter) NavigateNextUnit(doc *goquery.Selection) platform.NavAction {
	return platform.Click(platform.FirstMatch(doc, ".pg_next", "a.next"), a.baseURL)
}

func (a *Adapter) NavigatePrevUnit(doc *goquery.Selection) platform.NavAction {
	return platform.Click(platform.FirstMatch(doc, ".pg_prev", "a.prev"), a.baseURL)
}

func (a *Adapter) BadgePosition() platform.BadgePosition {
	return platform.BadgePosition{Bottom: "4px", Left: "4px"}
}

func (a *Adapter) BuildChapterURL(entry models.LibraryEntry, chapter float64) string {
	if entry.SourceURL == "" {
		return ""
	}
	parsed, err := url.Parse(entry.SourceURL)
	if err != nil || !strings.HasSuffix(parsed.Path, "/list") {
		return ""
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/list") + "/viewer"
	query := parsed.Query()
	query.Set("episode_no", platform.FormatChapter(chapter))
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func (a *Adapter) IsReaderPage(rawURL string) bool {
	return strings.Contains(rawURL, "episode_no") || strings.Contains(rawURL, "/viewer")
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, currentURL string) string {
	if href := platform.Href(platform.FirstMatch(doc, "#detail_list_btn", `a[href*="/list"]`), a.baseURL); href != "" {
		return href
	}
	parsed, err := url.Parse(currentURL)
	if err != nil || currentURL == "" {
		return ""
	}
	parsed.Path = strings.Replace(parsed.Path, "/viewer", "/list", 1)
	query := parsed.Query()
	query.Del("episode_no")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
