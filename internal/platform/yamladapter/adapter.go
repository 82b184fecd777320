package yamladapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
)

// Adapter is a selector-driven platform adapter described by a YAML file.
// It covers sites whose markup fits the card/link/title shape without
// custom code.
type Adapter struct {
	config Config
}

func NewAdapter(cfg Config) (*Adapter, error) {
	if err := cfg.normalizeAndValidate(); err != nil {
		return nil, err
	}
	return &Adapter{config: cfg}, nil
}

func (a *Adapter) ID() string {
	return a.config.ID
}

func (a *Adapter) Name() string {
	return a.config.Name
}

func (a *Adapter) Kind() string {
	return platform.KindYAML
}

func (a *Adapter) Unit() platform.Unit {
	return platform.Unit(a.config.Unit)
}

func (a *Adapter) Prefix() string {
	return a.config.Prefix
}

func (a *Adapter) Hosts() []string {
	return a.config.Hosts
}

func (a *Adapter) CardSelector() string {
	return a.config.Selectors.Card
}

func (a *Adapter) MatchesURL(rawURL string) bool {
	return platform.MatchesHosts(rawURL, a.config.Hosts)
}

func (a *Adapter) ExtractCardData(card *goquery.Selection) *platform.CardRecord {
	anchor := platform.SelfOrFind(card, a.config.Selectors.Link)
	if anchor == nil {
		return nil
	}

	link := platform.Href(anchor, a.config.BaseURL)

	title := ""
	if len(a.config.Selectors.Title) > 0 {
		title = platform.Text(platform.FirstMatch(card, a.config.Selectors.Title...))
	}
	if title == "" {
		title = platform.Attr(anchor, "title")
	}
	if title == "" {
		title = platform.Text(anchor)
	}

	slug := a.slugFromURL(link)
	record := &platform.CardRecord{ID: slug, Title: title, Slug: slug, URL: link}
	if link == "" || (title == "" && !record.Mergeable()) {
		return nil
	}
	return record
}

func (a *Adapter) slugFromURL(link string) string {
	if a.config.slugPattern != nil {
		if match := a.config.slugPattern.FindStringSubmatch(link); match != nil {
			return match[1]
		}
		return ""
	}
	segments := platform.PathSegments(link)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func (a *Adapter) ParseReaderURL(rawURL string) *platform.ReaderLocation {
	if a.config.readerPattern == nil {
		return nil
	}
	match := a.config.readerPattern.FindStringSubmatch(rawURL)
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
	var target *goquery.Selection
	if a.config.Selectors.BorderTarget != "" {
		target = platform.FirstMatch(card, a.config.Selectors.BorderTarget)
	}
	if target == nil {
		target = card
	}
	platform.PaintBorder(target, platform.BorderSpec{
		Width:     widthPx,
		Style:     style,
		Color:     color,
		Radius:    a.config.Border.Radius,
		BoxSizing: a.config.boxSizing(),
		Relative:  a.config.Border.Relative,
	})
}

func (a *Adapter) NavigateNextUnit(doc *goquery.Selection) platform.NavAction {
	return platform.Click(platform.FirstMatch(doc, a.config.Selectors.Next...), a.config.BaseURL)
}

func (a *Adapter) NavigatePrevUnit(doc *goquery.Selection) platform.NavAction {
	return platform.Click(platform.FirstMatch(doc, a.config.Selectors.Prev...), a.config.BaseURL)
}

func (a *Adapter) BadgePosition() platform.BadgePosition {
	return a.config.Badge
}

// BuildChapterURL expands the chapter_url template. Supported placeholders
// are {base}, {slug}, {id} and {chapter}.
func (a *Adapter) BuildChapterURL(entry models.LibraryEntry, chapter float64) string {
	template := a.config.Patterns.ChapterURL
	if template == "" || entry.Slug == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		"{base}", a.config.BaseURL,
		"{slug}", entry.Slug,
		"{id}", entry.SourceID,
		"{chapter}", platform.FormatChapter(chapter),
	)
	return replacer.Replace(template)
}

func (a *Adapter) IsReaderPage(rawURL string) bool {
	if a.config.Patterns.ReaderPage != "" {
		return strings.Contains(rawURL, a.config.Patterns.ReaderPage)
	}
	return a.ParseReaderURL(rawURL) != nil
}

func (a *Adapter) ExitReaderURL(doc *goquery.Selection, _ string) string {
	return platform.Href(platform.FirstMatch(doc, a.config.Selectors.Exit...), a.config.BaseURL)
}
