package platform

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/bmh/internal/models"
)

const (
	KindNative = "native"
	KindYAML   = "yaml"
)

type Unit string

const (
	UnitChapter Unit = "chapter"
	UnitEpisode Unit = "episode"
)

// CardRecord is extracted fresh on every scan and never persisted.
type CardRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	ID    string `json:"id"`
	Slug  string `json:"slug"`
}

// Mergeable reports whether the record carries enough identity to be
// matched against stored entries.
func (r *CardRecord) Mergeable() bool {
	return r != nil && (r.ID != "" || r.Slug != "")
}

type ReaderLocation struct {
	SeriesID string   `json:"seriesId,omitempty"`
	Slug     string   `json:"slug,omitempty"`
	Chapter  *float64 `json:"chapterNumber"`
}

type BadgePosition struct {
	Top    string `json:"top,omitempty"`
	Right  string `json:"right,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
}

type NavAction struct {
	Found bool   `json:"found"`
	Href  string `json:"href,omitempty"`
}

type Adapter interface {
	ID() string
	Name() string
	Kind() string
	Unit() Unit
	Prefix() string
	Hosts() []string
	CardSelector() string

	MatchesURL(rawURL string) bool
	ExtractCardData(card *goquery.Selection) *CardRecord
	ParseReaderURL(rawURL string) *ReaderLocation
	ApplyStatusBorder(card *goquery.Selection, color string, widthPx int, style string)
	NavigateNextUnit(doc *goquery.Selection) NavAction
	NavigatePrevUnit(doc *goquery.Selection) NavAction

	BadgePosition() BadgePosition
	BuildChapterURL(entry models.LibraryEntry, chapter float64) string
	IsReaderPage(rawURL string) bool
	ExitReaderURL(doc *goquery.Selection, currentURL string) string
}
