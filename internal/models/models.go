package models

import "time"

type Status string

const (
	StatusReading    Status = "Reading"
	StatusCompleted  Status = "Completed"
	StatusDropped    Status = "Dropped"
	StatusPlanToRead Status = "Plan to Read"
	StatusOnHold     Status = "On-Hold"
	StatusRereading  Status = "Re-reading"
)

var KnownStatuses = []Status{
	StatusReading,
	StatusCompleted,
	StatusDropped,
	StatusPlanToRead,
	StatusOnHold,
	StatusRereading,
}

const UnknownSource = "unknown"

type LibraryEntry struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug,omitempty"`
	Status          Status            `json:"status"`
	DateAdded       time.Time         `json:"dateAdded"`
	Source          string            `json:"source"`
	SourceID        string            `json:"sourceId,omitempty"`
	SourceURL       string            `json:"sourceUrl,omitempty"`
	LastReadChapter *string           `json:"lastReadChapter"`
	LastReadDate    *time.Time        `json:"lastReadDate"`
	ReadChapters    int               `json:"readChapters"`
	TotalChapters   *int              `json:"totalChapters"`
	ChapterList     []string          `json:"chapterList,omitempty"`
	Metadata        *ExternalMetadata `json:"metadata"`
	PersonalData    *PersonalData     `json:"personalData"`
	CustomMarker    *string           `json:"customMarker"`
	LastUpdated     time.Time         `json:"lastUpdated"`
}

type PersonalData struct {
	Rating *float64 `json:"rating,omitempty"`
	Notes  string   `json:"notes,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

type MediaTitle struct {
	Romaji  string `json:"romaji,omitempty"`
	English string `json:"english,omitempty"`
	Native  string `json:"native,omitempty"`
}

type CoverImage struct {
	Large  string `json:"large,omitempty"`
	Medium string `json:"medium,omitempty"`
}

type FuzzyDate struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
}

type ExternalLink struct {
	URL      string `json:"url"`
	Site     string `json:"site"`
	Language string `json:"language,omitempty"`
}

// ExternalMetadata is a snapshot of one catalog record. It is replaced
// wholesale on refresh, never patched.
type ExternalMetadata struct {
	ID              string         `json:"id"`
	Source          string         `json:"source"`
	Title           MediaTitle     `json:"title"`
	Synonyms        []string       `json:"synonyms,omitempty"`
	CoverImage      CoverImage     `json:"coverImage"`
	BannerImage     string         `json:"bannerImage,omitempty"`
	Format          string         `json:"format,omitempty"`
	CountryOfOrigin string         `json:"countryOfOrigin,omitempty"`
	Genres          []string       `json:"genres,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	Status          string         `json:"status,omitempty"`
	Chapters        *int           `json:"chapters,omitempty"`
	Volumes         *int           `json:"volumes,omitempty"`
	SiteURL         string         `json:"siteUrl,omitempty"`
	AverageScore    *int           `json:"averageScore,omitempty"`
	Popularity      *int           `json:"popularity,omitempty"`
	Description     string         `json:"description,omitempty"`
	StartDate       *FuzzyDate     `json:"startDate,omitempty"`
	EndDate         *FuzzyDate     `json:"endDate,omitempty"`
	ExternalLinks   []ExternalLink `json:"externalLinks,omitempty"`
	FetchedAt       time.Time      `json:"fetchedAt"`
}

// DisplayTitle prefers the english title, then romaji, then native.
func (m ExternalMetadata) DisplayTitle() string {
	switch {
	case m.Title.English != "":
		return m.Title.English
	case m.Title.Romaji != "":
		return m.Title.Romaji
	default:
		return m.Title.Native
	}
}

type BorderSettings struct {
	Size   int    `json:"size"`
	Style  string `json:"style"`
	Radius string `json:"radius"`
}

type CustomBookmark struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Style string `json:"style,omitempty"`
}

type FeatureToggles struct {
	Highlighting   bool `json:"highlighting"`
	ProgressBadges bool `json:"progressBadges"`
	NewBadges      bool `json:"newBadges"`
	QuickActions   bool `json:"quickActions"`
}

type Settings struct {
	Border                 BorderSettings    `json:"border"`
	StatusColors           map[string]string `json:"statusColors,omitempty"`
	CustomBookmarksEnabled bool              `json:"customBookmarksEnabled"`
	CustomBookmarks        []CustomBookmark  `json:"customBookmarks,omitempty"`
	Features               FeatureToggles    `json:"features"`
}

func DefaultSettings() Settings {
	return Settings{
		Border: BorderSettings{Size: 4, Style: "solid", Radius: "8px"},
		Features: FeatureToggles{
			Highlighting:   true,
			ProgressBadges: true,
			NewBadges:      true,
			QuickActions:   true,
		},
	}
}

type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
