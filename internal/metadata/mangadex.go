package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/platform"
	"github.com/gabriel/bmh/internal/searchutil"
)

const (
	ProviderMangaDex   = "mangadex"
	DefaultMangaDexURL = "https://api.mangadex.org"

	mangaDexCoverBase      = "https://uploads.mangadex.org/covers"
	mangaDexFallbackCover  = "https://mangadex.org/img/avatar.png"
	mangaDexTitleBase      = "https://mangadex.org/title"
	mangaDexNoDescription  = "No description available from MangaDex."
	mangaDexIDPrefix       = "md_"
	mangaDexSearchPageSize = 10
)

var mangaDexStatuses = map[string]string{
	"ongoing":   "RELEASING",
	"completed": "FINISHED",
	"hiatus":    "HIATUS",
	"cancelled": "CANCELLED",
}

var mangaDexCountries = map[string]string{
	"ja":    "JP",
	"ko":    "KR",
	"zh":    "CN",
	"zh-hk": "CN",
}

type MangaDexClient struct {
	opts   ClientOptions
	engine engine
}

func NewMangaDexClient(opts ClientOptions) *MangaDexClient {
	client := &MangaDexClient{opts: opts.withDefaults(DefaultMangaDexURL, NewMangaDexLimiter, MangaDexRetryPolicy)}
	client.engine = client.opts.engine(ProviderMangaDex, client.Search)
	return client
}

func (c *MangaDexClient) Name() string {
	return ProviderMangaDex
}

func (c *MangaDexClient) Resolve(ctx context.Context, title string) Resolution {
	return c.engine.resolve(ctx, title)
}

type mangaDexCollection struct {
	Result string          `json:"result"`
	Data   []mangaDexManga `json:"data"`
	Total  int             `json:"total"`
}

type mangaDexManga struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Title            map[string]string   `json:"title"`
		AltTitles        []map[string]string `json:"altTitles"`
		Description      map[string]string   `json:"description"`
		Status           string              `json:"status"`
		OriginalLanguage string              `json:"originalLanguage"`
		LastChapter      string              `json:"lastChapter"`
		Year             *int                `json:"year"`
		Tags             []struct {
			Attributes struct {
				Name  map[string]string `json:"name"`
				Group string            `json:"group"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
	Relationships []mangaDexRelationship `json:"relationships"`
}

type mangaDexRelationship struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes *struct {
		FileName string `json:"fileName"`
		Name     string `json:"name"`
	} `json:"attributes"`
}

// Search returns the best relevance match only, mirroring how the site
// orders its own search results.
func (c *MangaDexClient) Search(ctx context.Context, query string) ([]models.ExternalMetadata, error) {
	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", fmt.Sprint(mangaDexSearchPageSize))
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")
	params.Set("order[relevance]", "desc")

	var payload mangaDexCollection
	if err := c.getJSON(ctx, "/manga?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	return []models.ExternalMetadata{payload.Data[0].toMetadata(c.opts.Now())}, nil
}

func (c *MangaDexClient) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build mangadex request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	res, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("mangadex request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, res.Body)
		return statusErrorFrom(res, c.opts.Now())
	}
	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func (m mangaDexManga) toMetadata(fetchedAt time.Time) models.ExternalMetadata {
	attrs := m.Attributes

	english := attrs.Title["en"]
	if english == "" {
		english = firstValue(attrs.Title)
	}
	native := attrs.Title["ja"]
	if native == "" {
		native = attrs.Title["ja-ro"]
	}

	var romaji string
	var alternates []string
	for _, alt := range attrs.AltTitles {
		if value := alt["ja-ro"]; value != "" && romaji == "" {
			romaji = value
		}
		for _, value := range alt {
			alternates = append(alternates, value)
		}
	}
	if romaji == "" {
		romaji = attrs.Title["en"]
	}

	description := attrs.Description["en"]
	if description == "" {
		description = firstValue(attrs.Description)
	}
	if description == "" {
		description = mangaDexNoDescription
	}

	cover := mangaDexFallbackCover
	for _, rel := range m.Relationships {
		if rel.Type == "cover_art" && rel.Attributes != nil && rel.Attributes.FileName != "" {
			cover = fmt.Sprintf("%s/%s/%s.256.jpg", mangaDexCoverBase, m.ID, rel.Attributes.FileName)
			break
		}
	}

	status, ok := mangaDexStatuses[strings.ToLower(attrs.Status)]
	if !ok {
		status = "UNKNOWN"
	}
	country, ok := mangaDexCountries[strings.ToLower(attrs.OriginalLanguage)]
	if !ok {
		country = "JP"
	}

	var genres, tags []string
	for _, tag := range attrs.Tags {
		name := tag.Attributes.Name["en"]
		if name == "" {
			continue
		}
		tags = append(tags, name)
		if tag.Attributes.Group == "genre" {
			genres = append(genres, name)
		}
		switch name {
		case "Manhwa":
			country = "KR"
		case "Manhua":
			country = "CN"
		}
	}

	meta := models.ExternalMetadata{
		ID:              mangaDexIDPrefix + m.ID,
		Source:          ProviderMangaDex,
		Title:           models.MediaTitle{Romaji: romaji, English: english, Native: native},
		Synonyms:        searchutil.UniqueNonEmpty(alternates),
		CoverImage:      models.CoverImage{Large: cover, Medium: cover},
		Format:          "MANGA",
		CountryOfOrigin: country,
		Genres:          genres,
		Tags:            tags,
		Status:          status,
		SiteURL:         mangaDexTitleBase + "/" + m.ID,
		Description:     description,
		ExternalLinks: []models.ExternalLink{
			{Site: "MangaDex", URL: mangaDexTitleBase + "/" + m.ID},
		},
		FetchedAt: fetchedAt,
	}
	if chapter := platform.ParseLeadingFloat(attrs.LastChapter); chapter != nil && *chapter > 0 {
		count := int(*chapter)
		meta.Chapters = &count
	}
	if attrs.Year != nil {
		year := *attrs.Year
		meta.StartDate = &models.FuzzyDate{Year: &year}
	}
	return meta
}

// firstValue picks a deterministic entry from a localized string map.
func firstValue(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key, value := range values {
		if value != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return values[keys[0]]
}
