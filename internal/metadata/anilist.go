package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gabriel/bmh/internal/models"
)

const (
	ProviderAniList   = "anilist"
	DefaultAniListURL = "https://graphql.anilist.co"
)

const aniListSearchQuery = `query ($search: String) {
  Page(page: 1, perPage: 10) {
    media(search: $search, type: MANGA, sort: SEARCH_MATCH) {
      id
      title { romaji english native }
      synonyms
      coverImage { large medium }
      bannerImage
      format
      countryOfOrigin
      genres
      tags { name }
      status
      chapters
      volumes
      siteUrl
      averageScore
      popularity
      description(asHtml: false)
      startDate { year month day }
      endDate { year month day }
      externalLinks { url site language }
    }
  }
}`

type AniListClient struct {
	opts   ClientOptions
	engine engine
}

func NewAniListClient(opts ClientOptions) *AniListClient {
	client := &AniListClient{opts: opts.withDefaults(DefaultAniListURL, NewAniListLimiter, AniListRetryPolicy)}
	client.engine = client.opts.engine(ProviderAniList, client.Search)
	return client
}

func (c *AniListClient) Name() string {
	return ProviderAniList
}

func (c *AniListClient) Resolve(ctx context.Context, title string) Resolution {
	return c.engine.resolve(ctx, title)
}

type aniListRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type aniListResponse struct {
	Data struct {
		Page struct {
			Media []aniListMedia `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

type aniListMedia struct {
	ID              int               `json:"id"`
	Title           models.MediaTitle `json:"title"`
	Synonyms        []string          `json:"synonyms"`
	CoverImage      models.CoverImage `json:"coverImage"`
	BannerImage     string            `json:"bannerImage"`
	Format          string            `json:"format"`
	CountryOfOrigin string            `json:"countryOfOrigin"`
	Genres          []string          `json:"genres"`
	Tags            []struct {
		Name string `json:"name"`
	} `json:"tags"`
	Status        string                `json:"status"`
	Chapters      *int                  `json:"chapters"`
	Volumes       *int                  `json:"volumes"`
	SiteURL       string                `json:"siteUrl"`
	AverageScore  *int                  `json:"averageScore"`
	Popularity    *int                  `json:"popularity"`
	Description   string                `json:"description"`
	StartDate     *models.FuzzyDate     `json:"startDate"`
	EndDate       *models.FuzzyDate     `json:"endDate"`
	ExternalLinks []models.ExternalLink `json:"externalLinks"`
}

// Search runs one GraphQL query and returns the candidates in provider
// order. An empty slice means no match.
func (c *AniListClient) Search(ctx context.Context, query string) ([]models.ExternalMetadata, error) {
	body, err := json.Marshal(aniListRequest{
		Query:     aniListSearchQuery,
		Variables: map[string]any{"search": query},
	})
	if err != nil {
		return nil, fmt.Errorf("encode anilist query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build anilist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	res, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, statusErrorFrom(res, c.opts.Now())
	}

	var payload aniListResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(payload.Errors) > 0 {
		queryErr := &QueryError{}
		for _, item := range payload.Errors {
			queryErr.Messages = append(queryErr.Messages, item.Message)
		}
		return nil, queryErr
	}

	fetchedAt := c.opts.Now()
	results := make([]models.ExternalMetadata, 0, len(payload.Data.Page.Media))
	for _, media := range payload.Data.Page.Media {
		results = append(results, media.toMetadata(fetchedAt))
	}
	return results, nil
}

func (m aniListMedia) toMetadata(fetchedAt time.Time) models.ExternalMetadata {
	tags := make([]string, 0, len(m.Tags))
	for _, tag := range m.Tags {
		if tag.Name != "" {
			tags = append(tags, tag.Name)
		}
	}
	return models.ExternalMetadata{
		ID:              strconv.Itoa(m.ID),
		Source:          ProviderAniList,
		Title:           m.Title,
		Synonyms:        m.Synonyms,
		CoverImage:      m.CoverImage,
		BannerImage:     m.BannerImage,
		Format:          m.Format,
		CountryOfOrigin: m.CountryOfOrigin,
		Genres:          m.Genres,
		Tags:            tags,
		Status:          m.Status,
		Chapters:        m.Chapters,
		Volumes:         m.Volumes,
		SiteURL:         m.SiteURL,
		AverageScore:    m.AverageScore,
		Popularity:      m.Popularity,
		Description:     m.Description,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		ExternalLinks:   m.ExternalLinks,
		FetchedAt:       fetchedAt,
	}
}
