package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gabriel/bmh/internal/models"
)

const (
	mdListBatchSize       = 100
	mdListDefaultName     = "Unnamed List"
	mdListInvalidMessage  = "Invalid MDList ID or URL format."
	mdListNotFoundMessage = "MDList not found. Make sure the list is public."
	mdListEmptyMessage    = "MDList is empty or has no manga."
)

var (
	mdListUUIDPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	mdListURLPattern  = regexp.MustCompile(`(?i)mangadex\.org/list/([0-9a-f-]{36})`)
)

type ImportResult struct {
	Success  bool                      `json:"success"`
	Manga    []models.ExternalMetadata `json:"manga"`
	ListName string                    `json:"listName,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// ImportProgress receives the number of processed and total list items
// after each batch.
type ImportProgress func(done int, total int)

// ExtractListID accepts a bare list UUID or a mangadex.org/list/{uuid} URL.
func ExtractListID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if mdListUUIDPattern.MatchString(input) {
		return strings.ToLower(input), true
	}
	if match := mdListURLPattern.FindStringSubmatch(input); match != nil {
		return strings.ToLower(match[1]), true
	}
	return "", false
}

type mangaDexList struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
		Relationships []mangaDexRelationship `json:"relationships"`
	} `json:"data"`
}

func (c *MangaDexClient) ImportList(ctx context.Context, idOrURL string) ImportResult {
	return c.ImportListWithProgress(ctx, idOrURL, nil)
}

// ImportListWithProgress never returns an error; failures are reported in
// the result.
func (c *MangaDexClient) ImportListWithProgress(ctx context.Context, idOrURL string, progress ImportProgress) ImportResult {
	listID, ok := ExtractListID(idOrURL)
	if !ok {
		return importFailure(mdListInvalidMessage)
	}

	if err := c.opts.Limiter.Acquire(ctx); err != nil {
		return importFailure(err.Error())
	}

	var list mangaDexList
	if err := c.getJSON(ctx, "/list/"+url.PathEscape(listID), &list); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode == http.StatusNotFound {
				return importFailure(mdListNotFoundMessage)
			}
			return importFailure(fmt.Sprintf("API error: %d", statusErr.StatusCode))
		}
		c.opts.Logger.Warn("mdlist fetch failed", "list", listID, "error", err)
		return importFailure(err.Error())
	}

	var mangaIDs []string
	for _, rel := range list.Data.Relationships {
		if rel.Type == "manga" && rel.ID != "" {
			mangaIDs = append(mangaIDs, rel.ID)
		}
	}
	if len(mangaIDs) == 0 {
		return importFailure(mdListEmptyMessage)
	}

	listName := strings.TrimSpace(list.Data.Attributes.Name)
	if listName == "" {
		listName = mdListDefaultName
	}

	result := ImportResult{Success: true, Manga: []models.ExternalMetadata{}, ListName: listName}
	for start := 0; start < len(mangaIDs); start += mdListBatchSize {
		end := min(start+mdListBatchSize, len(mangaIDs))
		batch, err := c.fetchBatch(ctx, mangaIDs[start:end])
		if err != nil {
			if ctx.Err() != nil {
				return importFailure(ctx.Err().Error())
			}
			c.opts.Logger.Warn("mdlist batch failed", "list", listID, "offset", start, "size", end-start, "error", err)
		}
		result.Manga = append(result.Manga, batch...)
		if progress != nil {
			progress(end, len(mangaIDs))
		}
	}

	c.opts.Logger.Info("mdlist imported", "list", listID, "name", listName, "requested", len(mangaIDs), "imported", len(result.Manga))
	return result
}

func (c *MangaDexClient) fetchBatch(ctx context.Context, ids []string) ([]models.ExternalMetadata, error) {
	if err := c.opts.Limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("ids[]", id)
	}
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")
	params.Set("limit", fmt.Sprint(mdListBatchSize))

	var payload mangaDexCollection
	if err := c.getJSON(ctx, "/manga?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	fetchedAt := c.opts.Now()
	results := make([]models.ExternalMetadata, 0, len(payload.Data))
	for _, manga := range payload.Data {
		results = append(results, manga.toMetadata(fetchedAt))
	}
	return results, nil
}

func importFailure(message string) ImportResult {
	return ImportResult{Success: false, Manga: []models.ExternalMetadata{}, Error: message}
}
