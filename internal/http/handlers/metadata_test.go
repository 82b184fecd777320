package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/models"
)

func TestMetadataLookup(t *testing.T) {
	app := setupTestApp(t, nil)

	chapters := 600
	app.resolver.results["Tower of God"] = metadata.Resolution{
		Provider: metadata.ProviderAniList,
		Outcome:  metadata.OutcomeFound,
		Data: &models.ExternalMetadata{
			ID:              "85143",
			Source:          metadata.ProviderAniList,
			Title:           models.MediaTitle{Romaji: "Sin-ui Tap"},
			Format:          "MANGA",
			CountryOfOrigin: "KR",
			Chapters:        &chapters,
		},
	}
	app.resolver.results["Broken"] = metadata.Resolution{
		Provider: metadata.ProviderMangaDex,
		Outcome:  metadata.OutcomeFailed,
		Error:    "unexpected status: 503",
	}

	res := app.do(t, http.MethodGet, "/v1/metadata?title="+url.QueryEscape("Tower of God"), nil)
	expectStatus(t, res, http.StatusOK)
	payload := decode[map[string]any](t, res)
	if payload["format"] != "Manhwa" {
		t.Fatalf("expected Manhwa format, got %v", payload["format"])
	}

	expectStatus(t, app.do(t, http.MethodGet, "/v1/metadata?title=Nothing", nil), http.StatusNotFound)
	expectStatus(t, app.do(t, http.MethodGet, "/v1/metadata?title=Broken", nil), http.StatusBadGateway)
	expectStatus(t, app.do(t, http.MethodGet, "/v1/metadata", nil), http.StatusBadRequest)

	if len(app.resolver.calls) != 3 {
		t.Fatalf("expected 3 resolver calls, got %v", app.resolver.calls)
	}
}

func TestMetadataImportMDList(t *testing.T) {
	const listID = "8d1a3e2c-4b5f-4a6e-9c7d-0e1f2a3b4c5d"

	stub := http.NewServeMux()
	stub.HandleFunc("/list/"+listID, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":            listID,
				"attributes":    map[string]any{"name": "Favourites"},
				"relationships": []map[string]any{{"id": "m-1", "type": "manga"}},
			},
		})
	})
	stub.HandleFunc("/manga", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"id": "m-1",
				"attributes": map[string]any{
					"title":  map[string]string{"en": "Solo Leveling"},
					"status": "completed",
				},
			}},
		})
	})
	server := httptest.NewServer(stub)
	defer server.Close()

	client := metadata.NewMangaDexClient(metadata.ClientOptions{
		BaseURL: server.URL,
		Limiter: metadata.NewLimiter(0, 0),
	})
	app := setupTestApp(t, client)

	res := app.do(t, http.MethodPost, "/v1/metadata/mdlist", map[string]any{"list": "https://mangadex.org/list/" + listID})
	expectStatus(t, res, http.StatusOK)

	result := decode[metadata.ImportResult](t, res)
	if !result.Success || result.ListName != "Favourites" || len(result.Manga) != 1 {
		t.Fatalf("unexpected import result %+v", result)
	}
	if result.Manga[0].ID != "md_m-1" || result.Manga[0].Title.English != "Solo Leveling" {
		t.Fatalf("unexpected manga %+v", result.Manga[0])
	}
}

func TestMetadataImportMDListRejectsMalformedInput(t *testing.T) {
	app := setupTestApp(t, nil)

	res := app.do(t, http.MethodPost, "/v1/metadata/mdlist", map[string]any{"list": "not a list"})
	expectStatus(t, res, http.StatusUnprocessableEntity)

	result := decode[metadata.ImportResult](t, res)
	if result.Success || result.Error != "Invalid MDList ID or URL format." || result.Manga == nil {
		t.Fatalf("unexpected failure result %+v", result)
	}
}
