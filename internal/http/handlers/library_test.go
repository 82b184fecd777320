package handlers_test

import (
	"net/http"
	"testing"
)

func TestLibraryCRUD(t *testing.T) {
	app := setupTestApp(t, nil)

	createRes := app.do(t, http.MethodPost, "/v1/library", map[string]any{
		"title":           "Nano Machine",
		"slug":            "nano-machine-11b89554",
		"sourceId":        "nano-machine-11b89554",
		"sourceUrl":       "https://asuracomic.net/series/nano-machine-11b89554",
		"status":          "reading",
		"lastReadChapter": "200",
	})
	expectStatus(t, createRes, http.StatusCreated)

	created := decode[map[string]any](t, createRes)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected generated id, got %v", created["id"])
	}
	if created["source"] != "asurascans" {
		t.Fatalf("expected source inferred from url, got %v", created["source"])
	}
	if created["status"] != "Reading" {
		t.Fatalf("expected canonical status, got %v", created["status"])
	}

	listRes := app.do(t, http.MethodGet, "/v1/library?status=Reading&q=nano", nil)
	expectStatus(t, listRes, http.StatusOK)
	if items := decode[map[string][]any](t, listRes)["items"]; len(items) != 1 {
		t.Fatalf("expected 1 list item, got %d", len(items))
	}

	updateRes := app.do(t, http.MethodPut, "/v1/library/"+id, map[string]any{
		"title":           "Nano Machine",
		"slug":            "nano-machine-11b89554",
		"source":          "asurascans",
		"sourceId":        "nano-machine-11b89554",
		"sourceUrl":       "https://asuracomic.net/series/nano-machine-11b89554",
		"status":          "Reading",
		"lastReadChapter": "201",
		"personalData":    map[string]any{"rating": 9, "tags": []string{"murim"}},
	})
	expectStatus(t, updateRes, http.StatusOK)

	updated := decode[map[string]any](t, updateRes)
	if updated["lastReadChapter"] != "201" || updated["readChapters"] != 2.0 {
		t.Fatalf("expected chapter 201 recorded, got last=%v read=%v", updated["lastReadChapter"], updated["readChapters"])
	}
	personal := updated["personalData"].(map[string]any)
	if personal["rating"] != 9.0 {
		t.Fatalf("expected rating 9, got %v", personal["rating"])
	}

	statusRes := app.do(t, http.MethodPut, "/v1/library/"+id+"/status", map[string]any{"status": "on hold"})
	expectStatus(t, statusRes, http.StatusOK)
	if got := decode[map[string]any](t, statusRes)["status"]; got != "On-Hold" {
		t.Fatalf("expected On-Hold, got %v", got)
	}

	deleteRes := app.do(t, http.MethodDelete, "/v1/library/"+id, nil)
	expectStatus(t, deleteRes, http.StatusNoContent)

	getRes := app.do(t, http.MethodGet, "/v1/library/"+id, nil)
	expectStatus(t, getRes, http.StatusNotFound)
}

func TestLibraryCreateUpsertsBySourceID(t *testing.T) {
	app := setupTestApp(t, nil)

	body := map[string]any{
		"title":    "Tower of God",
		"source":   "webtoons",
		"sourceId": "95",
		"status":   "Reading",
	}
	first := decode[map[string]any](t, app.do(t, http.MethodPost, "/v1/library", body))

	body["status"] = "Completed"
	secondRes := app.do(t, http.MethodPost, "/v1/library", body)
	expectStatus(t, secondRes, http.StatusCreated)
	second := decode[map[string]any](t, secondRes)

	if first["id"] != second["id"] {
		t.Fatalf("expected same entry, got %v and %v", first["id"], second["id"])
	}
	if second["status"] != "Completed" {
		t.Fatalf("expected last write to win, got %v", second["status"])
	}
}

func TestLibraryValidation(t *testing.T) {
	app := setupTestApp(t, nil)

	cases := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{name: "missing title", method: http.MethodPost, target: "/v1/library", body: map[string]any{"status": "Reading"}, want: http.StatusBadRequest},
		{name: "unknown status", method: http.MethodPost, target: "/v1/library", body: map[string]any{"title": "X", "status": "Binging"}, want: http.StatusBadRequest},
		{name: "bad filter", method: http.MethodGet, target: "/v1/library?status=Binging", want: http.StatusBadRequest},
		{name: "status on missing entry", method: http.MethodPut, target: "/v1/library/missing/status", body: map[string]any{"status": "Dropped"}, want: http.StatusNotFound},
		{name: "update missing entry", method: http.MethodPut, target: "/v1/library/missing", body: map[string]any{"title": "X"}, want: http.StatusNotFound},
		{name: "delete missing entry", method: http.MethodDelete, target: "/v1/library/missing", want: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectStatus(t, app.do(t, tc.method, tc.target, tc.body), tc.want)
		})
	}
}
