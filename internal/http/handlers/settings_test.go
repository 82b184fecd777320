package handlers_test

import (
	"net/http"
	"testing"
)

func TestSettingsRoundTrip(t *testing.T) {
	app := setupTestApp(t, nil)

	getRes := app.do(t, http.MethodGet, "/v1/settings", nil)
	expectStatus(t, getRes, http.StatusOK)
	initial := decode[map[string]map[string]any](t, getRes)
	border := initial["settings"]["border"].(map[string]any)
	if border["size"] != 4.0 || border["style"] != "solid" {
		t.Fatalf("expected seeded border, got %v", border)
	}
	if initial["palette"]["Reading"] != "#4ade80" {
		t.Fatalf("expected reading palette color, got %v", initial["palette"])
	}

	putRes := app.do(t, http.MethodPut, "/v1/settings", map[string]any{
		"border":   map[string]any{"size": 2, "style": "dashed"},
		"features": map[string]any{"newBadges": false},
	})
	expectStatus(t, putRes, http.StatusOK)

	reload := decode[map[string]map[string]any](t, app.do(t, http.MethodGet, "/v1/settings", nil))
	border = reload["settings"]["border"].(map[string]any)
	features := reload["settings"]["features"].(map[string]any)
	if border["size"] != 2.0 || border["style"] != "dashed" || border["radius"] != "8px" {
		t.Fatalf("unexpected border after update %v", border)
	}
	if features["newBadges"] != false || features["highlighting"] != true {
		t.Fatalf("unexpected features after update %v", features)
	}
}

func TestSettingsRejectsInvalidBorder(t *testing.T) {
	app := setupTestApp(t, nil)

	res := app.do(t, http.MethodPut, "/v1/settings", map[string]any{
		"border": map[string]any{"size": 4, "style": "wavy"},
	})
	expectStatus(t, res, http.StatusBadRequest)
}
