package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/config"
	"github.com/gabriel/bmh/internal/database"
	apihttp "github.com/gabriel/bmh/internal/http"
	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/platform/defaults"
)

type stubResolver struct {
	results map[string]metadata.Resolution
	calls   []string
}

func (s *stubResolver) Resolve(_ context.Context, title string) metadata.Resolution {
	s.calls = append(s.calls, title)
	if res, ok := s.results[title]; ok {
		return res
	}
	return metadata.Resolution{Provider: metadata.ProviderMangaDex, Outcome: metadata.OutcomeNotFound}
}

type testApp struct {
	db       *sqlx.DB
	app      *fiber.App
	resolver *stubResolver
}

func setupTestApp(t *testing.T, importer *metadata.MangaDexClient) testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(currentFile), "..", "..", "..", "migrations")
	if err := database.ApplyMigrations(db, migrationsPath); err != nil {
		_ = db.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	if err := database.SeedDefaults(db); err != nil {
		_ = db.Close()
		t.Fatalf("seed defaults: %v", err)
	}

	registry, err := defaults.NewRegistry("")
	if err != nil {
		_ = db.Close()
		t.Fatalf("build registry: %v", err)
	}

	if importer == nil {
		importer = metadata.NewMangaDexClient(metadata.ClientOptions{BaseURL: "http://127.0.0.1:0"})
	}
	resolver := &stubResolver{results: map[string]metadata.Resolution{}}
	app := apihttp.NewServer(config.Config{AppName: "test-app"}, db, apihttp.Dependencies{
		Registry: registry,
		Resolver: resolver,
		Importer: importer,
	})

	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = db.Close()
	})

	return testApp{db: db, app: app, resolver: resolver}
}

func (a testApp) do(t *testing.T, method string, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()

	var payload T
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func expectStatus(t *testing.T, res *http.Response, want int) {
	t.Helper()
	if res.StatusCode != want {
		body, _ := io.ReadAll(res.Body)
		t.Fatalf("expected %d, got %d: %s", want, res.StatusCode, body)
	}
}
