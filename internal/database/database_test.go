package database

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve test file path")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

func TestApplyMigrationsIsIdempotentAndSeeds(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "bmh.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	dir := migrationsDir(t)
	if err := ApplyMigrations(db, dir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(db, dir); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	applied, err := AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(applied) != len(entries) || applied[0] != "0001_init.sql" {
		t.Fatalf("unexpected applied migrations %v", applied)
	}

	if err := SeedDefaults(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := db.Exec(`UPDATE settings SET value = '{"size":2,"style":"dashed","radius":"0px"}' WHERE key = ?`, SettingBorder); err != nil {
		t.Fatalf("update border: %v", err)
	}
	if err := SeedDefaults(db); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	var border string
	if err := db.Get(&border, `SELECT value FROM settings WHERE key = ?`, SettingBorder); err != nil {
		t.Fatalf("read border: %v", err)
	}
	if border != `{"size":2,"style":"dashed","radius":"0px"}` {
		t.Fatalf("expected seed to keep existing value, got %s", border)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(1) FROM settings`); err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 settings rows, got %d", count)
	}
}
