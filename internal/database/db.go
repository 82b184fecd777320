package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite file backing the library,
// metadata cache and settings tables.
func Open(sqlitePath string) (*sqlx.DB, error) {
	if sqlitePath != ":memory:" {
		dir := filepath.Dir(sqlitePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dataSourceName(sqlitePath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite WAL: %w", err)
	}

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite busy timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// dataSourceName pins the stored time layout so DATETIME columns compare
// lexically in chronological order.
func dataSourceName(sqlitePath string) string {
	if strings.Contains(sqlitePath, "_time_format=") {
		return sqlitePath
	}
	separator := "?"
	if strings.Contains(sqlitePath, "?") {
		separator = "&"
	}
	return sqlitePath + separator + "_time_format=sqlite"
}
