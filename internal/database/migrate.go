package database

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations runs every *.sql file in migrationsPath that is not yet
// recorded in schema_migrations, in lexical order, one transaction per file.
func ApplyMigrations(db *sqlx.DB, migrationsPath string) error {
	applied, err := AppliedMigrations(db)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	migrationFiles := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sql") {
			migrationFiles = append(migrationFiles, entry.Name())
		}
	}
	sort.Strings(migrationFiles)

	for _, fileName := range migrationFiles {
		if done[fileName] {
			continue
		}

		content, err := fs.ReadFile(os.DirFS(migrationsPath), fileName)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fileName, err)
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", fileName, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, fileName); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", fileName, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", fileName, err)
		}
	}

	return nil
}

// AppliedMigrations lists recorded migration versions, oldest first.
func AppliedMigrations(db *sqlx.DB) ([]string, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return nil, err
	}

	var versions []string
	if err := db.Select(&versions, `SELECT version FROM schema_migrations ORDER BY version ASC`); err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	return versions, nil
}

func ensureMigrationsTable(db *sqlx.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}
