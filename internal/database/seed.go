package database

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/models"
)

// Settings keys. Each holds the JSON encoding of one models.Settings field.
const (
	SettingBorder                 = "border"
	SettingStatusColors           = "status_colors"
	SettingCustomBookmarksEnabled = "custom_bookmarks_enabled"
	SettingCustomBookmarks        = "custom_bookmarks"
	SettingFeatures               = "features"
)

// SettingsRows flattens settings into key/value rows.
func SettingsRows(settings models.Settings) (map[string]string, error) {
	fields := map[string]any{
		SettingBorder:                 settings.Border,
		SettingStatusColors:           settings.StatusColors,
		SettingCustomBookmarksEnabled: settings.CustomBookmarksEnabled,
		SettingCustomBookmarks:        settings.CustomBookmarks,
		SettingFeatures:               settings.Features,
	}

	rows := make(map[string]string, len(fields))
	for key, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode setting %s: %w", key, err)
		}
		rows[key] = string(encoded)
	}
	return rows, nil
}

// SeedDefaults writes the default settings without touching keys that are
// already present.
func SeedDefaults(db *sqlx.DB) error {
	rows, err := SettingsRows(models.DefaultSettings())
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}

	for key, value := range rows {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO settings (key, value)
			VALUES (?, ?)
		`, key, value)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
