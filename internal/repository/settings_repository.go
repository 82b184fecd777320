package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/database"
	"github.com/gabriel/bmh/internal/models"
)

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) List(ctx context.Context) ([]models.Setting, error) {
	items := make([]models.Setting, 0)
	if err := r.db.SelectContext(ctx, &items, `
		SELECT key, value, updated_at
		FROM settings
		ORDER BY key ASC
	`); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return items, nil
}

// Load overlays stored keys on the defaults. Unknown keys are ignored.
func (r *SettingsRepository) Load(ctx context.Context) (models.Settings, error) {
	items, err := r.List(ctx)
	if err != nil {
		return models.Settings{}, err
	}

	settings := models.DefaultSettings()
	targets := map[string]any{
		database.SettingBorder:                 &settings.Border,
		database.SettingStatusColors:           &settings.StatusColors,
		database.SettingCustomBookmarksEnabled: &settings.CustomBookmarksEnabled,
		database.SettingCustomBookmarks:        &settings.CustomBookmarks,
		database.SettingFeatures:               &settings.Features,
	}
	for _, item := range items {
		target, ok := targets[item.Key]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(item.Value), target); err != nil {
			return models.Settings{}, fmt.Errorf("decode setting %s: %w", item.Key, err)
		}
	}
	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings, now time.Time) error {
	rows, err := database.SettingsRows(settings)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}

	for key, value := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, key, value, now.UTC())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings tx: %w", err)
	}
	return nil
}
