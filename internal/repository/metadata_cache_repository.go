package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/models"
)

// MetadataCacheRepository persists provider lookups and satisfies
// metadata.Cache.
type MetadataCacheRepository struct {
	db *sqlx.DB
}

var _ metadata.Cache = (*MetadataCacheRepository)(nil)

func NewMetadataCacheRepository(db *sqlx.DB) *MetadataCacheRepository {
	return &MetadataCacheRepository{db: db}
}

type metadataCacheRow struct {
	Status    string         `db:"status"`
	Payload   sql.NullString `db:"payload"`
	FetchedAt time.Time      `db:"fetched_at"`
}

func (r *MetadataCacheRepository) Get(ctx context.Context, provider string, key string) (*metadata.CacheEntry, error) {
	var row metadataCacheRow
	err := r.db.GetContext(ctx, &row, `
		SELECT status, payload, fetched_at
		FROM metadata_cache
		WHERE provider = ? AND cache_key = ?
	`, provider, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get metadata cache entry: %w", err)
	}

	entry := &metadata.CacheEntry{
		Status:    metadata.CacheStatus(row.Status),
		Timestamp: row.FetchedAt,
	}
	if row.Payload.Valid && row.Payload.String != "" {
		entry.Data = &models.ExternalMetadata{}
		if err := json.Unmarshal([]byte(row.Payload.String), entry.Data); err != nil {
			return nil, fmt.Errorf("decode metadata cache payload: %w", err)
		}
	}
	return entry, nil
}

func (r *MetadataCacheRepository) Put(ctx context.Context, provider string, key string, entry metadata.CacheEntry) error {
	payload, err := encodeJSONColumn(entry.Data)
	if err != nil {
		return fmt.Errorf("encode metadata cache payload: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO metadata_cache (provider, cache_key, status, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (provider, cache_key) DO UPDATE SET
			status = excluded.status,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, provider, key, string(entry.Status), payload, entry.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("put metadata cache entry: %w", err)
	}
	return nil
}

func (r *MetadataCacheRepository) DeleteExpired(ctx context.Context, provider string, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM metadata_cache
		WHERE provider = ? AND fetched_at < ?
	`, provider, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired metadata cache entries: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("metadata cache rows affected: %w", err)
	}
	return removed, nil
}

// Counts reports cached rows per provider and status.
func (r *MetadataCacheRepository) Counts(ctx context.Context) (map[string]map[metadata.CacheStatus]int, error) {
	var rows []struct {
		Provider string `db:"provider"`
		Status   string `db:"status"`
		Total    int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT provider, status, COUNT(1) AS total
		FROM metadata_cache
		GROUP BY provider, status
	`); err != nil {
		return nil, fmt.Errorf("count metadata cache entries: %w", err)
	}

	counts := make(map[string]map[metadata.CacheStatus]int)
	for _, row := range rows {
		if counts[row.Provider] == nil {
			counts[row.Provider] = make(map[metadata.CacheStatus]int)
		}
		counts[row.Provider][metadata.CacheStatus(row.Status)] = row.Total
	}
	return counts, nil
}
