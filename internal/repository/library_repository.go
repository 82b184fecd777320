package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabriel/bmh/internal/models"
	"github.com/gabriel/bmh/internal/searchutil"
)

func (r *LibraryRepository) List(ctx context.Context, options LibraryListOptions) ([]models.LibraryEntry, error) {
	var (
		where []string
		args  []any
	)
	if len(options.Statuses) > 0 {
		clause, statusArgs := inClause("status", options.Statuses)
		where = append(where, clause)
		args = append(args, statusArgs...)
	}
	if source := strings.TrimSpace(options.Source); source != "" {
		where = append(where, "source = ?")
		args = append(args, strings.ToLower(source))
	}

	query := `SELECT ` + libraryColumns + ` FROM library_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_updated DESC, title ASC"

	var rows []libraryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list library entries: %w", err)
	}

	entries, err := rowsToEntries(rows)
	if err != nil {
		return nil, err
	}

	if search := searchutil.NewQuery(options.Query); !search.Empty() {
		filtered := entries[:0]
		for _, entry := range entries {
			candidates := []string{entry.Title, entry.Slug}
			if entry.Metadata != nil {
				candidates = append(candidates, entry.Metadata.Title.English, entry.Metadata.Title.Romaji)
				candidates = append(candidates, entry.Metadata.Synonyms...)
			}
			if search.Matches(candidates...) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	return paginate(entries, options.Offset, options.Limit), nil
}

func paginate(entries []models.LibraryEntry, offset int, limit int) []models.LibraryEntry {
	if offset > 0 {
		if offset >= len(entries) {
			return []models.LibraryEntry{}
		}
		entries = entries[offset:]
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func (r *LibraryRepository) GetByID(ctx context.Context, id string) (*models.LibraryEntry, error) {
	return r.getOne(ctx, "get library entry by id", `WHERE id = ?`, id)
}

func (r *LibraryRepository) FindBySource(ctx context.Context, source string, sourceID string) (*models.LibraryEntry, error) {
	return r.getOne(ctx, "find library entry by source", `WHERE source = ? AND source_id = ?`, strings.ToLower(source), sourceID)
}

func (r *LibraryRepository) findBySlug(ctx context.Context, source string, slug string) (*models.LibraryEntry, error) {
	return r.getOne(ctx, "find library entry by slug", `WHERE source = ? AND slug = ? ORDER BY date_added ASC LIMIT 1`, strings.ToLower(source), slug)
}

func (r *LibraryRepository) getOne(ctx context.Context, op string, clause string, args ...any) (*models.LibraryEntry, error) {
	var row libraryRow
	err := r.db.GetContext(ctx, &row, `SELECT `+libraryColumns+` FROM library_entries `+clause, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry, err := row.toEntry()
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert stores entry, matching an existing row by id, then by
// (source, source_id), then by legacy (source, slug). The stored entry is
// returned.
func (r *LibraryRepository) Upsert(ctx context.Context, entry models.LibraryEntry) (models.LibraryEntry, error) {
	entry.Source = strings.ToLower(strings.TrimSpace(entry.Source))
	if entry.Source == "" {
		entry.Source = models.UnknownSource
	}

	existing, err := r.findExisting(ctx, entry)
	if err != nil {
		return models.LibraryEntry{}, err
	}

	now := time.Now().UTC()
	if entry.LastUpdated.IsZero() {
		entry.LastUpdated = now
	}

	if existing != nil {
		entry.ID = existing.ID
		entry.DateAdded = existing.DateAdded
		row, err := toLibraryRow(entry)
		if err != nil {
			return models.LibraryEntry{}, err
		}
		_, err = r.db.NamedExecContext(ctx, `
			UPDATE library_entries SET
				title = :title,
				slug = :slug,
				status = :status,
				source = :source,
				source_id = :source_id,
				source_url = :source_url,
				last_read_chapter = :last_read_chapter,
				last_read_date = :last_read_date,
				read_chapters = :read_chapters,
				total_chapters = :total_chapters,
				chapter_list = :chapter_list,
				metadata = :metadata,
				personal_data = :personal_data,
				custom_marker = :custom_marker,
				last_updated = :last_updated
			WHERE id = :id
		`, row)
		if err != nil {
			return models.LibraryEntry{}, fmt.Errorf("update library entry: %w", err)
		}
		return entry, nil
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.DateAdded.IsZero() {
		entry.DateAdded = now
	}
	row, err := toLibraryRow(entry)
	if err != nil {
		return models.LibraryEntry{}, err
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO library_entries (`+libraryColumns+`)
		VALUES (
			:id, :title, :slug, :status, :source, :source_id, :source_url,
			:last_read_chapter, :last_read_date, :read_chapters, :total_chapters, :chapter_list,
			:metadata, :personal_data, :custom_marker, :date_added, :last_updated
		)
	`, row)
	if err != nil {
		return models.LibraryEntry{}, fmt.Errorf("insert library entry: %w", err)
	}
	return entry, nil
}

func (r *LibraryRepository) findExisting(ctx context.Context, entry models.LibraryEntry) (*models.LibraryEntry, error) {
	lookups := make([]func() (*models.LibraryEntry, error), 0, 3)
	if entry.ID != "" {
		lookups = append(lookups, func() (*models.LibraryEntry, error) { return r.GetByID(ctx, entry.ID) })
	}
	if entry.SourceID != "" {
		lookups = append(lookups, func() (*models.LibraryEntry, error) { return r.FindBySource(ctx, entry.Source, entry.SourceID) })
	}
	if entry.Slug != "" {
		lookups = append(lookups, func() (*models.LibraryEntry, error) { return r.findBySlug(ctx, entry.Source, entry.Slug) })
	}

	for _, lookup := range lookups {
		found, err := lookup()
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return found, nil
	}
	return nil, nil
}

func (r *LibraryRepository) UpdateStatus(ctx context.Context, id string, status models.Status, now time.Time) error {
	return r.exec(ctx, "update library status", `
		UPDATE library_entries
		SET status = ?, last_updated = ?
		WHERE id = ?
	`, string(status), now.UTC(), id)
}

func (r *LibraryRepository) UpdatePersonalData(ctx context.Context, id string, data models.PersonalData, now time.Time) error {
	encoded, err := encodeJSONColumn(&data)
	if err != nil {
		return fmt.Errorf("encode personal data: %w", err)
	}
	return r.exec(ctx, "update library personal data", `
		UPDATE library_entries
		SET personal_data = ?, last_updated = ?
		WHERE id = ?
	`, encoded, now.UTC(), id)
}

// SetMetadata replaces the metadata snapshot and refreshes the total
// chapter count when the snapshot carries one.
func (r *LibraryRepository) SetMetadata(ctx context.Context, id string, meta models.ExternalMetadata, now time.Time) error {
	encoded, err := encodeJSONColumn(&meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	var total sql.NullInt64
	if meta.Chapters != nil {
		total = sql.NullInt64{Int64: int64(*meta.Chapters), Valid: true}
	}
	return r.exec(ctx, "set library metadata", `
		UPDATE library_entries
		SET metadata = ?, total_chapters = COALESCE(?, total_chapters), last_updated = ?
		WHERE id = ?
	`, encoded, total, now.UTC(), id)
}

// ListMissingMetadata returns up to limit entries without a metadata
// snapshot, oldest first.
func (r *LibraryRepository) ListMissingMetadata(ctx context.Context, limit int) ([]models.LibraryEntry, error) {
	if limit <= 0 {
		limit = 25
	}
	var rows []libraryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+libraryColumns+`
		FROM library_entries
		WHERE metadata IS NULL
		ORDER BY date_added ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries missing metadata: %w", err)
	}
	return rowsToEntries(rows)
}

func (r *LibraryRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete library entry", `DELETE FROM library_entries WHERE id = ?`, id)
}

func (r *LibraryRepository) exec(ctx context.Context, op string, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
