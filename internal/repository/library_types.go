package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gabriel/bmh/internal/models"
)

type LibraryListOptions struct {
	Statuses []models.Status
	Source   string
	Query    string
	Limit    int
	Offset   int
}

type LibraryRepository struct {
	db *sqlx.DB
}

func NewLibraryRepository(db *sqlx.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

const libraryColumns = `id, title, slug, status, source, source_id, source_url,
	last_read_chapter, last_read_date, read_chapters, total_chapters, chapter_list,
	metadata, personal_data, custom_marker, date_added, last_updated`

type libraryRow struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Slug            string         `db:"slug"`
	Status          string         `db:"status"`
	Source          string         `db:"source"`
	SourceID        string         `db:"source_id"`
	SourceURL       string         `db:"source_url"`
	LastReadChapter sql.NullString `db:"last_read_chapter"`
	LastReadDate    sql.NullTime   `db:"last_read_date"`
	ReadChapters    int            `db:"read_chapters"`
	TotalChapters   sql.NullInt64  `db:"total_chapters"`
	ChapterList     string         `db:"chapter_list"`
	Metadata        sql.NullString `db:"metadata"`
	PersonalData    sql.NullString `db:"personal_data"`
	CustomMarker    sql.NullString `db:"custom_marker"`
	DateAdded       time.Time      `db:"date_added"`
	LastUpdated     time.Time      `db:"last_updated"`
}

func toLibraryRow(entry models.LibraryEntry) (libraryRow, error) {
	row := libraryRow{
		ID:           entry.ID,
		Title:        entry.Title,
		Slug:         entry.Slug,
		Status:       string(entry.Status),
		Source:       entry.Source,
		SourceID:     entry.SourceID,
		SourceURL:    entry.SourceURL,
		ReadChapters: entry.ReadChapters,
		DateAdded:    entry.DateAdded.UTC(),
		LastUpdated:  entry.LastUpdated.UTC(),
	}
	if entry.LastReadChapter != nil {
		row.LastReadChapter = sql.NullString{String: *entry.LastReadChapter, Valid: true}
	}
	if entry.LastReadDate != nil {
		row.LastReadDate = sql.NullTime{Time: entry.LastReadDate.UTC(), Valid: true}
	}
	if entry.TotalChapters != nil {
		row.TotalChapters = sql.NullInt64{Int64: int64(*entry.TotalChapters), Valid: true}
	}
	if entry.CustomMarker != nil {
		row.CustomMarker = sql.NullString{String: *entry.CustomMarker, Valid: true}
	}

	chapters := entry.ChapterList
	if chapters == nil {
		chapters = []string{}
	}
	encoded, err := json.Marshal(chapters)
	if err != nil {
		return libraryRow{}, fmt.Errorf("encode chapter list: %w", err)
	}
	row.ChapterList = string(encoded)

	if row.Metadata, err = encodeJSONColumn(entry.Metadata); err != nil {
		return libraryRow{}, fmt.Errorf("encode metadata: %w", err)
	}
	if row.PersonalData, err = encodeJSONColumn(entry.PersonalData); err != nil {
		return libraryRow{}, fmt.Errorf("encode personal data: %w", err)
	}
	return row, nil
}

func (row libraryRow) toEntry() (models.LibraryEntry, error) {
	entry := models.LibraryEntry{
		ID:           row.ID,
		Title:        row.Title,
		Slug:         row.Slug,
		Status:       models.Status(row.Status),
		Source:       row.Source,
		SourceID:     row.SourceID,
		SourceURL:    row.SourceURL,
		ReadChapters: row.ReadChapters,
		DateAdded:    row.DateAdded,
		LastUpdated:  row.LastUpdated,
	}
	if row.LastReadChapter.Valid {
		entry.LastReadChapter = &row.LastReadChapter.String
	}
	if row.LastReadDate.Valid {
		entry.LastReadDate = &row.LastReadDate.Time
	}
	if row.TotalChapters.Valid {
		total := int(row.TotalChapters.Int64)
		entry.TotalChapters = &total
	}
	if row.CustomMarker.Valid {
		entry.CustomMarker = &row.CustomMarker.String
	}
	if row.ChapterList != "" {
		if err := json.Unmarshal([]byte(row.ChapterList), &entry.ChapterList); err != nil {
			return models.LibraryEntry{}, fmt.Errorf("decode chapter list for %s: %w", row.ID, err)
		}
	}
	if row.Metadata.Valid {
		entry.Metadata = &models.ExternalMetadata{}
		if err := json.Unmarshal([]byte(row.Metadata.String), entry.Metadata); err != nil {
			return models.LibraryEntry{}, fmt.Errorf("decode metadata for %s: %w", row.ID, err)
		}
	}
	if row.PersonalData.Valid {
		entry.PersonalData = &models.PersonalData{}
		if err := json.Unmarshal([]byte(row.PersonalData.String), entry.PersonalData); err != nil {
			return models.LibraryEntry{}, fmt.Errorf("decode personal data for %s: %w", row.ID, err)
		}
	}
	return entry, nil
}

func encodeJSONColumn[T any](value *T) (sql.NullString, error) {
	if value == nil {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}

func rowsToEntries(rows []libraryRow) ([]models.LibraryEntry, error) {
	entries := make([]models.LibraryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
