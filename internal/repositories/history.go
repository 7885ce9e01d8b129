package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
)

// HistoryRepository implements models.Repository[*models.HistoryRecord] for created playlists.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

var _ models.Repository[*models.HistoryRecord] = (*HistoryRepository)(nil)

const selectPlaylists = `
	SELECT id, sequence, name, url, track_count, requested_count, created_at, deleted_at
	FROM playlists
`

// Create inserts the record and its artists with a generated ID and sequence
func (r *HistoryRepository) Create(record *models.HistoryRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO playlists (id, sequence, name, url, track_count, requested_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID(),
		record.Sequence(),
		record.Name,
		record.URL,
		record.TrackCount,
		int(record.RequestedCount),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	for i, a := range record.Artists {
		_, err := tx.Exec(`
			INSERT INTO playlist_artists (playlist_id, position, artist_id, name, track_count)
			VALUES (?, ?, ?, ?, ?)
		`, record.ID(), i, a.ArtistID, a.Name, int(a.TrackCount))
		if err != nil {
			return fmt.Errorf("failed to insert artist %q: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}
	return nil
}

// Get retrieves a record by ID, excluding soft-deleted records
func (r *HistoryRepository) Get(id string) (*models.HistoryRecord, error) {
	record, err := scanRecord(r.db.QueryRow(selectPlaylists+" WHERE id = ? AND deleted_at IS NULL", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadArtists(record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetBySequence retrieves a record by its sequence number
func (r *HistoryRepository) GetBySequence(sequence int) (*models.HistoryRecord, error) {
	record, err := scanRecord(r.db.QueryRow(selectPlaylists+" WHERE sequence = ? AND deleted_at IS NULL", sequence))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist #%d", shared.ErrRecordNotFound, sequence)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadArtists(record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete soft-deletes a record by ID
func (r *HistoryRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: playlist %s", shared.ErrRecordNotFound, id)
	}
	return nil
}

// List retrieves records newest first, excluding soft-deleted records.
//
// Supported criteria: "name" (case-insensitive substring) and "limit" (int).
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.HistoryRecord, error) {
	query := selectPlaylists + " WHERE deleted_at IS NULL"
	args := []any{}

	if name, ok := criteria["name"].(string); ok && strings.TrimSpace(name) != "" {
		query += " AND lower(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(name))+"%")
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	var records []*models.HistoryRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, record := range records {
		if err := r.loadArtists(record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Recent returns up to limit records, newest first. A non-positive limit returns all of them.
func (r *HistoryRepository) Recent(limit int) ([]*models.HistoryRecord, error) {
	return r.List(map[string]any{"limit": limit})
}

func (r *HistoryRepository) loadArtists(record *models.HistoryRecord) error {
	rows, err := r.db.Query(`
		SELECT position, artist_id, name, track_count
		FROM playlist_artists
		WHERE playlist_id = ?
		ORDER BY position ASC
	`, record.ID())
	if err != nil {
		return fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	record.Artists = []models.HistoryArtist{}
	for rows.Next() {
		var (
			a     models.HistoryArtist
			count int
		)
		if err := rows.Scan(&a.Position, &a.ArtistID, &a.Name, &count); err != nil {
			return fmt.Errorf("failed to scan artist: %w", err)
		}
		a.TrackCount = models.TrackCount(count)
		record.Artists = append(record.Artists, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a playlists row into a [models.HistoryRecord]
func scanRecord(row scanner) (*models.HistoryRecord, error) {
	var (
		id         string
		sequence   int
		name       string
		url        string
		trackCount int
		requested  int
		createdAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &url, &trackCount, &requested, &createdAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	record := models.RestoreHistoryRecord(id, sequence, createdAt, deleted)
	record.Name = name
	record.URL = url
	record.TrackCount = trackCount
	record.RequestedCount = models.TrackCount(requested)
	return record, nil
}

// HistoryRecorder stores every playlist the workflow creates.
type HistoryRecorder struct {
	repo *HistoryRepository
}

// NewHistoryRecorder wraps repo for use as a workflow recorder.
func NewHistoryRecorder(repo *HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record persists a created playlist.
func (h *HistoryRecorder) Record(ctx context.Context, req models.PlaylistRequest, res models.PlaylistResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.repo.Create(models.NewHistoryRecord(req, res))
}
