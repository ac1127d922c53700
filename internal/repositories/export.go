package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// ExportRepository keeps a history of saved snapshots.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// NewExport summarises snap as an export record for script.
func NewExport(script string, snap models.Snapshot) *models.Export {
	return &models.Export{
		Script:        script,
		TakenAt:       snap.TakenAt,
		Stats:         snap.Stats,
		PopularArtist: snap.PopularArtist,
		PopularSong:   snap.PopularSong,
	}
}

// Create inserts export with a generated ID.
func (r *ExportRepository) Create(export *models.Export) error {
	if export.Script == "" {
		return fmt.Errorf("validation failed: %w: script", shared.ErrMissingArgument)
	}

	export.ID = shared.GenerateID()
	if export.CreatedAt.IsZero() {
		export.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO exports (
			id, script, taken_at, users, artists, albums, songs, playlists, likes,
			popular_artist, popular_song, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		export.ID,
		export.Script,
		export.TakenAt,
		export.Stats.Users,
		export.Stats.Artists,
		export.Stats.Albums,
		export.Stats.Songs,
		export.Stats.Playlists,
		export.Stats.Likes,
		nullString(export.PopularArtist),
		nullString(export.PopularSong),
		export.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export: %w", err)
	}
	return nil
}

// Latest returns the most recently created export.
func (r *ExportRepository) Latest() (*models.Export, error) {
	exports, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(exports) == 0 {
		return nil, fmt.Errorf("export %w", shared.ErrNotFound)
	}
	return exports[0], nil
}

// List returns up to limit exports, newest first. A limit of zero or less returns all of them.
func (r *ExportRepository) List(limit int) ([]*models.Export, error) {
	query := `
		SELECT id, script, taken_at, users, artists, albums, songs, playlists, likes,
			popular_artist, popular_song, created_at
		FROM exports
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	exports := []*models.Export{}
	for rows.Next() {
		export, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exports: %w", err)
	}
	return exports, nil
}

func (r *ExportRepository) scan(rows *sql.Rows) (*models.Export, error) {
	var (
		e            models.Export
		artist, song sql.NullString
	)
	err := rows.Scan(
		&e.ID, &e.Script, &e.TakenAt,
		&e.Stats.Users, &e.Stats.Artists, &e.Stats.Albums, &e.Stats.Songs, &e.Stats.Playlists, &e.Stats.Likes,
		&artist, &song, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan export: %w", err)
	}
	e.PopularArtist = artist.String
	e.PopularSong = song.String
	return &e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
