package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/tunes/internal/models"
)

// snapshotTables lists the snapshot tables children first, the order rows must be deleted in.
var snapshotTables = []string{
	"song_likes",
	"playlist_listeners",
	"playlist_songs",
	"playlists",
	"songs",
	"albums",
	"artists",
	"users",
}

// SnapshotRepository writes catalog snapshots and reads rankings back.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save replaces the stored snapshot with snap. Either every row is written or none is.
func (r *SnapshotRepository) Save(snap models.Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range snapshotTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	err = insertRows(tx, `INSERT INTO users (id, position, name, mobile, created_at) VALUES (?, ?, ?, ?, ?)`,
		len(snap.Users), func(i int) []any {
			u := snap.Users[i]
			return []any{u.ID, i, u.Name, u.Mobile, u.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("failed to insert users: %w", err)
	}

	err = insertRows(tx, `INSERT INTO artists (id, position, name, created_at) VALUES (?, ?, ?, ?)`,
		len(snap.Artists), func(i int) []any {
			a := snap.Artists[i]
			return []any{a.ID, i, a.Name, a.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("failed to insert artists: %w", err)
	}

	err = insertRows(tx, `INSERT INTO albums (id, position, title, artist_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		len(snap.Albums), func(i int) []any {
			a := snap.Albums[i]
			return []any{a.ID, i, a.Title, a.ArtistID, a.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("failed to insert albums: %w", err)
	}

	err = insertRows(tx, `INSERT INTO songs (id, position, title, album_id, length, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		len(snap.Songs), func(i int) []any {
			s := snap.Songs[i]
			return []any{s.ID, i, s.Title, s.AlbumID, s.Length, s.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("failed to insert songs: %w", err)
	}

	err = insertRows(tx, `INSERT INTO playlists (id, position, title, creator_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		len(snap.Playlists), func(i int) []any {
			p := snap.Playlists[i].Playlist
			return []any{p.ID, i, p.Title, p.CreatorID, p.CreatedAt}
		})
	if err != nil {
		return fmt.Errorf("failed to insert playlists: %w", err)
	}

	var links, listeners [][]any
	for _, view := range snap.Playlists {
		for pos, song := range view.Songs {
			links = append(links, []any{view.Playlist.ID, song.ID, pos})
		}
		for pos, user := range view.Listeners {
			listeners = append(listeners, []any{view.Playlist.ID, user.ID, pos})
		}
	}

	err = insertRows(tx, `INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)`,
		len(links), func(i int) []any { return links[i] })
	if err != nil {
		return fmt.Errorf("failed to insert playlist songs: %w", err)
	}

	err = insertRows(tx, `INSERT INTO playlist_listeners (playlist_id, user_id, position) VALUES (?, ?, ?)`,
		len(listeners), func(i int) []any { return listeners[i] })
	if err != nil {
		return fmt.Errorf("failed to insert playlist listeners: %w", err)
	}

	var likes [][]any
	for _, song := range snap.Songs {
		for pos, userID := range snap.SongLikes[song.ID] {
			likes = append(likes, []any{song.ID, userID, pos})
		}
	}

	err = insertRows(tx, `INSERT INTO song_likes (song_id, user_id, position) VALUES (?, ?, ?)`,
		len(likes), func(i int) []any { return likes[i] })
	if err != nil {
		return fmt.Errorf("failed to insert song likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// insertRows runs query once per row through a statement prepared on tx.
func insertRows(tx *sql.Tx, query string, n int, row func(i int) []any) error {
	if n == 0 {
		return nil
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range n {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return err
		}
	}
	return nil
}

// TopSongs returns up to limit songs ranked by likes, ties broken by creation order.
// A limit of zero or less returns every song.
func (r *SnapshotRepository) TopSongs(limit int) ([]models.ChartEntry, error) {
	query := `
		SELECT s.title, a.title, COUNT(l.user_id) AS likes
		FROM songs s
		JOIN albums a ON a.id = s.album_id
		LEFT JOIN song_likes l ON l.song_id = s.id
		GROUP BY s.id
		ORDER BY likes DESC, s.position ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top songs: %w", err)
	}
	defer rows.Close()

	return scanChart(rows, func(e *models.ChartEntry) []any {
		return []any{&e.Name, &e.Detail, &e.Likes}
	})
}

// TopArtists returns up to limit artists ranked by the likes on all their songs.
func (r *SnapshotRepository) TopArtists(limit int) ([]models.ChartEntry, error) {
	query := `
		SELECT
			ar.name,
			(SELECT COUNT(*) FROM albums al WHERE al.artist_id = ar.id) || ' albums' AS detail,
			(SELECT COUNT(*)
				FROM song_likes l
				JOIN songs s ON s.id = l.song_id
				JOIN albums al ON al.id = s.album_id
				WHERE al.artist_id = ar.id) AS likes
		FROM artists ar
		ORDER BY likes DESC, ar.position ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top artists: %w", err)
	}
	defer rows.Close()

	return scanChart(rows, func(e *models.ChartEntry) []any {
		return []any{&e.Name, &e.Detail, &e.Likes}
	})
}

// Counts returns the number of rows held in each snapshot table.
func (r *SnapshotRepository) Counts() (models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM artists),
			(SELECT COUNT(*) FROM albums),
			(SELECT COUNT(*) FROM songs),
			(SELECT COUNT(*) FROM playlists),
			(SELECT COUNT(*) FROM song_likes)
	`

	var s models.Stats
	err := r.db.QueryRow(query).Scan(&s.Users, &s.Artists, &s.Albums, &s.Songs, &s.Playlists, &s.Likes)
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to count rows: %w", err)
	}
	return s, nil
}

// PlaylistSongs returns the stored song titles of the latest playlist with title, in playlist order.
func (r *SnapshotRepository) PlaylistSongs(title string) ([]string, error) {
	query := `
		SELECT s.title
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = (
			SELECT id FROM playlists WHERE title = ? ORDER BY position DESC LIMIT 1
		)
		ORDER BY ps.position ASC
	`

	rows, err := r.db.Query(query, title)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlist songs: %w", err)
	}
	return titles, nil
}

// scanChart scans ranked rows, numbering them from 1. dest maps an entry to its scan targets.
func scanChart(rows *sql.Rows, dest func(*models.ChartEntry) []any) ([]models.ChartEntry, error) {
	entries := []models.ChartEntry{}
	for rows.Next() {
		var e models.ChartEntry
		if err := rows.Scan(dest(&e)...); err != nil {
			return nil, fmt.Errorf("failed to scan chart entry: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chart: %w", err)
	}
	return entries, nil
}

// sqlLimit maps "no limit" onto SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
