package models

import (
	"time"
)

// User is a listener. Mobile is the lookup key.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"created_at"`
}

// Artist owns zero or more albums.
type Artist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Album belongs to exactly one [Artist].
type Album struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ArtistID  string    `json:"artist_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Song belongs to exactly one [Album]. Length is in seconds.
//
// Likes is filled in by the store when the song is read.
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AlbumID   string    `json:"album_id"`
	Length    int       `json:"length"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// Playlist is created by one [User]; its songs never change after creation.
type Playlist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChartEntry is one row of a popularity ranking.
type ChartEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Likes int    `json:"likes"`
	// Detail is the owning album for songs and the album count for artists.
	Detail string `json:"detail,omitempty"`
}

// Stats counts the entities held by a store.
type Stats struct {
	Users     int `json:"users"`
	Artists   int `json:"artists"`
	Albums    int `json:"albums"`
	Songs     int `json:"songs"`
	Playlists int `json:"playlists"`
	Likes     int `json:"likes"`
}

// PlaylistView is a playlist with its songs and listeners resolved.
type PlaylistView struct {
	Playlist  Playlist `json:"playlist"`
	Creator   User     `json:"creator"`
	Songs     []Song   `json:"songs"`
	Listeners []User   `json:"listeners"`
}

// Snapshot is a consistent copy of an entire store, in insertion order.
//
// SongLikes maps a song ID to the IDs of the users who liked it, in like order.
type Snapshot struct {
	TakenAt       time.Time           `json:"taken_at"`
	Users         []User              `json:"users"`
	Artists       []Artist            `json:"artists"`
	Albums        []Album             `json:"albums"`
	Songs         []Song              `json:"songs"`
	Playlists     []PlaylistView      `json:"playlists"`
	SongLikes     map[string][]string `json:"song_likes"`
	PopularArtist string              `json:"popular_artist"`
	PopularSong   string              `json:"popular_song"`
	SongChart     []ChartEntry        `json:"song_chart"`
	ArtistChart   []ChartEntry        `json:"artist_chart"`
	Stats         Stats               `json:"stats"`
}

// Export records one snapshot written to the database.
type Export struct {
	ID            string    `json:"id"`
	Script        string    `json:"script"`
	TakenAt       time.Time `json:"taken_at"`
	Stats         Stats     `json:"stats"`
	PopularArtist string    `json:"popular_artist,omitempty"`
	PopularSong   string    `json:"popular_song,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
