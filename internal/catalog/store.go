package catalog

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// Store is the in-memory catalog. The zero value is not usable; construct with [New].
type Store struct {
	mu     sync.RWMutex
	logger *log.Logger
	now    func() time.Time

	users     []*models.User
	artists   []*models.Artist
	albums    []*models.Album
	songs     []*models.Song
	playlists []*models.Playlist

	usersByMobile    map[string]*models.User
	artistsByName    map[string]*models.Artist
	albumsByTitle    map[string]*models.Album
	songsByTitle     map[string]*models.Song
	playlistsByTitle map[string]*models.Playlist

	artistsByID map[string]*models.Artist
	albumsByID  map[string]*models.Album
	usersByID   map[string]*models.User

	artistAlbums      map[string][]*models.Album    // artist ID
	albumSongs        map[string][]*models.Song     // album ID
	playlistSongs     map[string][]*models.Song     // playlist ID
	playlistListeners map[string][]*models.User     // playlist ID
	creatorPlaylist   map[string]*models.Playlist   // user ID, most recent
	userPlaylists     map[string][]*models.Playlist // user ID
	songLikes         map[string][]*models.User     // song ID
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for debug events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		logger: shared.NewDiscardLogger(),
		now:    time.Now,

		usersByMobile:    make(map[string]*models.User),
		artistsByName:    make(map[string]*models.Artist),
		albumsByTitle:    make(map[string]*models.Album),
		songsByTitle:     make(map[string]*models.Song),
		playlistsByTitle: make(map[string]*models.Playlist),

		artistsByID: make(map[string]*models.Artist),
		albumsByID:  make(map[string]*models.Album),
		usersByID:   make(map[string]*models.User),

		artistAlbums:      make(map[string][]*models.Album),
		albumSongs:        make(map[string][]*models.Song),
		playlistSongs:     make(map[string][]*models.Song),
		playlistListeners: make(map[string][]*models.User),
		creatorPlaylist:   make(map[string]*models.Playlist),
		userPlaylists:     make(map[string][]*models.Playlist),
		songLikes:         make(map[string][]*models.User),
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User looks up a user by mobile number.
func (s *Store) User(mobile string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByMobile[mobile]
	if !ok {
		return models.User{}, shared.ErrUserNotFound
	}
	return *u, nil
}

// Artist looks up an artist by name.
func (s *Store) Artist(name string) (models.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.artistsByName[name]
	if !ok {
		return models.Artist{}, shared.ErrArtistNotFound
	}
	return *a, nil
}

// Album looks up an album by title.
func (s *Store) Album(title string) (models.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.albumsByTitle[title]
	if !ok {
		return models.Album{}, shared.ErrAlbumNotFound
	}
	return *a, nil
}

// Song looks up a song by title, with its current like count.
func (s *Store) Song(title string) (models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songsByTitle[title]
	if !ok {
		return models.Song{}, shared.ErrSongNotFound
	}
	return s.songCopy(song), nil
}

// Playlist looks up a playlist by title without touching its listeners. See [Store.FindPlaylist].
func (s *Store) Playlist(title string) (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlistsByTitle[title]
	if !ok {
		return models.Playlist{}, shared.ErrPlaylistNotFound
	}
	return *p, nil
}

// ArtistAlbums returns the albums of the named artist in creation order.
func (s *Store) ArtistAlbums(name string) ([]models.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artist, ok := s.artistsByName[name]
	if !ok {
		return nil, shared.ErrArtistNotFound
	}
	return copyAll(s.artistAlbums[artist.ID]), nil
}

// AlbumSongs returns the songs of the titled album in creation order.
func (s *Store) AlbumSongs(title string) ([]models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	album, ok := s.albumsByTitle[title]
	if !ok {
		return nil, shared.ErrAlbumNotFound
	}
	return s.songCopies(s.albumSongs[album.ID]), nil
}

// Stats counts everything in the store.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats()
}

func (s *Store) stats() models.Stats {
	likes := 0
	for _, users := range s.songLikes {
		likes += len(users)
	}
	return models.Stats{
		Users:     len(s.users),
		Artists:   len(s.artists),
		Albums:    len(s.albums),
		Songs:     len(s.songs),
		Playlists: len(s.playlists),
		Likes:     likes,
	}
}

// songCopy returns a detached copy of song with Likes filled from the like index. Callers hold the lock.
func (s *Store) songCopy(song *models.Song) models.Song {
	c := *song
	c.Likes = len(s.songLikes[song.ID])
	return c
}

func (s *Store) songCopies(songs []*models.Song) []models.Song {
	out := make([]models.Song, 0, len(songs))
	for _, song := range songs {
		out = append(out, s.songCopy(song))
	}
	return out
}

// copyAll dereferences a slice of entity pointers into detached values.
func copyAll[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out
}

// registerKey points key at v, replacing any earlier record registered under it.
func registerKey[T any](index map[string]*T, key string, v *T) {
	index[key] = v
}
