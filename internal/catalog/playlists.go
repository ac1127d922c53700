package catalog

import (
	"slices"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// CreatePlaylistOnLength creates a playlist of every song whose length equals length, in creation order.
// The returned view is resolved under the same lock as the write.
//
// Returns [shared.ErrUserNotFound] when no user has that mobile number.
func (s *Store) CreatePlaylistOnLength(mobile, title string, length int) (models.PlaylistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creator, ok := s.usersByMobile[mobile]
	if !ok {
		return models.PlaylistView{}, shared.ErrUserNotFound
	}

	var songs []*models.Song
	for _, song := range s.songs {
		if song.Length == length {
			songs = append(songs, song)
		}
	}

	p := s.createPlaylist(creator, title, songs)
	s.logger.Debug("created playlist on length", "title", title, "creator", mobile, "length", length, "songs", len(songs))
	return s.playlistView(p), nil
}

// CreatePlaylistOnName creates a playlist from songTitles in the given order. Duplicate titles are kept;
// titles that match no song are skipped.
//
// Returns [shared.ErrUserNotFound] when no user has that mobile number.
func (s *Store) CreatePlaylistOnName(mobile, title string, songTitles []string) (models.PlaylistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creator, ok := s.usersByMobile[mobile]
	if !ok {
		return models.PlaylistView{}, shared.ErrUserNotFound
	}

	songs := make([]*models.Song, 0, len(songTitles))
	for _, songTitle := range songTitles {
		if song, ok := s.songsByTitle[songTitle]; ok {
			songs = append(songs, song)
		}
	}

	p := s.createPlaylist(creator, title, songs)
	s.logger.Debug("created playlist on name", "title", title, "creator", mobile, "requested", len(songTitles), "songs", len(songs))
	return s.playlistView(p), nil
}

// createPlaylist links a new playlist to its creator, songs and initial listener. Callers hold the write lock.
func (s *Store) createPlaylist(creator *models.User, title string, songs []*models.Song) *models.Playlist {
	p := &models.Playlist{
		ID:        shared.GenerateID(),
		Title:     title,
		CreatorID: creator.ID,
		CreatedAt: s.now(),
	}
	s.playlists = append(s.playlists, p)
	registerKey(s.playlistsByTitle, title, p)

	s.playlistSongs[p.ID] = songs
	s.playlistListeners[p.ID] = []*models.User{creator}
	s.creatorPlaylist[creator.ID] = p
	s.userPlaylists[creator.ID] = append(s.userPlaylists[creator.ID], p)
	return p
}

// FindPlaylist resolves a playlist for a user and records the user as a listener.
// The creator and existing listeners are not added again.
//
// Returns [shared.ErrUserNotFound] or [shared.ErrPlaylistNotFound].
func (s *Store) FindPlaylist(mobile, playlistTitle string) (models.PlaylistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByMobile[mobile]
	if !ok {
		return models.PlaylistView{}, shared.ErrUserNotFound
	}

	p, ok := s.playlistsByTitle[playlistTitle]
	if !ok {
		return models.PlaylistView{}, shared.ErrPlaylistNotFound
	}

	listeners := s.playlistListeners[p.ID]
	if p.CreatorID != user.ID && !slices.Contains(listeners, user) {
		s.playlistListeners[p.ID] = append(listeners, user)
		s.logger.Debug("listener joined playlist", "title", playlistTitle, "mobile", mobile)
	}

	return s.playlistView(p), nil
}

// PlaylistSongs returns the frozen song selection of the titled playlist.
func (s *Store) PlaylistSongs(title string) ([]models.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlistsByTitle[title]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	return s.songCopies(s.playlistSongs[p.ID]), nil
}

// PlaylistListeners returns the listeners of the titled playlist, creator first.
func (s *Store) PlaylistListeners(title string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlistsByTitle[title]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	return copyAll(s.playlistListeners[p.ID]), nil
}

// CreatedPlaylists returns every playlist the user created, oldest first.
func (s *Store) CreatedPlaylists(mobile string) ([]models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByMobile[mobile]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return copyAll(s.userPlaylists[user.ID]), nil
}

// CreatorPlaylist returns the playlist the user created most recently.
//
// Returns [shared.ErrPlaylistNotFound] when the user hasn't created one.
func (s *Store) CreatorPlaylist(mobile string) (models.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.usersByMobile[mobile]
	if !ok {
		return models.Playlist{}, shared.ErrUserNotFound
	}
	p, ok := s.creatorPlaylist[user.ID]
	if !ok {
		return models.Playlist{}, shared.ErrPlaylistNotFound
	}
	return *p, nil
}

// PlaylistView resolves the titled playlist with its creator, songs and listeners.
func (s *Store) PlaylistView(title string) (models.PlaylistView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlistsByTitle[title]
	if !ok {
		return models.PlaylistView{}, shared.ErrPlaylistNotFound
	}
	return s.playlistView(p), nil
}

func (s *Store) playlistView(p *models.Playlist) models.PlaylistView {
	return models.PlaylistView{
		Playlist:  *p,
		Creator:   *s.usersByID[p.CreatorID],
		Songs:     s.songCopies(s.playlistSongs[p.ID]),
		Listeners: copyAll(s.playlistListeners[p.ID]),
	}
}
