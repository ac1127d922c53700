package catalog

import (
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// CreateUser registers a user. Mobile numbers are not checked for uniqueness; see the package docs on keys.
func (s *Store) CreateUser(name, mobile string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &models.User{
		ID:        shared.GenerateID(),
		Name:      name,
		Mobile:    mobile,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, u)
	s.usersByID[u.ID] = u
	registerKey(s.usersByMobile, mobile, u)

	s.logger.Debug("created user", "name", name, "mobile", mobile)
	return *u
}

// CreateArtist registers an artist.
func (s *Store) CreateArtist(name string) models.Artist {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.createArtist(name)
}

func (s *Store) createArtist(name string) *models.Artist {
	a := &models.Artist{
		ID:        shared.GenerateID(),
		Name:      name,
		CreatedAt: s.now(),
	}
	s.artists = append(s.artists, a)
	s.artistsByID[a.ID] = a
	registerKey(s.artistsByName, name, a)

	s.logger.Debug("created artist", "name", name)
	return a
}

// CreateAlbum registers an album under the named artist, creating the artist first when no artist has that name.
func (s *Store) CreateAlbum(title, artistName string) models.Album {
	s.mu.Lock()
	defer s.mu.Unlock()

	artist, ok := s.artistsByName[artistName]
	if !ok {
		artist = s.createArtist(artistName)
	}

	a := &models.Album{
		ID:        shared.GenerateID(),
		Title:     title,
		ArtistID:  artist.ID,
		CreatedAt: s.now(),
	}
	s.albums = append(s.albums, a)
	s.albumsByID[a.ID] = a
	registerKey(s.albumsByTitle, title, a)
	s.artistAlbums[artist.ID] = append(s.artistAlbums[artist.ID], a)

	s.logger.Debug("created album", "title", title, "artist", artistName)
	return *a
}

// CreateSong registers a song under the titled album with an empty like set.
//
// Returns [shared.ErrAlbumNotFound] when no album has that title.
func (s *Store) CreateSong(title, albumTitle string, length int) (models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	album, ok := s.albumsByTitle[albumTitle]
	if !ok {
		return models.Song{}, shared.ErrAlbumNotFound
	}

	song := &models.Song{
		ID:        shared.GenerateID(),
		Title:     title,
		AlbumID:   album.ID,
		Length:    length,
		CreatedAt: s.now(),
	}
	s.songs = append(s.songs, song)
	registerKey(s.songsByTitle, title, song)
	s.albumSongs[album.ID] = append(s.albumSongs[album.ID], song)
	s.songLikes[song.ID] = []*models.User{}

	s.logger.Debug("created song", "title", title, "album", albumTitle, "length", length)
	return *song, nil
}
