package catalog

import (
	"fmt"
	"slices"
	"sort"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// LikeSong records that the user likes the titled song. Liking the same song twice is a no-op.
//
// The owning artist is credited implicitly: artist popularity is derived from song likes.
//
// Returns [shared.ErrUserNotFound] or [shared.ErrSongNotFound].
func (s *Store) LikeSong(mobile, songTitle string) (models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByMobile[mobile]
	if !ok {
		return models.Song{}, shared.ErrUserNotFound
	}

	song, ok := s.songsByTitle[songTitle]
	if !ok {
		return models.Song{}, shared.ErrSongNotFound
	}

	likes := s.songLikes[song.ID]
	if !slices.Contains(likes, user) {
		s.songLikes[song.ID] = append(likes, user)

		artist := "-"
		if a := s.songArtist(song); a != nil {
			artist = a.Name
		}
		s.logger.Debug("liked song", "title", songTitle, "mobile", mobile, "artist", artist, "likes", len(likes)+1)
	}

	return s.songCopy(song), nil
}

// SongLikes returns the users who liked the titled song, in like order.
func (s *Store) SongLikes(title string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songsByTitle[title]
	if !ok {
		return nil, shared.ErrSongNotFound
	}
	return copyAll(s.songLikes[song.ID]), nil
}

// ArtistLikes returns the total likes across every song on every album of the named artist.
func (s *Store) ArtistLikes(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artist, ok := s.artistsByName[name]
	if !ok {
		return 0, shared.ErrArtistNotFound
	}
	return s.artistLikes(artist), nil
}

// MostPopularArtist returns the name of the artist with the most likes summed over their songs.
//
// Ties go to the artist created first. Returns "" when no song has been liked.
func (s *Store) MostPopularArtist() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best, top := "", 0
	for _, artist := range s.artists {
		if n := s.artistLikes(artist); n > top {
			best, top = artist.Name, n
		}
	}
	return best
}

// MostPopularSong returns the title of the song with the most likes.
//
// Ties go to the song created first. Returns "" when no song has been liked.
func (s *Store) MostPopularSong() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best, top := "", 0
	for _, song := range s.songs {
		if n := len(s.songLikes[song.ID]); n > top {
			best, top = song.Title, n
		}
	}
	return best
}

// SongChart ranks every song by likes, most liked first. Equal counts keep creation order.
func (s *Store) SongChart() []models.ChartEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.songChart()
}

// ArtistChart ranks every artist by derived likes, most liked first. Equal counts keep creation order.
func (s *Store) ArtistChart() []models.ChartEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.artistChart()
}

func (s *Store) songChart() []models.ChartEntry {
	entries := make([]models.ChartEntry, 0, len(s.songs))
	for _, song := range s.songs {
		detail := ""
		if album, ok := s.albumsByID[song.AlbumID]; ok {
			detail = album.Title
		}
		entries = append(entries, models.ChartEntry{
			Name:   song.Title,
			Likes:  len(s.songLikes[song.ID]),
			Detail: detail,
		})
	}
	return rank(entries)
}

func (s *Store) artistChart() []models.ChartEntry {
	entries := make([]models.ChartEntry, 0, len(s.artists))
	for _, artist := range s.artists {
		entries = append(entries, models.ChartEntry{
			Name:   artist.Name,
			Likes:  s.artistLikes(artist),
			Detail: fmt.Sprintf("%d albums", len(s.artistAlbums[artist.ID])),
		})
	}
	return rank(entries)
}

// artistLikes sums like-set sizes over the artist's songs. Callers hold the lock.
func (s *Store) artistLikes(artist *models.Artist) int {
	total := 0
	for _, album := range s.artistAlbums[artist.ID] {
		for _, song := range s.albumSongs[album.ID] {
			total += len(s.songLikes[song.ID])
		}
	}
	return total
}

// songArtist walks song → album → artist.
func (s *Store) songArtist(song *models.Song) *models.Artist {
	album, ok := s.albumsByID[song.AlbumID]
	if !ok {
		return nil
	}
	return s.artistsByID[album.ArtistID]
}

func rank(entries []models.ChartEntry) []models.ChartEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Likes > entries[j].Likes
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
