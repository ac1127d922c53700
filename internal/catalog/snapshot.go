package catalog

import (
	"github.com/desertthunder/tunes/internal/models"
)

// Snapshot copies the whole store under one read lock.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.Snapshot{
		TakenAt:     s.now(),
		Users:       copyAll(s.users),
		Artists:     copyAll(s.artists),
		Albums:      copyAll(s.albums),
		Songs:       s.songCopies(s.songs),
		Playlists:   make([]models.PlaylistView, 0, len(s.playlists)),
		SongLikes:   make(map[string][]string, len(s.songLikes)),
		SongChart:   s.songChart(),
		ArtistChart: s.artistChart(),
		Stats:       s.stats(),
	}

	for _, p := range s.playlists {
		snap.Playlists = append(snap.Playlists, s.playlistView(p))
	}

	for songID, users := range s.songLikes {
		if len(users) == 0 {
			continue
		}
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		snap.SongLikes[songID] = ids
	}

	if len(snap.SongChart) > 0 && snap.SongChart[0].Likes > 0 {
		snap.PopularSong = snap.SongChart[0].Name
	}
	if len(snap.ArtistChart) > 0 && snap.ArtistChart[0].Likes > 0 {
		snap.PopularArtist = snap.ArtistChart[0].Name
	}

	return snap
}
