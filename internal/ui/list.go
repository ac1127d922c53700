package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

var (
	_ list.Item = chartItem{}
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// chartItem wraps a ranked [models.ChartEntry] to implement [list.Item].
type chartItem struct {
	entry models.ChartEntry
}

func (i chartItem) FilterValue() string { return i.entry.Name }
func (i chartItem) Title() string       { return fmt.Sprintf("%d. %s", i.entry.Rank, i.entry.Name) }
func (i chartItem) Description() string {
	desc := likes(i.entry.Likes)
	if i.entry.Detail != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.entry.Detail)
	}
	return desc
}

// playlistItem wraps [models.PlaylistView] to implement [list.Item].
type playlistItem struct {
	view models.PlaylistView
}

func (i playlistItem) FilterValue() string { return i.view.Playlist.Title }
func (i playlistItem) Title() string       { return i.view.Playlist.Title }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d songs • by %s • %d listeners", len(i.view.Songs), i.view.Creator.Name, len(i.view.Listeners))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • %s", shared.FormatDuration(i.song.Length), likes(i.song.Likes))
}

func likes(n int) string {
	if n == 1 {
		return "1 like"
	}
	return fmt.Sprintf("%d likes", n)
}

func chartItems(entries []models.ChartEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = chartItem{entry: e}
	}
	return items
}

func playlistItems(views []models.PlaylistView) []list.Item {
	items := make([]list.Item, len(views))
	for i, v := range views {
		items[i] = playlistItem{view: v}
	}
	return items
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
