// package formatter renders catalog snapshots and charts as CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// Supported output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Formats lists every supported format, for flag help and validation.
var Formats = []string{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat normalises a format name. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatText, "txt", "":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: format must be one of %s, got %q", shared.ErrInvalidFlag, strings.Join(Formats, ", "), s)
	}
}

// Render dispatches to the renderer for format.
func Render(snap models.Snapshot, title, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		return SnapshotToJSON(snap)
	case FormatCSV:
		return SnapshotToCSV(snap)
	case FormatMarkdown:
		return SnapshotToMarkdown(snap, title)
	default:
		return SnapshotToText(snap, title)
	}
}

// ChartToCSV converts chart entries to CSV with columns: Rank, Name, Likes, Detail
func ChartToCSV(entries []models.ChartEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "Name", "Likes", "Detail"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{strconv.Itoa(e.Rank), e.Name, strconv.Itoa(e.Likes), e.Detail}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// SnapshotToCSV converts every song in a snapshot to CSV with columns: ID, Title, Album, Artist, Length, Duration, Likes
func SnapshotToCSV(snap models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Album", "Artist", "Length", "Duration", "Likes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	idx := newIndex(snap)
	for _, song := range snap.Songs {
		album, artist := idx.albumAndArtist(song)
		record := []string{
			song.ID,
			song.Title,
			album,
			artist,
			strconv.Itoa(song.Length),
			shared.FormatDuration(song.Length),
			strconv.Itoa(song.Likes),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// SnapshotToJSON renders the snapshot as indented JSON.
func SnapshotToJSON(snap models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// SnapshotToMarkdown renders stats, both charts and every playlist as a Markdown report
func SnapshotToMarkdown(snap models.Snapshot, title string) ([]byte, error) {
	var buf bytes.Buffer
	if title == "" {
		title = "Catalog"
	}

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Users**: %d | **Artists**: %d | **Albums**: %d | **Songs**: %d | **Playlists**: %d | **Likes**: %d\n\n",
		snap.Stats.Users, snap.Stats.Artists, snap.Stats.Albums, snap.Stats.Songs, snap.Stats.Playlists, snap.Stats.Likes)
	fmt.Fprintf(&buf, "**Most popular artist**: %s\n", orNone(snap.PopularArtist))
	fmt.Fprintf(&buf, "**Most popular song**: %s\n\n", orNone(snap.PopularSong))

	buf.WriteString("## Songs\n\n")
	buf.WriteString("| # | Song | Album | Likes |\n|---|---|---|---|\n")
	for _, e := range snap.SongChart {
		fmt.Fprintf(&buf, "| %d | %s | %s | %d |\n", e.Rank, mdEscape(e.Name), mdEscape(e.Detail), e.Likes)
	}

	buf.WriteString("\n## Artists\n\n")
	buf.WriteString("| # | Artist | Albums | Likes |\n|---|---|---|---|\n")
	for _, e := range snap.ArtistChart {
		fmt.Fprintf(&buf, "| %d | %s | %s | %d |\n", e.Rank, mdEscape(e.Name), mdEscape(strings.TrimSuffix(e.Detail, " albums")), e.Likes)
	}

	buf.WriteString("\n## Playlists\n")
	for _, view := range snap.Playlists {
		fmt.Fprintf(&buf, "\n### %s\n\n", view.Playlist.Title)
		fmt.Fprintf(&buf, "**Creator**: %s (%s)\n", view.Creator.Name, view.Creator.Mobile)
		fmt.Fprintf(&buf, "**Listeners**: %s\n\n", userNames(view.Listeners))

		if len(view.Songs) == 0 {
			buf.WriteString("_No songs._\n")
			continue
		}
		for i, song := range view.Songs {
			fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, song.Title, shared.FormatDuration(song.Length))
		}
	}

	return buf.Bytes(), nil
}

// SnapshotToText renders the same report as [SnapshotToMarkdown] in plain text
func SnapshotToText(snap models.Snapshot, title string) ([]byte, error) {
	var buf bytes.Buffer
	if title == "" {
		title = "Catalog"
	}

	fmt.Fprintf(&buf, "%s\n", title)
	fmt.Fprintf(&buf, "Users: %d  Artists: %d  Albums: %d  Songs: %d  Playlists: %d  Likes: %d\n",
		snap.Stats.Users, snap.Stats.Artists, snap.Stats.Albums, snap.Stats.Songs, snap.Stats.Playlists, snap.Stats.Likes)
	fmt.Fprintf(&buf, "Most popular artist: %s\n", orNone(snap.PopularArtist))
	fmt.Fprintf(&buf, "Most popular song: %s\n", orNone(snap.PopularSong))

	buf.WriteString("\nSongs:\n")
	for _, e := range snap.SongChart {
		fmt.Fprintf(&buf, "%3d. %s (%s) - %d likes\n", e.Rank, e.Name, e.Detail, e.Likes)
	}

	buf.WriteString("\nArtists:\n")
	for _, e := range snap.ArtistChart {
		fmt.Fprintf(&buf, "%3d. %s (%s) - %d likes\n", e.Rank, e.Name, e.Detail, e.Likes)
	}

	buf.WriteString("\nPlaylists:\n")
	for _, view := range snap.Playlists {
		fmt.Fprintf(&buf, "  %s by %s, %d songs, listeners: %s\n",
			view.Playlist.Title, view.Creator.Name, len(view.Songs), userNames(view.Listeners))
		for i, song := range view.Songs {
			fmt.Fprintf(&buf, "    %d. %s [%s]\n", i+1, song.Title, shared.FormatDuration(song.Length))
		}
	}

	return buf.Bytes(), nil
}

// WriteSnapshot renders snap in format and writes it to path, creating parent directories.
//
// Defaults to catalog.{ext} in the working directory.
func WriteSnapshot(snap models.Snapshot, title, format, path string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = "catalog." + Extension(f)
	}

	data, err := Render(snap, title, f)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}
	return path, nil
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return format
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func userNames(users []models.User) string {
	if len(users) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return strings.Join(names, ", ")
}

// index resolves album and artist names for songs in a snapshot.
type index struct {
	albums  map[string]models.Album
	artists map[string]string
}

func newIndex(snap models.Snapshot) index {
	idx := index{
		albums:  make(map[string]models.Album, len(snap.Albums)),
		artists: make(map[string]string, len(snap.Artists)),
	}
	for _, a := range snap.Albums {
		idx.albums[a.ID] = a
	}
	for _, a := range snap.Artists {
		idx.artists[a.ID] = a.Name
	}
	return idx
}

func (idx index) albumAndArtist(song models.Song) (string, string) {
	album, ok := idx.albums[song.AlbumID]
	if !ok {
		return "", ""
	}
	return album.Title, idx.artists[album.ArtistID]
}
