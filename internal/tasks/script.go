package tasks

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/tunes/internal/shared"
)

// Op names accepted in scripts.
const (
	OpAddUser             = "add-user"
	OpAddArtist           = "add-artist"
	OpAddAlbum            = "add-album"
	OpAddSong             = "add-song"
	OpAddPlaylistOnLength = "add-playlist-on-length"
	OpAddPlaylistOnName   = "add-playlist-on-name"
	OpFindPlaylist        = "find-playlist"
	OpLikeSong            = "like-song"
	OpPopularArtist       = "popular-artist"
	OpPopularSong         = "popular-song"
)

// Script is an ordered list of catalog operations.
type Script struct {
	Name string `toml:"name"`
	Ops  []Op   `toml:"ops"`
}

// Op is a single scripted operation. Which fields are read depends on Op.
type Op struct {
	Op     string   `toml:"op"`
	Name   string   `toml:"name"`
	Mobile string   `toml:"mobile"`
	Title  string   `toml:"title"`
	Artist string   `toml:"artist"`
	Album  string   `toml:"album"`
	Length int      `toml:"length"`
	Songs  []string `toml:"songs"`
}

// LoadScript reads and decodes a script file. A script without a name takes its path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	s, err := ParseScript(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// ParseScript decodes a script from TOML text.
func ParseScript(data string) (*Script, error) {
	var s Script
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", shared.ErrInvalidInput, undecoded[0].String())
	}
	return &s, nil
}

// requireFields takes name, value pairs and returns ErrMissingArgument naming the first empty field.
func requireFields(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			return fmt.Errorf("%w: %s", shared.ErrMissingArgument, fields[i])
		}
	}
	return nil
}
