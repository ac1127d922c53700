package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
	"github.com/desertthunder/tunes/internal/tasks"
)

type endpoint struct {
	method string
	path   string
}

var endpoints = map[string]endpoint{
	tasks.OpAddUser:             {http.MethodPost, "/spotify/add-user"},
	tasks.OpAddArtist:           {http.MethodPost, "/spotify/add-artist"},
	tasks.OpAddAlbum:            {http.MethodPost, "/spotify/add-album"},
	tasks.OpAddSong:             {http.MethodPost, "/spotify/add-song"},
	tasks.OpAddPlaylistOnLength: {http.MethodPost, "/spotify/add-playlist-on-length"},
	tasks.OpAddPlaylistOnName:   {http.MethodPost, "/spotify/add-playlist-on-name"},
	tasks.OpFindPlaylist:        {http.MethodPut, "/spotify/find-playlist"},
	tasks.OpLikeSong:            {http.MethodPut, "/spotify/like-song"},
	tasks.OpPopularArtist:       {http.MethodGet, "/spotify/popular-artist"},
	tasks.OpPopularSong:         {http.MethodGet, "/spotify/popular-song"},
}

// OpParams returns the request parameters the server expects for op.
func OpParams(op tasks.Op) url.Values {
	v := url.Values{}
	switch op.Op {
	case tasks.OpAddUser:
		v.Set("name", op.Name)
		v.Set("mobile", op.Mobile)
	case tasks.OpAddArtist:
		v.Set("name", op.Name)
	case tasks.OpAddAlbum:
		v.Set("title", op.Title)
		v.Set("artistName", op.Artist)
	case tasks.OpAddSong:
		v.Set("title", op.Title)
		v.Set("albumName", op.Album)
		v.Set("length", strconv.Itoa(op.Length))
	case tasks.OpAddPlaylistOnLength:
		v.Set("mobile", op.Mobile)
		v.Set("title", op.Title)
		v.Set("length", strconv.Itoa(op.Length))
	case tasks.OpAddPlaylistOnName:
		v.Set("mobile", op.Mobile)
		v.Set("title", op.Title)
		if len(op.Songs) == 0 {
			v.Set("songTitles", "")
		}
		for _, title := range op.Songs {
			v.Add("songTitles", title)
		}
	case tasks.OpFindPlaylist:
		v.Set("mobile", op.Mobile)
		v.Set("playlistTitle", op.Title)
	case tasks.OpLikeSong:
		v.Set("mobile", op.Mobile)
		v.Set("songTitle", op.Title)
	}
	return v
}

// Apply sends op to its endpoint. 200 and 400 responses are returned as is; the body
// carries the outcome text or, for the popularity queries, the answer.
func (c *Client) Apply(ctx context.Context, op tasks.Op) (*Response, error) {
	ep, ok := endpoints[op.Op]
	if !ok {
		if op.Op == "" {
			return nil, fmt.Errorf("%w: op", shared.ErrMissingArgument)
		}
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownOperation, op.Op)
	}

	var resp *Response
	var err error
	if ep.method == http.MethodGet {
		resp, err = c.Get(ctx, ep.path, OpParams(op))
	} else {
		resp, err = c.Send(ctx, ep.method, ep.path, OpParams(op))
	}
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusBadRequest:
		return resp, nil
	default:
		return resp, checkStatus(op.Op, resp)
	}
}

// PopularArtist returns the current most popular artist, or "" when nothing is liked.
func (c *Client) PopularArtist(ctx context.Context) (string, error) {
	return c.query(ctx, tasks.OpPopularArtist)
}

// PopularSong returns the current most popular song, or "" when nothing is liked.
func (c *Client) PopularSong(ctx context.Context) (string, error) {
	return c.query(ctx, tasks.OpPopularSong)
}

func (c *Client) query(ctx context.Context, op string) (string, error) {
	resp, err := c.Get(ctx, endpoints[op].path, nil)
	if err != nil {
		return "", err
	}
	if err := checkStatus(op, resp); err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Stats fetches entity counts from the server.
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	resp, err := c.Get(ctx, "/spotify/stats", nil)
	if err != nil {
		return stats, err
	}
	if err := checkStatus("stats", resp); err != nil {
		return stats, err
	}
	if err := json.Unmarshal(resp.Body, &stats); err != nil {
		return stats, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.Get(ctx, "/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return checkStatus("health", resp)
}

func checkStatus(name string, resp *Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", name, shared.ErrRateLimited)
	default:
		return fmt.Errorf("%w: %s returned status %d: %s", shared.ErrAPIRequest, name, resp.StatusCode, resp.Text())
	}
}
