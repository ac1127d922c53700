package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunes/internal/catalog"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
)

// Catalog is the part of [catalog.Store] the request layer calls.
type Catalog interface {
	CreateUser(name, mobile string) models.User
	CreateArtist(name string) models.Artist
	CreateAlbum(title, artistName string) models.Album
	CreateSong(title, albumTitle string, length int) (models.Song, error)
	CreatePlaylistOnLength(mobile, title string, length int) (models.PlaylistView, error)
	CreatePlaylistOnName(mobile, title string, songTitles []string) (models.PlaylistView, error)
	FindPlaylist(mobile, playlistTitle string) (models.PlaylistView, error)
	LikeSong(mobile, songTitle string) (models.Song, error)
	MostPopularArtist() string
	MostPopularSong() string
	Stats() models.Stats
}

var _ Catalog = (*catalog.Store)(nil)

// CatalogHandler exposes each catalog operation as an endpoint under /spotify.
//
// Domain outcomes are always 200 with a "Success" or "Failure: <reason>" body;
// malformed requests get 400 with the same "Failure: " prefix.
type CatalogHandler struct {
	store    Catalog
	logger   *log.Logger
	handlers map[string]http.HandlerFunc
	routes   []Route
}

var _ Handler = (*CatalogHandler)(nil)

// NewCatalogHandler creates a [CatalogHandler] serving store.
func NewCatalogHandler(store Catalog, logger *log.Logger) *CatalogHandler {
	if logger == nil {
		logger = shared.NewDiscardLogger()
	}
	h := &CatalogHandler{
		store:    store,
		logger:   logger,
		handlers: make(map[string]http.HandlerFunc),
	}

	h.route(http.MethodPost, "/spotify/add-user", h.addUser)
	h.route(http.MethodPost, "/spotify/add-artist", h.addArtist)
	h.route(http.MethodPost, "/spotify/add-album", h.addAlbum)
	h.route(http.MethodPost, "/spotify/add-song", h.addSong)
	h.route(http.MethodPost, "/spotify/add-playlist-on-length", h.addPlaylistOnLength)
	h.route(http.MethodPost, "/spotify/add-playlist-on-name", h.addPlaylistOnName)
	h.route(http.MethodPut, "/spotify/find-playlist", h.findPlaylist)
	h.route(http.MethodPut, "/spotify/like-song", h.likeSong)
	h.route(http.MethodGet, "/spotify/popular-artist", h.popularArtist)
	h.route(http.MethodGet, "/spotify/popular-song", h.popularSong)
	h.route(http.MethodGet, "/spotify/stats", h.stats)
	return h
}

func (h *CatalogHandler) route(method, path string, fn http.HandlerFunc) {
	h.routes = append(h.routes, Route{Method: method, Path: path})
	h.handlers[path] = fn
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []Route {
	return h.routes
}

// ServeHTTP dispatches to the endpoint registered for the request path.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fn, ok := h.handlers[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}
	fn(w, r)
}

func (h *CatalogHandler) addUser(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	name, mobile := p.str("name"), p.str("mobile")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	h.store.CreateUser(name, mobile)
	h.reply(w, nil)
}

func (h *CatalogHandler) addArtist(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	name := p.str("name")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	h.store.CreateArtist(name)
	h.reply(w, nil)
}

func (h *CatalogHandler) addAlbum(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	title, artist := p.str("title"), p.str("artistName")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	h.store.CreateAlbum(title, artist)
	h.reply(w, nil)
}

func (h *CatalogHandler) addSong(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	title, album, length := p.str("title"), p.str("albumName"), p.integer("length")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	_, err := h.store.CreateSong(title, album, length)
	h.reply(w, err)
}

func (h *CatalogHandler) addPlaylistOnLength(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	mobile, title, length := p.str("mobile"), p.str("title"), p.integer("length")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	_, err := h.store.CreatePlaylistOnLength(mobile, title, length)
	h.reply(w, err)
}

func (h *CatalogHandler) addPlaylistOnName(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	mobile, title, songs := p.str("mobile"), p.str("title"), p.list("songTitles")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	_, err := h.store.CreatePlaylistOnName(mobile, title, songs)
	h.reply(w, err)
}

func (h *CatalogHandler) findPlaylist(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	mobile, title := p.str("mobile"), p.str("playlistTitle")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	_, err := h.store.FindPlaylist(mobile, title)
	h.reply(w, err)
}

func (h *CatalogHandler) likeSong(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	mobile, title := p.str("mobile"), p.str("songTitle")
	if p.err != nil {
		h.badRequest(w, p.err)
		return
	}
	_, err := h.store.LikeSong(mobile, title)
	h.reply(w, err)
}

func (h *CatalogHandler) popularArtist(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, h.store.MostPopularArtist())
}

func (h *CatalogHandler) popularSong(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, h.store.MostPopularSong())
}

func (h *CatalogHandler) stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.store.Stats()); err != nil {
		h.logger.Error("failed to encode stats", "error", err)
	}
}

// reply writes the domain outcome of an operation.
func (h *CatalogHandler) reply(w http.ResponseWriter, err error) {
	if err != nil {
		h.logger.Debug("operation failed", "error", err)
	}
	writeText(w, http.StatusOK, catalog.Outcome(err))
}

func (h *CatalogHandler) badRequest(w http.ResponseWriter, err error) {
	writeText(w, http.StatusBadRequest, catalog.Outcome(err))
}

// Health answers liveness probes.
func Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

// params reads required request parameters, keeping the first error.
type params struct {
	r   *http.Request
	err error
}

func (p *params) str(key string) string {
	if p.err != nil {
		return ""
	}
	if !p.r.Form.Has(key) {
		p.err = fmt.Errorf("%w: %s", shared.ErrMissingArgument, key)
		return ""
	}
	return p.r.Form.Get(key)
}

func (p *params) integer(key string) int {
	raw := p.str(key)
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s must be an integer, got %q", shared.ErrInvalidArgument, key, raw)
		return 0
	}
	return n
}

// list accepts repeated keys, comma separated values, or both.
func (p *params) list(key string) []string {
	if p.err != nil {
		return nil
	}
	values, ok := p.r.Form[key]
	if !ok {
		p.err = fmt.Errorf("%w: %s", shared.ErrMissingArgument, key)
		return nil
	}
	var out []string
	for _, v := range values {
		out = append(out, shared.SplitList(v)...)
	}
	return out
}
