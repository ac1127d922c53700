package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunes/internal/catalog"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
	"golang.org/x/time/rate"
)

// OpResult is the outcome of one scripted operation.
type OpResult struct {
	Index   int    // Position in the script, starting at 1
	Op      string // Op name
	Message string // Short description of what happened, or the query answer
	Err     error  // nil on success
}

// Outcome renders the result as the request layer would: "Success" or "Failure: <reason>".
func (r OpResult) Outcome() string {
	return catalog.Outcome(r.Err)
}

// RunResult contains all data from a single replay.
type RunResult struct {
	Script        string     // Script name
	Ops           []OpResult // Individual op results, in script order
	SuccessCount  int        // Ops that succeeded
	FailedCount   int        // Ops that failed
	PopularArtist string     // Most popular artist after the run
	PopularSong   string     // Most popular song after the run
}

// Engine replays scripts against a single store.
type Engine struct {
	store   *catalog.Store
	limiter *rate.Limiter
	logger  *log.Logger
}

// EngineOption configures an [Engine].
type EngineOption func(*Engine)

// WithRate paces ops to perSecond; zero or less leaves the run unpaced.
func WithRate(perSecond float64) EngineOption {
	return func(e *Engine) {
		if perSecond > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLimiter shares an existing limiter across engines.
func WithLimiter(l *rate.Limiter) EngineOption {
	return func(e *Engine) { e.limiter = l }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine over store.
func NewEngine(store *catalog.Store, opts ...EngineOption) *Engine {
	e := &Engine{store: store, logger: shared.NewDiscardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine mutates.
func (e *Engine) Store() *catalog.Store {
	return e.store
}

// Run applies every op in script, in order.
//
// Failing ops are recorded and the run continues. When ctx is cancelled the partial
// result is returned together with the context error.
func (e *Engine) Run(ctx context.Context, script *Script, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: catalog store not initialized", shared.ErrServiceUnavailable)
	}
	if script == nil {
		return nil, fmt.Errorf("%w: script", shared.ErrMissingArgument)
	}

	total := len(script.Ops)
	result := &RunResult{Script: script.Name, Ops: make([]OpResult, 0, total)}
	sendProgress(progress, startRunUpdate(total, script.Name))

	for i, op := range script.Ops {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		res := e.apply(op)
		res.Index = i + 1
		result.Ops = append(result.Ops, res)
		if res.Err != nil {
			result.FailedCount++
			e.logger.Warn("op failed", "index", res.Index, "op", res.Op, "error", res.Err)
		} else {
			result.SuccessCount++
			e.logger.Debug("op applied", "index", res.Index, "op", res.Op, "message", res.Message)
		}
		sendProgress(progress, applyOpUpdate(i+1, total, res))
	}

	result.PopularArtist = e.store.MostPopularArtist()
	result.PopularSong = e.store.MostPopularSong()
	sendProgress(progress, summaryUpdate(total, result))
	return result, nil
}

// apply dispatches a single op to the store.
func (e *Engine) apply(op Op) OpResult {
	res := OpResult{Op: op.Op}
	switch op.Op {
	case OpAddUser:
		if res.Err = requireFields("name", op.Name, "mobile", op.Mobile); res.Err == nil {
			u := e.store.CreateUser(op.Name, op.Mobile)
			res.Message = fmt.Sprintf("user %s (%s)", u.Name, u.Mobile)
		}
	case OpAddArtist:
		if res.Err = requireFields("name", op.Name); res.Err == nil {
			a := e.store.CreateArtist(op.Name)
			res.Message = "artist " + a.Name
		}
	case OpAddAlbum:
		if res.Err = requireFields("title", op.Title, "artist", op.Artist); res.Err == nil {
			a := e.store.CreateAlbum(op.Title, op.Artist)
			res.Message = fmt.Sprintf("album %s by %s", a.Title, op.Artist)
		}
	case OpAddSong:
		if res.Err = requireFields("title", op.Title, "album", op.Album); res.Err == nil {
			var s models.Song
			if s, res.Err = e.store.CreateSong(op.Title, op.Album, op.Length); res.Err == nil {
				res.Message = fmt.Sprintf("song %s (%s) on %s", s.Title, shared.FormatDuration(s.Length), op.Album)
			}
		}
	case OpAddPlaylistOnLength:
		if res.Err = requireFields("mobile", op.Mobile, "title", op.Title); res.Err == nil {
			var v models.PlaylistView
			if v, res.Err = e.store.CreatePlaylistOnLength(op.Mobile, op.Title, op.Length); res.Err == nil {
				res.Message = fmt.Sprintf("playlist %s (%d songs)", v.Playlist.Title, len(v.Songs))
			}
		}
	case OpAddPlaylistOnName:
		if res.Err = requireFields("mobile", op.Mobile, "title", op.Title); res.Err == nil {
			var v models.PlaylistView
			if v, res.Err = e.store.CreatePlaylistOnName(op.Mobile, op.Title, op.Songs); res.Err == nil {
				res.Message = fmt.Sprintf("playlist %s (%d songs)", v.Playlist.Title, len(v.Songs))
			}
		}
	case OpFindPlaylist:
		if res.Err = requireFields("mobile", op.Mobile, "title", op.Title); res.Err == nil {
			var v models.PlaylistView
			if v, res.Err = e.store.FindPlaylist(op.Mobile, op.Title); res.Err == nil {
				res.Message = fmt.Sprintf("playlist %s (%d listeners)", v.Playlist.Title, len(v.Listeners))
			}
		}
	case OpLikeSong:
		if res.Err = requireFields("mobile", op.Mobile, "title", op.Title); res.Err == nil {
			var s models.Song
			if s, res.Err = e.store.LikeSong(op.Mobile, op.Title); res.Err == nil {
				res.Message = fmt.Sprintf("song %s (%d likes)", s.Title, s.Likes)
			}
		}
	case OpPopularArtist:
		res.Message = e.store.MostPopularArtist()
	case OpPopularSong:
		res.Message = e.store.MostPopularSong()
	case "":
		res.Err = fmt.Errorf("%w: op", shared.ErrMissingArgument)
	default:
		res.Err = fmt.Errorf("%w: %q", shared.ErrUnknownOperation, op.Op)
	}
	return res
}
