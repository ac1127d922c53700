package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunes/internal/catalog"
	"github.com/desertthunder/tunes/internal/shared"
	"golang.org/x/time/rate"
)

// BatchOpts contains configuration for replaying several scripts at once.
type BatchOpts struct {
	NumWorkers int         // Concurrent workers (default: 4, max: 8)
	RateLimit  float64     // Ops per second shared by all workers; zero disables pacing
	Logger     *log.Logger // Optional logger passed to each store and engine
}

// ScriptResult is the outcome of replaying one script file.
type ScriptResult struct {
	Path  string         // Script path
	Run   *RunResult     // nil when the script could not be loaded
	Store *catalog.Store // Store the script was replayed against
	Error error          // Load or cancellation error
}

// BatchResult summarises a batch replay.
type BatchResult struct {
	TotalScripts int
	Succeeded    int
	Failed       int
	Results      []ScriptResult // Same order as the input paths
}

type scriptJob struct {
	index int
	path  string
}

type indexedResult struct {
	index int
	res   ScriptResult
}

// RunBatch replays each script file against its own fresh store.
//
// Scripts run on a bounded worker pool. A script that fails to load is reported in
// its [ScriptResult] without stopping the others. Results keep the input order.
func RunBatch(ctx context.Context, prog chan<- ProgressUpdate, paths []string, opts BatchOpts) (*BatchResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: at least one script path", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewDiscardLogger()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	result := &BatchResult{
		TotalScripts: len(paths),
		Results:      make([]ScriptResult, len(paths)),
	}

	jobs := make(chan scriptJob, len(paths))
	results := make(chan indexedResult, len(paths))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res := replayFile(ctx, job.path, limiter, opts.Logger)
				results <- indexedResult{index: job.index, res: res}
			}
		}()
	}

	for i, path := range paths {
		jobs <- scriptJob{index: i, path: path}
		sendProgress(prog, scriptStartedUpdate(i+1, len(paths), path))
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for r := range results {
		completed++
		result.Results[r.index] = r.res
		if r.res.Error != nil {
			result.Failed++
			sendProgress(prog, scriptFailedUpdate(completed, len(paths), r.res.Path, r.res.Error))
			continue
		}
		result.Succeeded++
		sendProgress(prog, scriptCompletedUpdate(completed, len(paths), r.res))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func replayFile(ctx context.Context, path string, limiter *rate.Limiter, logger *log.Logger) ScriptResult {
	res := ScriptResult{Path: path}
	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	script, err := LoadScript(path)
	if err != nil {
		res.Error = err
		return res
	}

	l := shared.WithLogger(logger, "script", script.Name)
	res.Store = catalog.New(catalog.WithLogger(l))
	engine := NewEngine(res.Store, WithLimiter(limiter), WithLogger(l))
	res.Run, res.Error = engine.Run(ctx, script, nil)
	return res
}
