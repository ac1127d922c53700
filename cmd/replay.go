package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunes/internal/formatter"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/shared"
	"github.com/desertthunder/tunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// opReport is the JSON form of a [tasks.OpResult].
type opReport struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

// replayReport is the JSON form of a single replay.
type replayReport struct {
	Script        string          `json:"script"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	PopularArtist string          `json:"popular_artist"`
	PopularSong   string          `json:"popular_song"`
	Ops           []opReport      `json:"ops"`
	Snapshot      models.Snapshot `json:"snapshot"`
}

// batchReport is the JSON form of one script in a multi-script replay.
type batchReport struct {
	Path          string `json:"path"`
	Error         string `json:"error,omitempty"`
	Succeeded     int    `json:"succeeded"`
	Failed        int    `json:"failed"`
	PopularArtist string `json:"popular_artist,omitempty"`
	PopularSong   string `json:"popular_song,omitempty"`
}

func newReplayReport(run *tasks.RunResult, snap models.Snapshot) replayReport {
	report := replayReport{
		Script:        run.Script,
		Succeeded:     run.SuccessCount,
		Failed:        run.FailedCount,
		PopularArtist: run.PopularArtist,
		PopularSong:   run.PopularSong,
		Ops:           make([]opReport, 0, len(run.Ops)),
		Snapshot:      snap,
	}
	for _, op := range run.Ops {
		report.Ops = append(report.Ops, opReport{Index: op.Index, Op: op.Op, Outcome: op.Outcome(), Message: op.Message})
	}
	return report
}

// Replay runs one or more scripts and prints their outcomes.
//
// A single script prints every op outcome followed by the rendered catalog. Several scripts
// run concurrently on separate stores and print one summary line each.
func (r *Runner) Replay(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: script path", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if len(paths) > 1 {
		if cmd.IsSet("output") {
			return fmt.Errorf("%w: --output needs a single script", shared.ErrInvalidFlag)
		}
		return r.replayBatch(ctx, paths, format, cmd.Float("rate"), cmd.Int("workers"))
	}

	script, err := tasks.LoadScript(paths[0])
	if err != nil {
		return err
	}

	store := r.newStore()
	engine := tasks.NewEngine(store,
		tasks.WithRate(cmd.Float("rate")),
		tasks.WithLogger(shared.WithLogger(r.logger, "script", script.Name)),
	)

	progress, done := r.logProgress()
	run, err := engine.Run(ctx, script, progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("replay of %s interrupted: %w", script.Name, err)
	}

	snap := store.Snapshot()
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteSnapshot(snap, script.Name, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("wrote report", "path", written, "format", format)
	}

	switch format {
	case formatter.FormatJSON:
		return r.writeJSON(newReplayReport(run, snap), true)
	case formatter.FormatText:
		r.writeOutcomes(run)
	}

	data, err := formatter.Render(snap, script.Name, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

func (r *Runner) writeOutcomes(run *tasks.RunResult) {
	r.writePlainHeader(fmt.Sprintf("Replay: %s", run.Script))
	for _, op := range run.Ops {
		r.writePlain("%3d. %-26s %s\n", op.Index, op.Op, op.Outcome())
		if op.Err == nil && op.Message != "" {
			r.writePlain("     %s\n", op.Message)
		}
	}
	r.writePlainln("%d succeeded, %d failed", run.SuccessCount, run.FailedCount)
	r.writePlain("\n")
}

func (r *Runner) replayBatch(ctx context.Context, paths []string, format string, perSecond float64, workers int) error {
	progress, done := r.logProgress()
	result, err := tasks.RunBatch(ctx, progress, paths, tasks.BatchOpts{
		NumWorkers: workers,
		RateLimit:  perSecond,
		Logger:     r.logger,
	})
	close(progress)
	<-done
	if result == nil {
		return err
	}

	reports := make([]batchReport, 0, len(result.Results))
	for _, res := range result.Results {
		report := batchReport{Path: res.Path}
		if res.Error != nil {
			report.Error = res.Error.Error()
		}
		if res.Run != nil {
			report.Succeeded = res.Run.SuccessCount
			report.Failed = res.Run.FailedCount
			report.PopularArtist = res.Run.PopularArtist
			report.PopularSong = res.Run.PopularSong
		}
		reports = append(reports, report)
	}

	if format == formatter.FormatJSON {
		if werr := r.writeJSON(reports, true); werr != nil {
			return werr
		}
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Replayed %d scripts", result.TotalScripts))
	for _, report := range reports {
		if report.Error != "" {
			r.writePlain("✗ %s: %s\n", report.Path, report.Error)
			continue
		}
		r.writePlain("✓ %s: %d succeeded, %d failed, popular artist %q, popular song %q\n",
			report.Path, report.Succeeded, report.Failed, report.PopularArtist, report.PopularSong)
	}
	r.writePlainln("%d scripts succeeded, %d failed", result.Succeeded, result.Failed)
	return err
}

// logProgress drains progress updates into the debug log until the channel is closed.
func (r *Runner) logProgress() (chan tasks.ProgressUpdate, <-chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase.String(), "step", update.Step, "total", update.Total)
		}
	}()
	return progress, done
}
