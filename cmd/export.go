package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/repositories"
	"github.com/desertthunder/tunes/internal/shared"
	"github.com/desertthunder/tunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

type exportReport struct {
	Export     *models.Export      `json:"export"`
	Counts     models.Stats        `json:"counts"`
	TopSongs   []models.ChartEntry `json:"top_songs"`
	TopArtists []models.ChartEntry `json:"top_artists"`
}

// databaseConfig returns the database settings from the loaded config with --db applied.
func (r *Runner) databaseConfig(cmd *cli.Command) (shared.DatabaseConfig, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return shared.DatabaseConfig{}, err
	}

	cfg := config.Database
	if path := cmd.String("db"); path != "" {
		cfg.Path = path
	}
	if cfg.Path == "" {
		return cfg, fmt.Errorf("%w: database path", shared.ErrMissingConfig)
	}
	return cfg, nil
}

// Export replays a script and saves the resulting snapshot, then reads the charts back from the database.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("script")
	if path == "" {
		return fmt.Errorf("%w: script path", shared.ErrMissingArgument)
	}

	cfg, err := r.databaseConfig(cmd)
	if err != nil {
		return err
	}

	script, err := tasks.LoadScript(path)
	if err != nil {
		return err
	}

	store := r.newStore()
	engine := tasks.NewEngine(store, tasks.WithLogger(shared.WithLogger(r.logger, "script", script.Name)))
	run, err := engine.Run(ctx, script, nil)
	if err != nil {
		return fmt.Errorf("replay of %s interrupted: %w", script.Name, err)
	}
	r.logger.Info("replayed script", "script", script.Name, "succeeded", run.SuccessCount, "failed", run.FailedCount)

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	snap := store.Snapshot()
	snapshots := repositories.NewSnapshotRepository(db)
	if err := snapshots.Save(snap); err != nil {
		return err
	}

	export := repositories.NewExport(script.Name, snap)
	if err := repositories.NewExportRepository(db).Create(export); err != nil {
		return err
	}
	r.logger.Info("saved snapshot", "id", export.ID, "db", cfg.Path)

	limit := cmd.Int("limit")
	report := exportReport{Export: export}
	if report.Counts, err = snapshots.Counts(); err != nil {
		return err
	}
	if report.TopSongs, err = snapshots.TopSongs(limit); err != nil {
		return err
	}
	if report.TopArtists, err = snapshots.TopArtists(limit); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	c := report.Counts
	r.writePlainHeader(fmt.Sprintf("Exported %s to %s", script.Name, cfg.Path))
	r.writePlain("Export ID: %s\n", export.ID)
	r.writePlain("%d users, %d artists, %d albums, %d songs, %d playlists, %d likes\n",
		c.Users, c.Artists, c.Albums, c.Songs, c.Playlists, c.Likes)

	r.writePlainln("Top songs:")
	r.writeChart(report.TopSongs)
	r.writePlainln("Top artists:")
	r.writeChart(report.TopArtists)
	return nil
}

func (r *Runner) writeChart(entries []models.ChartEntry) {
	if len(entries) == 0 {
		r.writePlain("  (none)\n")
		return
	}
	for _, e := range entries {
		r.writePlain("%3d. %s (%s) - %d likes\n", e.Rank, e.Name, e.Detail, e.Likes)
	}
}

// History lists saved exports, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.databaseConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	exports, err := repositories.NewExportRepository(db).List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(exports, true)
	}

	if len(exports) == 0 {
		r.writePlain("No exports in %s\n", cfg.Path)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Exports (%d)", len(exports)))
	for _, e := range exports {
		r.writePlain("%s  %s  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.ID, e.Script)
		r.writePlain("    %d songs, %d likes, popular artist %q, popular song %q\n",
			e.Stats.Songs, e.Stats.Likes, e.PopularArtist, e.PopularSong)
	}
	return nil
}
