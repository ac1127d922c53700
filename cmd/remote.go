package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/services"
	"github.com/desertthunder/tunes/internal/shared"
	"github.com/desertthunder/tunes/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

type remoteReport struct {
	Script        string       `json:"script"`
	URL           string       `json:"url"`
	Ops           []opReport   `json:"ops"`
	PopularArtist string       `json:"popular_artist"`
	PopularSong   string       `json:"popular_song"`
	Stats         models.Stats `json:"stats"`
}

// Remote sends every op in a script to a running server and prints the response bodies.
func (r *Runner) Remote(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("script")
	if path == "" {
		return fmt.Errorf("%w: script path", shared.ErrMissingArgument)
	}

	baseURL := cmd.String("url")
	if baseURL == "" {
		config, err := r.loadConfig(cmd)
		if err != nil {
			return err
		}
		baseURL = "http://" + config.Server.Addr()
	}

	script, err := tasks.LoadScript(path)
	if err != nil {
		return err
	}

	var opts []services.ClientOption
	if perSecond := cmd.Float("rate"); perSecond > 0 {
		opts = append(opts, services.WithLimiter(rate.NewLimiter(rate.Limit(perSecond), 1)))
	}
	client := services.NewClient(baseURL, &http.Client{Timeout: 30 * time.Second}, opts...)

	if err := client.Health(ctx); err != nil {
		return err
	}

	report := remoteReport{Script: script.Name, URL: baseURL, Ops: make([]opReport, 0, len(script.Ops))}
	for i, op := range script.Ops {
		resp, err := client.Apply(ctx, op)
		if err != nil {
			return fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
		}
		r.logger.Debug("op sent", "index", i+1, "op", op.Op, "status", resp.StatusCode)
		report.Ops = append(report.Ops, opReport{Index: i + 1, Op: op.Op, Outcome: resp.Text()})
	}

	if report.PopularArtist, err = client.PopularArtist(ctx); err != nil {
		return err
	}
	if report.PopularSong, err = client.PopularSong(ctx); err != nil {
		return err
	}
	if report.Stats, err = client.Stats(ctx); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader(fmt.Sprintf("Remote: %s → %s", script.Name, baseURL))
	for _, op := range report.Ops {
		r.writePlain("%3d. %-26s %s\n", op.Index, op.Op, op.Outcome)
	}
	s := report.Stats
	r.writePlainln("%d users, %d artists, %d albums, %d songs, %d playlists, %d likes",
		s.Users, s.Artists, s.Albums, s.Songs, s.Playlists, s.Likes)
	r.writePlain("Most popular artist: %s\n", orNone(report.PopularArtist))
	r.writePlain("Most popular song: %s\n", orNone(report.PopularSong))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
