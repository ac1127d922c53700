package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tunes/internal/catalog"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/server"
	"github.com/desertthunder/tunes/internal/shared"
	tu "github.com/desertthunder/tunes/internal/testing"
	"github.com/urfave/cli/v3"
)

const scenarioPath = "../internal/tasks/testdata/scenario.toml"

func newTestRunner() (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger: shared.NewDiscardLogger(),
		Output: output,
	})
	return runner, output
}

func runApp(ctx context.Context, r *Runner, args ...string) error {
	app := &cli.Command{
		Name:     "tunes",
		Commands: r.register(),
	}
	return app.Run(ctx, append([]string{"tunes"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("SetLogger", func(t *testing.T) {
		runner, _ := newTestRunner()
		original := runner.logger

		runner.SetLogger(nil)
		if runner.logger != original {
			t.Error("expected nil logger to be ignored")
		}

		replacement := shared.NewDiscardLogger()
		runner.SetLogger(replacement)
		if runner.logger != replacement {
			t.Error("expected logger to be replaced")
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner()

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner()

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner, _ := newTestRunner()

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, 0, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			runner, output := newTestRunner()

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln surrounds text with newlines", func(t *testing.T) {
			runner, output := newTestRunner()

			if err := runner.writePlainln("Top %s:", "songs"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\nTop songs:\n" {
				t.Errorf("expected surrounded text, got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, _ := newTestRunner()
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"serve", "replay", "remote", "export", "history", "tui", "setup"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("reads --config when set", func(t *testing.T) {
			dir := t.TempDir()
			path := tu.WriteFile(t, dir, "config.toml", `
[server]
host = "127.0.0.1"
port = 9999
rate_limit = 5
burst = 5
read_timeout = "2s"

[database]
path = "custom.db"
max_open_conns = 1
max_idle_conns = 1

[log]
level = "debug"
`)
			runner, _ := newTestRunner()
			var got *shared.Config
			cmd := &cli.Command{
				Name:  "probe",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					var err error
					got, err = runner.loadConfig(cmd)
					return err
				},
			}

			if err := cmd.Run(context.Background(), []string{"probe", "--config", path}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Database.Path != "custom.db" {
				t.Errorf("expected database path from file, got %q", got.Database.Path)
			}
		})

		t.Run("falls back to runner config", func(t *testing.T) {
			runner, _ := newTestRunner()
			var got *shared.Config
			cmd := &cli.Command{
				Name:  "probe",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					var err error
					got, err = runner.loadConfig(cmd)
					return err
				},
			}

			if err := cmd.Run(context.Background(), []string{"probe"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != runner.config {
				t.Error("expected runner config when --config is not set")
			}
		})

		t.Run("reports missing file", func(t *testing.T) {
			runner, _ := newTestRunner()
			err := runApp(context.Background(), runner, "history", "--config", filepath.Join(t.TempDir(), "nope.toml"))
			if err == nil {
				t.Fatal("expected error for missing config file")
			}
			if !strings.Contains(err.Error(), "failed to load config") {
				t.Errorf("expected load error, got %v", err)
			}
		})
	})
}

func TestReplay(t *testing.T) {
	t.Run("text report", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "replay", scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{
			"Replay: smoke",
			"13 succeeded, 1 failed",
			"Failure: user does not exist",
			"Most popular artist: A",
			"Most popular song: S1",
			"  1. S1 (Alb) - 2 likes",
		} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("json report", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "replay", "--format", "json", scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var report replayReport
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("failed to decode report: %v\n%s", err, output.String())
		}
		if report.Script != "smoke" {
			t.Errorf("expected script smoke, got %q", report.Script)
		}
		if report.Succeeded != 13 || report.Failed != 1 {
			t.Errorf("expected 13/1, got %d/%d", report.Succeeded, report.Failed)
		}
		if report.PopularSong != "S1" || report.PopularArtist != "A" {
			t.Errorf("expected S1 and A, got %q and %q", report.PopularSong, report.PopularArtist)
		}
		if len(report.Ops) != 14 {
			t.Fatalf("expected 14 ops, got %d", len(report.Ops))
		}
		if report.Ops[0].Outcome != "Success" {
			t.Errorf("expected first op to succeed, got %q", report.Ops[0].Outcome)
		}
		if report.Ops[11].Outcome != "Failure: user does not exist" {
			t.Errorf("expected failed like, got %q", report.Ops[11].Outcome)
		}
		if report.Snapshot.Stats.Likes != 2 {
			t.Errorf("expected 2 likes in snapshot, got %d", report.Snapshot.Stats.Likes)
		}
	})

	t.Run("csv report", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "replay", "-f", "csv", scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 songs, got %d lines:\n%s", len(lines), output.String())
		}
		if !strings.HasPrefix(lines[0], "ID,Title,Album,Artist") {
			t.Errorf("unexpected header %q", lines[0])
		}
	})

	t.Run("writes report to --output", func(t *testing.T) {
		runner, _ := newTestRunner()
		path := filepath.Join(t.TempDir(), "reports", "smoke.md")

		if err := runApp(context.Background(), runner, "replay", "--format", "md", "--output", path, scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "# smoke") {
			t.Errorf("expected markdown title, got:\n%s", content)
		}
	})

	t.Run("several scripts", func(t *testing.T) {
		runner, output := newTestRunner()

		err := runApp(context.Background(), runner, "replay", "--workers", "2",
			scenarioPath, "../internal/tasks/testdata/malformed.toml")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Replayed 2 scripts") {
			t.Errorf("expected batch header, got:\n%s", result)
		}
		if !strings.Contains(result, "✓ "+scenarioPath) {
			t.Errorf("expected scenario to succeed, got:\n%s", result)
		}
		if !strings.Contains(result, "✗ ../internal/tasks/testdata/malformed.toml") {
			t.Errorf("expected malformed script to fail, got:\n%s", result)
		}
		if !strings.Contains(result, "1 scripts succeeded, 1 failed") {
			t.Errorf("expected batch summary, got:\n%s", result)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want error
		}{
			{name: "no script", args: []string{"replay"}, want: shared.ErrMissingArgument},
			{name: "bad format", args: []string{"replay", "--format", "xml", scenarioPath}, want: shared.ErrInvalidFlag},
			{name: "output with several scripts", args: []string{"replay", "-o", "x.txt", scenarioPath, scenarioPath}, want: shared.ErrInvalidFlag},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				runner, _ := newTestRunner()
				err := runApp(context.Background(), runner, tt.args...)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("missing script file", func(t *testing.T) {
		runner, _ := newTestRunner()
		err := runApp(context.Background(), runner, "replay", filepath.Join(t.TempDir(), "nope.toml"))
		if err == nil || !strings.Contains(err.Error(), "failed to read script") {
			t.Errorf("expected read error, got %v", err)
		}
	})
}

func TestExport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tunes.db")

	t.Run("saves snapshot and reads charts back", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "export", "--db", dbPath, scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{
			"Exported smoke to " + dbPath,
			"2 users, 1 artists, 1 albums, 2 songs, 2 playlists, 2 likes",
			"  1. S1 (Alb) - 2 likes",
			"  1. A (1 albums) - 2 likes",
		} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "export", "--db", dbPath, "--json", "--limit", "1", scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var report exportReport
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("failed to decode report: %v", err)
		}
		if report.Export == nil || report.Export.ID == "" {
			t.Fatal("expected export with an ID")
		}
		if len(report.TopSongs) != 1 || report.TopSongs[0].Name != "S1" {
			t.Errorf("expected only S1, got %+v", report.TopSongs)
		}
		if report.Counts.Songs != 2 {
			t.Errorf("expected replaced snapshot with 2 songs, got %d", report.Counts.Songs)
		}
	})

	t.Run("history lists every export", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "history", "--db", dbPath, "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var exports []models.Export
		if err := json.Unmarshal(output.Bytes(), &exports); err != nil {
			t.Fatalf("failed to decode history: %v", err)
		}
		if len(exports) != 2 {
			t.Fatalf("expected 2 exports, got %d", len(exports))
		}
		for _, e := range exports {
			if e.Script != "smoke" || e.PopularSong != "S1" {
				t.Errorf("unexpected export %+v", e)
			}
		}
	})

	t.Run("history text", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runApp(context.Background(), runner, "history", "--db", dbPath, "--limit", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Exports (1)") {
			t.Errorf("expected one export, got:\n%s", output.String())
		}
	})

	t.Run("empty history", func(t *testing.T) {
		runner, output := newTestRunner()
		empty := filepath.Join(t.TempDir(), "empty.db")

		if err := runApp(context.Background(), runner, "history", "--db", empty); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No exports") {
			t.Errorf("expected empty message, got %q", output.String())
		}
	})

	t.Run("requires script", func(t *testing.T) {
		runner, _ := newTestRunner()
		err := runApp(context.Background(), runner, "export", "--db", dbPath)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		runner, output := newTestRunner()
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runApp(context.Background(), runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), path) {
			t.Errorf("expected path in output, got %q", output.String())
		}

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected written config to load, got %v", err)
		}

		if err := runApp(context.Background(), runner, "setup", "config", "--config", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database migrate and rollback", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "setup.db")

		runner, output := newTestRunner()
		if err := runApp(context.Background(), runner, "setup", "database", "--db", dbPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "schema version 0001") {
			t.Errorf("expected latest version, got %q", output.String())
		}

		runner, output = newTestRunner()
		if err := runApp(context.Background(), runner, "setup", "database", "--db", dbPath, "--rollback"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "schema version 0000") {
			t.Errorf("expected rolled back version, got %q", output.String())
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("shuts down when context is cancelled", func(t *testing.T) {
		runner, _ := newTestRunner()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := runApp(ctx, runner, "serve", "--host", "127.0.0.1", "--port", "0"); err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})

	t.Run("seeds the store before serving", func(t *testing.T) {
		runner, _ := newTestRunner()
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		if err := runApp(ctx, runner, "serve", "--host", "127.0.0.1", "--port", "0", "--seed", scenarioPath); err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})

	t.Run("rejects out of range port", func(t *testing.T) {
		runner, _ := newTestRunner()
		err := runApp(context.Background(), runner, "serve", "--port", "70000")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestRemote(t *testing.T) {
	cfg := shared.DefaultConfig().Server
	cfg.RateLimit = 0

	t.Run("replays script over HTTP", func(t *testing.T) {
		srv := httptest.NewServer(server.NewCatalogRouter(catalog.New(), cfg, nil))
		defer srv.Close()

		runner, output := newTestRunner()
		if err := runApp(context.Background(), runner, "remote", "--url", srv.URL, scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{
			"Remote: smoke",
			"Failure: user does not exist",
			"2 users, 1 artists, 1 albums, 2 songs, 2 playlists, 2 likes",
			"Most popular artist: A",
			"Most popular song: S1",
		} {
			if !strings.Contains(result, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		srv := httptest.NewServer(server.NewCatalogRouter(catalog.New(), cfg, nil))
		defer srv.Close()

		runner, output := newTestRunner()
		if err := runApp(context.Background(), runner, "remote", "--url", srv.URL, "--json", scenarioPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var report remoteReport
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("failed to decode report: %v", err)
		}
		if len(report.Ops) != 14 {
			t.Fatalf("expected 14 ops, got %d", len(report.Ops))
		}
		if report.Ops[0].Outcome != "Success" {
			t.Errorf("expected first op to succeed, got %q", report.Ops[0].Outcome)
		}
		if report.Ops[12].Outcome != "S1" {
			t.Errorf("expected popular-song answer S1, got %q", report.Ops[12].Outcome)
		}
	})

	t.Run("server unavailable", func(t *testing.T) {
		srv := httptest.NewServer(server.NewCatalogRouter(catalog.New(), cfg, nil))
		addr := srv.URL
		srv.Close()

		runner, _ := newTestRunner()
		err := runApp(context.Background(), runner, "remote", "--url", addr, scenarioPath)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
