// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/tunes/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

// serveCommand starts the HTTP request layer
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog over HTTP on a fresh in-memory store",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port (0 picks a free port)",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "Replay this script into the store before serving",
			},
		},
		Action: r.Serve,
	}
}

// replayCommand runs scripts and reports outcomes
func replayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Aliases:   []string{"run"},
		Usage:     "Replay one or more operation scripts and print outcomes and charts",
		ArgsUsage: "<script.toml> [more.toml...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Report format (%s)", strings.Join(formatter.Formats, ", ")),
				Value:   formatter.FormatText,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum ops per second, 0 for no pacing",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent scripts when replaying several",
				Value: 4,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Also write the report for a single script to this file",
			},
		},
		Action: r.Replay,
	}
}

// remoteCommand replays a script against a running server
func remoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Replay a script against a running tunes server over HTTP",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "script",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Server base URL (defaults to server.host and server.port from config)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum requests per second, 0 for no pacing",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Remote,
	}
}

// exportCommand replays a script and saves the snapshot to sqlite
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Replay a script and save the resulting catalog to the database",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "script",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "db",
				Usage: "Override database.path",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of songs and artists to read back",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Export,
	}
}

// historyCommand lists previous exports
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List snapshots previously saved by export",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "db",
				Usage: "Override database.path",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of exports to list, 0 for all",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// tuiCommand returns the top-level TUI command for browsing a replayed catalog.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Replay a script and browse charts and playlists interactively",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "script",
			},
		},
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum ops per second, 0 for no pacing",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file written while the TUI owns the terminal",
				Value: "./tmp/tunes-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "db",
						Usage: "Override database.path",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
