package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunes/internal/shared"
	"github.com/desertthunder/tunes/internal/tasks"
	"github.com/desertthunder/tunes/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI replays a script inside the terminal UI and then lets the user browse the charts.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("script")
	if path == "" {
		return fmt.Errorf("%w: script path", shared.ErrMissingArgument)
	}

	script, err := tasks.LoadScript(path)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := tasks.NewEngine(r.newStore(),
		tasks.WithRate(cmd.Float("rate")),
		tasks.WithLogger(shared.WithLogger(r.logger, "script", script.Name)),
	)

	model := ui.NewModel(ctx, engine, script)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
