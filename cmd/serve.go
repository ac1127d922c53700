package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tunes/internal/server"
	"github.com/desertthunder/tunes/internal/shared"
	"github.com/desertthunder/tunes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve starts the HTTP request layer over a fresh store and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	cfg := config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, cfg.Port)
	}

	store := r.newStore()
	if path := cmd.String("seed"); path != "" {
		script, err := tasks.LoadScript(path)
		if err != nil {
			return err
		}
		engine := tasks.NewEngine(store, tasks.WithLogger(shared.WithLogger(r.logger, "component", "seed")))
		result, err := engine.Run(ctx, script, nil)
		if err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		r.logger.Info("seeded store", "script", path, "succeeded", result.SuccessCount, "failed", result.FailedCount)
	}

	handler := server.NewCatalogRouter(store, cfg, shared.WithLogger(r.logger, "component", "http"))

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, ln, handler, cfg, r.logger)
}
