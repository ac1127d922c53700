package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunes/internal/shared"
)

const shutdownTimeout = 5 * time.Second

// NewCatalogRouter builds the full middleware stack and routes for store.
func NewCatalogRouter(store Catalog, cfg shared.ServerConfig, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewDiscardLogger()
	}

	r := NewBasicRouter()
	r.Use(Logging(logger), Recover(logger), RateLimit(NewLimiter(cfg)))
	r.Handle(http.MethodGet, "/health", Health())
	r.Handler(NewCatalogHandler(store, shared.WithLogger(logger, "component", "catalog")))
	return r
}

// Serve runs handler on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg shared.ServerConfig, logger *log.Logger) error {
	if logger == nil {
		logger = shared.NewDiscardLogger()
	}

	srv := &http.Server{
		Handler:     handler,
		ReadTimeout: cfg.ReadTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
