package apiseed

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karloscodes/apiseed/config"
	"github.com/karloscodes/apiseed/logging"
)

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 10 * time.Second

// Application ties the configuration, the logger and the HTTP server
// together and owns their lifecycle.
type Application struct {
	Config *config.Config
	Logger *logging.Logger
	Server *Server

	// ShutdownTimeout bounds graceful shutdown. Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Run serves requests until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutting down gracefully...")

		timeout := a.ShutdownTimeout
		if timeout <= 0 {
			timeout = DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Graceful shutdown failed", slog.Any("error", err))
			return err
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info("Shutdown complete")
	return nil
}

// Close releases the log file and stops its rotation.
func (a *Application) Close() error {
	if a.Logger == nil {
		return nil
	}
	return a.Logger.Close()
}
