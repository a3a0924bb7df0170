// Package lifecycle runs an HTTP service until a shutdown signal arrives.
package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/recrutment/hireai/internal/logger"
)

const DefaultShutdownTimeout = 15 * time.Second

// Server is the part of *http.Server that Run drives.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

// Builder constructs the server and returns a cleanup for everything it opened.
type Builder func() (Server, func(), error)

type httpServer struct{ *http.Server }

func (s httpServer) Addr() string { return s.Server.Addr }

// HTTP adapts a bootstrap constructor returning *http.Server.
func HTTP(build func() (*http.Server, func(), error)) Builder {
	return func() (Server, func(), error) {
		srv, cleanup, err := build()
		if err != nil {
			return nil, nil, err
		}
		return httpServer{srv}, cleanup, nil
	}
}

// Main initializes logging, runs the service until SIGINT/SIGTERM and exits
// with Run's status code.
func Main(service string, build Builder) {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	code := Run(build, sigCh, zlog.Logger.With().Str("service", service).Logger(), DefaultShutdownTimeout)
	signal.Stop(sigCh)
	os.Exit(code)
}

// Run starts the server and blocks until a signal or a listener failure.
// It returns 0 after a signal-triggered shutdown and 1 when bootstrap or the
// listener fails. Cleanup runs in both cases once the server was built.
func Run(build Builder, sigCh <-chan os.Signal, lg zerolog.Logger, shutdownTimeout time.Duration) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		lg.Error().Err(err).Msg("server crashed")
		return 1
	}

	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}

	lg.Info().Msg("shutdown complete")
	return 0
}
