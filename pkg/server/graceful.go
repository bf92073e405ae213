// Package server provides the worker's admin HTTP server (health and
// metrics) with graceful shutdown.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dd0wney/cluso-router/pkg/logging"
)

// GracefulServer wraps an HTTP server with graceful shutdown.
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewGracefulServer creates a new graceful HTTP server.
func NewGracefulServer(addr string, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start runs the server until it is shut down. Blocks.
func (gs *GracefulServer) Start() error {
	gs.logger.Info("admin server listening", logging.String("addr", gs.server.Addr))
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the timeout.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("admin server shutting down", logging.Duration("timeout", timeout))
		err = gs.server.Shutdown(ctx)
	})
	return err
}

// IsShuttingDown returns true once shutdown has been initiated.
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}
