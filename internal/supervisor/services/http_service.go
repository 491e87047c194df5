// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer is the slice of *http.Server this wrapper needs: the
// blocking listener plus graceful shutdown. Declaring it locally keeps
// the tests on a scripted double instead of a real socket.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the REST API server under the supervisor
// tree's api layer. ListenAndServe blocks and knows nothing about
// contexts, so Serve bridges the two models: the listener runs in a
// goroutine while Serve parks on the context, and tree shutdown turns
// into a bounded Shutdown call that drains in-flight requests.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService wraps server for supervision. shutdownTimeout
// bounds connection draining on stop; zero or negative falls back to
// 10 seconds, the tree's default ShutdownTimeout.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service. A listener error before shutdown
// (bind failure, TLS misconfig) comes back wrapped so suture restarts
// the service; http.ErrServerClosed is the expected result of our own
// Shutdown and is swallowed. The shutdown context is fresh because the
// tree's context is already canceled when we get here.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		// Listener returned without an error and without our Shutdown;
		// treat it as a clean external close.
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		// Let the listener goroutine observe ErrServerClosed and exit
		// before reporting the stop.
		<-errCh
		return ctx.Err()
	}
}

// String names the service in sutureslog output.
func (h *HTTPServerService) String() string {
	return h.name
}
