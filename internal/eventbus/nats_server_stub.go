// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !nats

package eventbus

import (
	"context"
	"fmt"

	"github.com/tomtom215/tickerflow/internal/config"
)

// EmbeddedServer is a stub when NATS support is not compiled in.
// Build with -tags=nats to enable the embedded JetStream server.
type EmbeddedServer struct {
	clientURL string
}

// NewEmbeddedServer returns an error when NATS support is not compiled
// in. Build with -tags=nats to enable the embedded JetStream server.
func NewEmbeddedServer(cfg config.NATSConfig) (*EmbeddedServer, error) {
	return nil, fmt.Errorf("NATS server not available: build with -tags=nats")
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown is a no-op stub.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	return nil
}

// IsRunning always returns false for the stub.
func (s *EmbeddedServer) IsRunning() bool {
	return false
}

// JetStreamEnabled always returns false for the stub.
func (s *EmbeddedServer) JetStreamEnabled() bool {
	return false
}
