// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !nats

package main

import (
	"context"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/eventbus"
	"github.com/tomtom215/tickerflow/internal/logging"
	ws "github.com/tomtom215/tickerflow/internal/websocket"
)

// NATSComponents is a stub for non-NATS builds.
type NATSComponents struct{}

// InitNATS is a no-op stub for non-NATS builds.
// Returns nil to indicate NATS is not available; main falls back to
// the in-process Go channel bus.
func InitNATS(cfg *config.Config, _ *ws.Hub) (*NATSComponents, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}

// Start is a no-op stub for non-NATS builds.
func (c *NATSComponents) Start(_ context.Context) error {
	return nil
}

// Shutdown is a no-op stub for non-NATS builds.
func (c *NATSComponents) Shutdown(_ context.Context) {}

// IsRunning returns false for non-NATS builds.
func (c *NATSComponents) IsRunning() bool {
	return false
}

// EventPublisher returns nil for non-NATS builds.
func (c *NATSComponents) EventPublisher() eventbus.Publisher {
	return nil
}
