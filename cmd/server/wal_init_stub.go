// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !wal || !nats

package main

import (
	"context"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/eventbus"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/supervisor"
)

// WALComponents is a stub for builds without WAL support.
type WALComponents struct{}

// InitWAL returns nil when WAL is disabled via build tags.
func InitWAL(_ context.Context, cfg *config.Config, _ *eventbus.NATSPublisher) (*WALComponents, error) {
	if cfg.WAL.Enabled {
		logging.Warn().Msg("WAL_ENABLED=true but WAL support not compiled (build with -tags wal,nats)")
	}
	return nil, nil
}

// Publisher returns nil when WAL is disabled; the recorder publishes
// through the direct JetStream publisher.
func (c *WALComponents) Publisher() eventbus.Publisher {
	return nil
}

// AddToSupervisor does nothing when WAL is disabled.
func (c *WALComponents) AddToSupervisor(_ *supervisor.SupervisorTree) {}

// Shutdown does nothing when WAL is disabled.
func (c *WALComponents) Shutdown() {}
