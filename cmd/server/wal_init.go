// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal && nats

package main

import (
	"context"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/eventbus"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/supervisor"
	"github.com/tomtom215/tickerflow/internal/supervisor/services"
	"github.com/tomtom215/tickerflow/internal/wal"
)

// WALComponents holds the publish write-ahead log and its background
// loops for lifecycle management.
type WALComponents struct {
	wal       *wal.BadgerWAL
	durable   *eventbus.DurablePublisher
	retryLoop *wal.RetryLoop
	compactor *wal.Compactor
}

// InitWAL opens the publish WAL and wraps the JetStream publisher with
// it, so no event notification is lost to a broker outage or crash.
// Entries left pending by a previous run are re-published before the
// pipeline records anything new. Returns nil, nil when WAL_ENABLED=false.
//
// The retry loop and compactor are created here but started by the
// supervisor tree's data layer; see AddToSupervisor.
func InitWAL(ctx context.Context, cfg *config.Config, publisher *eventbus.NATSPublisher) (*WALComponents, error) {
	if !cfg.WAL.Enabled {
		logging.Warn().Msg("WAL disabled (WAL_ENABLED=false). Unpublished events are lost if NATS fails.")
		return nil, nil
	}

	logging.Info().
		Str("dir", cfg.WAL.Dir).
		Bool("sync_writes", cfg.WAL.SyncWrites).
		Msg("Initializing WAL...")

	w, err := wal.Open(cfg.WAL)
	if err != nil {
		return nil, err
	}

	durable, err := eventbus.NewDurablePublisher(publisher, w)
	if err != nil {
		if closeErr := w.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing WAL after publisher creation failure")
		}
		return nil, err
	}

	// Recovery is best-effort: entries that still fail stay pending
	// for the retry loop.
	retryPub := durable.RetryPublisher()
	result, err := wal.Recover(ctx, w, retryPub)
	if err != nil {
		logging.Warn().Err(err).Msg("WAL recovery error")
	} else if result.TotalPending > 0 {
		logging.Info().
			Int("total", result.TotalPending).
			Int("recovered", result.Recovered).
			Int("failed", result.Failed).
			Msg("WAL recovery completed")
	}

	components := &WALComponents{
		wal:       w,
		durable:   durable,
		retryLoop: wal.NewRetryLoop(w, retryPub),
		compactor: wal.NewCompactor(w),
	}

	logging.Info().Msg("WAL initialized successfully")
	return components, nil
}

// Publisher returns the WAL-backed event publisher. The event recorder
// uses it instead of the direct JetStream publisher when WAL is on.
func (c *WALComponents) Publisher() eventbus.Publisher {
	if c == nil {
		return nil
	}
	return c.durable
}

// AddToSupervisor adds the retry loop and compactor to the supervisor
// tree's data layer. Nil-safe so the nats wiring can call it
// unconditionally.
func (c *WALComponents) AddToSupervisor(tree *supervisor.SupervisorTree) {
	if c == nil {
		return
	}
	tree.AddDataService(services.NewWALRetryLoopService(c.retryLoop))
	tree.AddDataService(services.NewWALCompactorService(c.compactor))
	logging.Info().Msg("WAL retry loop and compactor added to supervisor tree (data layer)")
}

// Shutdown stops the background loops and closes the WAL. The loops'
// Stop methods wait for in-flight passes, so closing BadgerDB after
// they return is safe even when the supervisor is stopping the same
// loops concurrently.
func (c *WALComponents) Shutdown() {
	if c == nil {
		return
	}

	logging.Info().Msg("Shutting down WAL components...")

	c.retryLoop.Stop()
	c.compactor.Stop()

	if err := c.wal.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing WAL")
	}

	logging.Info().Msg("WAL shutdown complete")
}
