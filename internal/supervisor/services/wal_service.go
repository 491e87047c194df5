// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal

package services

import (
	"context"
)

// WALLooper is the shared lifecycle of the WAL's two background loops,
// *wal.RetryLoop and *wal.Compactor. Start spawns the loop goroutine
// and returns (a second Start is a no-op); Stop cancels it and blocks
// until the current pass finishes. Declared here so this package does
// not import wal.
type WALLooper interface {
	Start(ctx context.Context)
	Stop()
}

// walLoopService is the common Serve implementation for both loops:
// start, park on the context, stop. Stop blocking on the in-flight
// pass is what makes it safe for the supervisor to close BadgerDB
// after the data layer drains.
type walLoopService struct {
	loop WALLooper
	name string
}

func (s *walLoopService) Serve(ctx context.Context) error {
	s.loop.Start(ctx)
	<-ctx.Done()
	s.loop.Stop()
	return ctx.Err()
}

// String names the service in sutureslog output.
func (s *walLoopService) String() string {
	return s.name
}

// WALRetryLoopService supervises the loop that re-publishes pending
// WAL entries to JetStream. Lives in the data layer so a broker outage
// thrashing the retry loop never touches API availability.
type WALRetryLoopService struct {
	walLoopService
}

// NewWALRetryLoopService wraps the retry loop for supervision.
func NewWALRetryLoopService(retryLoop WALLooper) *WALRetryLoopService {
	return &WALRetryLoopService{walLoopService{loop: retryLoop, name: "wal-retry-loop"}}
}

// WALCompactorService supervises the loop that deletes confirmed WAL
// entries and runs Badger value-log GC on the configured interval.
type WALCompactorService struct {
	walLoopService
}

// NewWALCompactorService wraps the compactor for supervision.
func NewWALCompactorService(compactor WALLooper) *WALCompactorService {
	return &WALCompactorService{walLoopService{loop: compactor, name: "wal-compactor"}}
}
