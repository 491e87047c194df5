// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package services

import (
	"context"
	"fmt"
)

// SweepRunner interface matches the backlog sweeper lifecycle.
//
// This interface allows the SweeperService to work with the sweeper
// without importing the pipeline package, avoiding circular dependencies.
//
// Satisfied by *pipeline.Sweeper:
//   - Start(ctx context.Context) error
//   - Stop() error
type SweepRunner interface {
	Start(ctx context.Context) error
	Stop() error
}

// SweeperService wraps the backlog sweeper as a supervised service.
//
// The sweeper periodically re-parses pending raw messages that missed
// their inline parse, so a crash between storage and parsing never
// strands a message.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the sweep loop
//  2. Waits for context cancellation
//  3. Calls Stop() for graceful shutdown (waits for the current pass)
//
// Example usage:
//
//	sweeper := pipeline.NewSweeper(p, cfg.Pipeline)
//	svc := services.NewSweeperService(sweeper)
//	tree.AddMessagingService(svc)
type SweeperService struct {
	sweeper SweepRunner
	name    string
}

// NewSweeperService creates a new sweeper service wrapper.
func NewSweeperService(sweeper SweepRunner) *SweeperService {
	return &SweeperService{
		sweeper: sweeper,
		name:    "sweeper",
	}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the sweep loop (which spawns its background goroutine)
//  2. Blocks until the context is canceled
//  3. Stops the sweeper (which waits for any in-flight pass to finish)
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *SweeperService) Serve(ctx context.Context) error {
	// Start the sweep loop
	if err := s.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("sweeper start failed: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the sweeper - this blocks until the in-flight pass completes
	if err := s.sweeper.Stop(); err != nil {
		return fmt.Errorf("sweeper stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *SweeperService) String() string {
	return s.name
}
