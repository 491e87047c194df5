// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build nats

package services

import (
	"context"
	"fmt"
	"time"
)

// NATSComponentsRunner is the lifecycle slice of cmd/server's
// NATSComponents bundle: embedded server, JetStream stream
// provisioning, publisher, and the live-feed subscriber all start and
// drain together. Declared here so this package never imports main.
type NATSComponentsRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// NATSComponentsService supervises the JetStream transport in the
// messaging layer. The bundle uses Start/Shutdown rather than a
// blocking run, so Serve holds the slot: start everything, park until
// the tree stops, then drain subscriptions under a bounded context.
type NATSComponentsService struct {
	components      NATSComponentsRunner
	shutdownTimeout time.Duration
	name            string
}

// NewNATSComponentsService wraps components with the default 10 second
// drain budget, matching the tree's ShutdownTimeout.
func NewNATSComponentsService(components NATSComponentsRunner) *NATSComponentsService {
	return NewNATSComponentsServiceWithTimeout(components, 10*time.Second)
}

// NewNATSComponentsServiceWithTimeout wraps components with an explicit
// drain budget; zero or negative falls back to 10 seconds.
func NewNATSComponentsServiceWithTimeout(components NATSComponentsRunner, shutdownTimeout time.Duration) *NATSComponentsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSComponentsService{
		components:      components,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-components",
	}
}

// Serve implements suture.Service. A Start failure (port in use, store
// dir unwritable, stream provisioning rejected) returns immediately so
// suture retries with backoff. Shutdown gets a fresh context because
// the tree's context is already canceled once we reach it.
func (s *NATSComponentsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("NATS components start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.components.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String names the service in sutureslog output.
func (s *NATSComponentsService) String() string {
	return s.name
}
