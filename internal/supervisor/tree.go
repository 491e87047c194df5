// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart and shutdown behavior for every supervisor in
// the tree. Zero fields fall back to suture's documented defaults.
type TreeConfig struct {
	// FailureThreshold is how many failures a supervisor tolerates
	// before it backs off restarting. Default 5.
	FailureThreshold float64

	// FailureDecay halves the accumulated failure count every this many
	// seconds. Default 30.
	FailureDecay float64

	// FailureBackoff is how long a supervisor pauses once the threshold
	// is crossed. Default 15s.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds the wait for a service to honor context
	// cancellation before it is reported as unstopped. Default 10s.
	ShutdownTimeout time.Duration
}

// withDefaults fills zero fields with the suture defaults.
func (c TreeConfig) withDefaults() TreeConfig {
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5.0
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = 30.0
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = 15 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// DefaultTreeConfig returns the production defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{}.withDefaults()
}

// SupervisorTree is the process's service hierarchy: a root supervisor
// with one child supervisor per layer.
//
//	tickerflow (root)
//	├── data-layer       WAL retry loop, WAL compactor
//	├── messaging-layer  websocket hub, event feed, sweeper, NATS
//	└── api-layer        HTTP server
//
// Layers isolate failures from each other: a crashing bus consumer is
// restarted inside messaging-layer while the HTTP server keeps serving
// already-stored events, and vice versa.
type SupervisorTree struct {
	root      *suture.Supervisor
	data      *suture.Supervisor
	messaging *suture.Supervisor
	api       *suture.Supervisor
	logger    *slog.Logger
	config    TreeConfig
}

// NewSupervisorTree builds the three-layer tree. Supervisor lifecycle
// events (restarts, backoff, failures) are logged through the given
// slog logger via sutureslog; child supervisors inherit the hook from
// the root when added.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, errors.New("supervisor tree requires a logger")
	}
	config = config.withDefaults()

	hook, err := (&sutureslog.Handler{Logger: logger}).Hook()
	if err != nil {
		return nil, err
	}

	spec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	rootSpec := spec
	rootSpec.EventHook = hook

	t := &SupervisorTree{
		root:      suture.New("tickerflow", rootSpec),
		data:      suture.New("data-layer", spec),
		messaging: suture.New("messaging-layer", spec),
		api:       suture.New("api-layer", spec),
		logger:    logger,
		config:    config,
	}
	t.root.Add(t.data)
	t.root.Add(t.messaging)
	t.root.Add(t.api)
	return t, nil
}

// Root exposes the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddDataService supervises svc in the data layer (WAL loops).
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMessagingService supervises svc in the messaging layer (websocket
// hub, event feed, sweeper, NATS components).
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService supervises svc in the API layer (HTTP server).
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in its own goroutine and returns the
// channel that yields the terminal error once the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that ignored cancellation past
// the shutdown timeout. Called after shutdown to name stuck services.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
