// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
Package supervisor owns Tickerflow's process lifecycle with an
Erlang-style supervision tree built on suture v4.

The tree is fixed at three child supervisors under one root, grouped so
failures stay inside the layer that caused them:

	tickerflow (root)
	├── data-layer       WAL retry loop, WAL compactor       (build tag: wal)
	├── messaging-layer  websocket hub, event feed, sweeper,
	│                    NATS components                     (nats tag for NATS)
	└── api-layer        HTTP server

A sweeper stuck in crash-restart never touches the HTTP server's slot,
and a flapping JetStream connection never takes down WebSocket clients:
each layer keeps its own failure counter and backs off independently.

Main builds the tree once, registers services through AddDataService /
AddMessagingService / AddAPIService (internal/supervisor/services has
the wrappers), then hands the root context to ServeBackground:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	...
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Canceling the context stops every layer; UnstoppedServiceReport names
any service that ignored its shutdown deadline, which main logs before
exiting so a hung goroutine is visible in the last lines of output.

TreeConfig maps straight onto suture.Spec: FailureThreshold failures
(decaying over FailureDecay seconds) trip a FailureBackoff pause before
the next restart, and ShutdownTimeout bounds each service's stop. The
zero value takes suture's defaults via DefaultTreeConfig.

Supervision log lines flow through sutureslog into the process-wide
zerolog output; internal/logging's slog adapter is the bridge.

Deliberately outside the tree: DuckDB, which is an embedded library
whose handle main opens before the tree and closes after it, and the
in-process channel bus, which has no goroutines of its own (its
consumers are the supervised services).
*/
package supervisor
