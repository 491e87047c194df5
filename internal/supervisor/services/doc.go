// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
Package services adapts Tickerflow's long-running components to the
suture.Service interface so the supervisor tree can own their lifecycle.

Each component in the repo exposes one of three lifecycle shapes, and
each wrapper here translates exactly one of them into suture's
context-aware Serve:

  - Start/Stop (pipeline.Sweeper, wal.RetryLoop, wal.Compactor): Serve
    calls Start, parks on ctx.Done(), then Stop, which blocks until the
    in-flight pass finishes.
  - Blocking run (websocket.Hub.RunWithContext, eventbus handlers' Run):
    Serve is a straight delegation; the component already honors
    cancellation.
  - ListenAndServe/Shutdown (*http.Server): Serve runs the listener in a
    goroutine and drives Shutdown with a bounded fresh context when the
    tree stops, because the original context is already canceled by then.

Every wrapper takes the component behind a locally declared interface
rather than the concrete type. That keeps this package import-free of
pipeline, websocket, eventbus, and wal (no cycles through the supervisor)
and lets the tests substitute scripted doubles.

The wrappers by tree layer:

	data layer:      WALRetryLoopService, WALCompactorService (build tag: wal)
	messaging layer: WebSocketHubService, EventFeedService, SweeperService,
	                 NATSComponentsService (build tag: nats)
	api layer:       HTTPServerService

Return-value contract, identical across wrappers: ctx.Err() after a
requested shutdown, a wrapped component error after a crash (suture
restarts with backoff), and suture's sentinel errors pass through
untouched.

All wrappers implement fmt.Stringer; the fixed names ("http-server",
"sweeper", "wal-retry-loop", ...) are what sutureslog prints on start,
stop, and restart, so they stay stable for log grepping.
*/
package services
