// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
Package websocket streams recorded events to connected dashboards.

The package implements a hub-and-spoke pattern on gorilla/websocket.
EventFeed subscribes to the event bus and pushes every recorded event
into the Hub, which fans it out to all connected clients:

	┌───────────┐      ┌─────────┐
	│ event bus │─────▶│  Hub    │
	└───────────┘ feed └────┬────┘
	                        │
	          ┌─────────┬───┴─────┬─────────┐
	          │ Client1 │ Client2 │ Client3 │
	          └─────────┴─────────┴─────────┘

Each client runs two goroutines: readPump (handles pings and detects
dead connections) and writePump (delivers hub messages, sends
keepalive pings).

Message Types:

  - event: one recorded event, sent as it is appended to the store
  - sweep_completed: a backlog sweep pass finished
  - ping / pong: client-initiated keepalive

Clients may restrict the feed to specific event channels at connect
time; a client with no filter receives everything. Non-event messages
(sweep_completed, pong) bypass the filter.

The HTTP upgrade lives in internal/api (GET /api/v1/events/live); this
package only manages connections and delivery. Slow clients whose send
buffer fills are disconnected rather than allowed to stall the
broadcast loop.
*/
package websocket
