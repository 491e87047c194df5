// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package api provides the HTTP surface: REST endpoints over chi, the
// WebSocket live event feed, and the middleware stack.
//
// # Endpoints
//
// Write side:
//   - POST /api/v1/messages   submit a raw chat message to the pipeline
//   - POST /api/v1/events     append a lifecycle event from an external
//     collaborator (chat bots, schedulers)
//
// Read side:
//   - GET /api/v1/events                  filtered event listing
//   - GET /api/v1/events/statistics      event store aggregates
//   - GET /api/v1/events/live            WebSocket feed of recorded events
//   - GET /api/v1/flows/recent           per-correlation flow summaries
//   - GET /api/v1/flows/{correlationID}  full flow timeline + completeness
//   - GET /api/v1/setups                 parsed setups with ticker/date filters
//   - GET /api/v1/stats/{parsing,audit,latency,health}  pipeline statistics
//
// Operations:
//   - GET /api/v1/health, /health/live, /health/ready, /health/performance
//   - GET /metrics (Prometheus), GET /swagger/* (when enabled)
//
// # Envelope
//
// Every response uses models.APIResponse: Status ("success"/"error"),
// Data, Metadata (timestamp, query time, cache flag), and Error with a
// stable code (VALIDATION_ERROR, INVALID_REQUEST, STORAGE_ERROR,
// NOT_FOUND, METHOD_NOT_ALLOWED, SERVICE_UNAVAILABLE).
//
// # Middleware
//
// Global: request-ID propagation with logging context, real IP
// extraction, panic recovery, CORS (go-chi/cors, global so OPTIONS
// preflight works). Per group: rate limiting (go-chi/httprate), security
// headers, Prometheus instrumentation, gzip compression, and the
// in-process performance monitor.
//
// Handlers depend on narrow consumer-side interfaces (Store,
// MessageProcessor, FlowTracer, HealthReader, EventRecorder) so tests
// run against fakes without a database.
package api
