// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and
pipeline health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Database query performance
  - Ingestion outcomes, dedup rate and audit flags
  - Parse outcomes and duplicate-policy decisions
  - Event bus publish/consume volume
  - Circuit breaker state transitions
  - Cache hit/miss rates
  - WebSocket connection counts

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8420/metrics

# Usage

Metrics are package-level collectors registered via promauto; components
record through the helper functions rather than touching collectors
directly:

	metrics.RecordIngest("stored", lag, flags.IsWeekend, flags.IsOutOfHours, flags.IsBackdated)
	metrics.RecordParse("setup", len(setups), time.Since(start))

Gauges that track external state (parse backlog, WAL depth, health
verdict) are refreshed by their owning components on their own cadence.
*/
package metrics
