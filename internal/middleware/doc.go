// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package middleware provides HTTP middleware shared by the API router.
//
// The package contains three middlewares:
//
//   - Compression: gzip response compression with a pooled writer. Requests
//     upgrading to WebSocket (the live event stream) pass through untouched.
//   - PrometheusMetrics: per-request counters and latency histograms. The
//     endpoint label uses the chi route pattern when available so that
//     path parameters (correlation IDs) do not explode label cardinality.
//   - PerformanceMonitor: an in-process sliding window of request timings
//     with per-endpoint percentiles, surfaced by the detailed health
//     endpoint. Prometheus gives fleet-wide histograms; the monitor gives
//     a zero-dependency snapshot for a single process.
//
// Request ID propagation lives in the api package: it is chi-native and
// couples to the logging context, so it sits next to the router that
// mounts it.
package middleware
