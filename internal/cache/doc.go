// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
Package cache provides in-memory response caching for the statistics
and flow endpoints.

Two implementations sit behind the Cacher interface:

  - Cache: TTL-based, unbounded, with a background cleanup loop.
    The default; right for uniform access patterns.
  - LFUCache: capacity-bounded with least-frequently-used eviction
    and lazy TTL expiry. Better hit rates when a few hot queries
    dominate (dashboards polling the same statistics windows).

The strategy is chosen per deployment through NewFromConfig; callers
only see Cacher. Keys are derived from the query parameters with
GenerateKey so equivalent requests share an entry.

Aggregate queries over the events table are the expensive path in this
service. A short TTL (seconds, not minutes) keeps dashboards fresh
while collapsing their polling into one DuckDB query per window.
*/
package cache
