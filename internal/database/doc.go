// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package database provides the DuckDB-backed persistence layer for
// Tickerflow: the append-only event store, the ingested message table,
// and the parsed setup table with its policy-driven upsert path.
//
// # Architecture
//
// The package is organized into domain-specific files:
//
// Core database operations:
//   - database.go: Lifecycle (connection, initialization, cleanup)
//   - database_schema.go: Table, sequence, and index management
//   - database_connection.go: Pool configuration and error classification
//   - database_utils.go: Context management, checkpointing, record counts
//   - errors.go: StorageError wrapping and ErrNotFound
//   - filter.go: Filter structs and WHERE clause construction
//
// Row operations:
//   - crud_events.go: Event append (sequence-ordered ids) and queries
//   - crud_messages.go: Message insert-once semantics and parse tracking
//   - crud_setups.go: Setup writes under the duplicate policy
//   - crud_stats.go: Rolling-window aggregates for the dashboard
//
// # Database Technology
//
// DuckDB (github.com/duckdb/duckdb-go/v2, CGO-based) is the storage
// engine. The workload is append-heavy with analytical reads: quantile
// aggregates, grouped rollups, and correlation flow summaries all push
// down into SQL rather than scanning rows in Go.
//
// # Concurrency
//
// A single *DB is safe for concurrent use. Event appends rely on a
// store-generated sequence for a total id order; message inserts are
// made idempotent by the message_id primary key; setup writes are
// serialized per (ticker, trading_date) with in-process key locks.
package database
