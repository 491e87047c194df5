// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
database_schema.go - Database Schema Management

This file manages the DuckDB database schema including sequence, table
and index creation.

Tables:
  - events: Append-only correlation log. Every processing step in the
    pipeline lands here. Rows are never updated or deleted.
  - messages: Raw chat messages with ingestion bookkeeping. message_id
    is the natural primary key and the deduplication anchor.
  - setups: Structured trading setups extracted by the parser. No
    unique constraint on (ticker, trading_date): the allow duplicate
    policy legitimately stores several rows per key, so policy
    enforcement happens in SaveSetups under a per-key lock.

ID Strategy:
events.id and setups.id draw from DuckDB sequences, giving a single
monotonically increasing insertion order per table. For events this
order is the contract behind correlation traces.

Index Strategy:
  - events(correlation_id): trace reads must not scan the full log
  - events(created_at DESC): recent-first query default
  - events(channel), events(event_type): filter dimensions
  - messages(stored_at DESC), partial parse backlog via parsed_at
  - setups(ticker, trading_date): policy checks and setup listings
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the sequences and core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := db.getTableCreationQueries()

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the sequence and table creation SQL
// statements in dependency order.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		// Sequences must exist before the tables that default to them
		`CREATE SEQUENCE IF NOT EXISTS seq_events_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_setups_id START 1;`,

		// Events table - append-only correlation log
		`CREATE TABLE IF NOT EXISTS events (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_events_id'),
			channel TEXT NOT NULL,
			event_type TEXT NOT NULL,
			source TEXT NOT NULL,
			correlation_id TEXT,
			data JSON NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		// Messages table - raw chat archive with ingestion bookkeeping
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			channel_ref TEXT NOT NULL DEFAULT '',
			author_id TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			platform_timestamp TIMESTAMPTZ NOT NULL,
			stored_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			correlation_id TEXT NOT NULL,
			is_weekend BOOLEAN NOT NULL DEFAULT FALSE,
			is_out_of_hours BOOLEAN NOT NULL DEFAULT FALSE,
			is_backdated BOOLEAN NOT NULL DEFAULT FALSE,
			time_to_ingest_ms BIGINT NOT NULL DEFAULT 0,
			parsed_at TIMESTAMPTZ
		);`,

		// Setups table - parser output. Deliberately no unique key on
		// (ticker, trading_date); see file comment.
		`CREATE TABLE IF NOT EXISTS setups (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_setups_id'),
			ticker TEXT NOT NULL,
			setup_type TEXT NOT NULL,
			price_level DOUBLE,
			trading_date DATE NOT NULL,
			source_message_id TEXT NOT NULL,
			raw_context TEXT NOT NULL,
			content_length INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
}

// createIndexes creates database indexes for query optimization.
// Skips index creation if cfg.SkipIndexes is true (for fast test setup).
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}

	return db.doCreateIndexes()
}

// CreateIndexes creates all database indexes. Exposed for tests that
// specifically need indexes while using SkipIndexes for fast setup.
func (db *DB) CreateIndexes() error {
	return db.doCreateIndexes()
}

// doCreateIndexes is the internal implementation that creates all indexes.
func (db *DB) doCreateIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := db.getIndexQueries()

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		// Correlation traces read by correlation_id; this index keeps
		// trace reconstruction off the full event log
		`CREATE INDEX IF NOT EXISTS idx_events_correlation_id ON events(correlation_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_events_channel ON events(channel);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);`,
		`CREATE INDEX IF NOT EXISTS idx_events_channel_created ON events(channel, created_at DESC);`,

		// Message listings and stats windows
		`CREATE INDEX IF NOT EXISTS idx_messages_stored_at ON messages(stored_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_correlation_id ON messages(correlation_id);`,
		// Backlog sweeps select unparsed messages in arrival order
		`CREATE INDEX IF NOT EXISTS idx_messages_parsed_at ON messages(parsed_at, stored_at);`,

		// Setup listings and duplicate policy checks
		`CREATE INDEX IF NOT EXISTS idx_setups_ticker_date ON setups(ticker, trading_date);`,
		`CREATE INDEX IF NOT EXISTS idx_setups_trading_date ON setups(trading_date DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_setups_source_message ON setups(source_message_id);`,
		`CREATE INDEX IF NOT EXISTS idx_setups_created_at ON setups(created_at DESC);`,
	}
}
