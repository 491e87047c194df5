// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package database

import (
	"context"
	"fmt"
	"time"
)

// ensureContext creates a context with 30-second timeout if none provided
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}

	return ctx, func() {}
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, "CHECKPOINT")
	if err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// GetDatabasePath returns the path to the database file
func (db *DB) GetDatabasePath() string {
	return db.cfg.Path
}

// GetRecordCounts returns the count of records in the core tables
func (db *DB) GetRecordCounts(ctx context.Context) (events, messages, setups int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&events)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count events: %w", err)
	}

	err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&messages)
	if err != nil {
		return events, 0, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM setups").Scan(&setups)
	if err != nil {
		return events, messages, 0, fmt.Errorf("failed to count setups: %w", err)
	}

	return events, messages, setups, nil
}
