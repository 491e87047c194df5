// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
crud_setups.go - Parsed Setup Operations

Setups collide on (ticker, trading_date) and the configured duplicate
policy decides the outcome: replace drops the old row, skip drops the
new one, allow keeps both. Because allow is legal, the table carries no
unique constraint; instead SaveSetups serializes writers per key with
an in-process lock and runs the check-then-write inside a transaction.

A single writer process owns the setups table, so in-process locking is
sufficient and keeps DuckDB's optimistic concurrency from turning
same-key races into transaction conflicts.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

// SaveResult reports what SaveSetups did with a batch.
type SaveResult struct {
	Saved    int // rows inserted
	Skipped  int // discarded under the skip policy
	Replaced int // keys whose previous row was dropped under replace
}

// SaveSetups persists parsed setups under the given duplicate policy.
// Setups are processed in slice order; IDs and creation timestamps are
// filled in on the way through. Partial progress is possible on error:
// setups before the failing one stay saved, matching the pipeline's
// at-least-once stance (a re-parse converges under every policy).
func (db *DB) SaveSetups(ctx context.Context, setups []models.ParsedSetup, policy models.DuplicatePolicy) (SaveResult, error) {
	var res SaveResult

	for i := range setups {
		outcome, err := db.saveSetup(ctx, &setups[i], policy)
		if err != nil {
			return res, err
		}
		switch outcome {
		case setupInserted:
			res.Saved++
		case setupSkipped:
			res.Skipped++
		case setupReplaced:
			res.Saved++
			res.Replaced++
		}
	}

	return res, nil
}

type setupOutcome int

const (
	setupInserted setupOutcome = iota
	setupSkipped
	setupReplaced
)

// saveSetup handles one setup under the per-key lock.
func (db *DB) saveSetup(ctx context.Context, setup *models.ParsedSetup, policy models.DuplicatePolicy) (setupOutcome, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	key := setup.Ticker + "|" + setup.TradingDate
	lock := db.setupLock(key)
	lock.Lock()
	defer lock.Unlock()

	if setup.CreatedAt.IsZero() {
		setup.CreatedAt = time.Now().UTC()
	}

	switch policy {
	case models.PolicyAllow:
		if err := db.insertSetup(ctx, db.conn, setup); err != nil {
			return 0, err
		}
		return setupInserted, nil

	case models.PolicySkip:
		exists, err := db.setupExists(ctx, setup.Ticker, setup.TradingDate)
		if err != nil {
			return 0, err
		}
		if exists {
			return setupSkipped, nil
		}
		if err := db.insertSetup(ctx, db.conn, setup); err != nil {
			return 0, err
		}
		return setupInserted, nil

	case models.PolicyReplace:
		return db.replaceSetup(ctx, setup)

	default:
		return 0, storageError("save setup", errUnknownPolicy(policy))
	}
}

// replaceSetup atomically swaps any existing rows for the key with the
// new setup.
func (db *DB) replaceSetup(ctx context.Context, setup *models.ParsedSetup) (setupOutcome, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageError("begin replace setup", err)
	}
	defer rollbackQuietly(tx)

	result, err := tx.ExecContext(ctx,
		`DELETE FROM setups WHERE ticker = ? AND trading_date = CAST(? AS DATE)`,
		setup.Ticker, setup.TradingDate)
	if err != nil {
		return 0, storageError("replace setup delete", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, storageError("replace setup rows affected", err)
	}

	if err := db.insertSetup(ctx, tx, setup); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, storageError("commit replace setup", err)
	}

	if deleted > 0 {
		return setupReplaced, nil
	}
	return setupInserted, nil
}

// execer covers *sql.DB and *sql.Tx for the insert statement.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (db *DB) insertSetup(ctx context.Context, ex execer, setup *models.ParsedSetup) error {
	query := `INSERT INTO setups (
		ticker, setup_type, price_level, trading_date,
		source_message_id, raw_context, content_length, created_at
	) VALUES (?, ?, ?, CAST(? AS DATE), ?, ?, ?, ?) RETURNING id`

	err := ex.QueryRowContext(ctx, query,
		setup.Ticker,
		string(setup.SetupType),
		nullableFloat(setup.PriceLevel),
		setup.TradingDate,
		setup.SourceMessageID,
		setup.RawContext,
		setup.ContentLength,
		setup.CreatedAt,
	).Scan(&setup.ID)
	if err != nil {
		return storageError("insert setup", err)
	}
	return nil
}

func (db *DB) setupExists(ctx context.Context, ticker, tradingDate string) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM setups WHERE ticker = ? AND trading_date = CAST(? AS DATE))`,
		ticker, tradingDate).Scan(&exists)
	if err != nil {
		return false, storageError("setup exists", err)
	}
	return exists, nil
}

// ListSetups returns setups matching the filter, newest first.
func (db *DB) ListSetups(ctx context.Context, filter SetupFilter) ([]models.ParsedSetup, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause()
	query := `SELECT id, ticker, setup_type, price_level, trading_date,
		source_message_id, raw_context, content_length, created_at
		FROM setups` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, filter.normalizedLimit(), filter.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("list setups", err)
	}
	defer closeQuietly(rows)

	setups := make([]models.ParsedSetup, 0)
	for rows.Next() {
		var (
			s           models.ParsedSetup
			setupType   string
			priceLevel  sql.NullFloat64
			tradingDate time.Time
		)
		if err := rows.Scan(&s.ID, &s.Ticker, &setupType, &priceLevel, &tradingDate,
			&s.SourceMessageID, &s.RawContext, &s.ContentLength, &s.CreatedAt); err != nil {
			return nil, storageError("scan setup", err)
		}
		s.SetupType = models.SetupType(setupType)
		if priceLevel.Valid {
			p := priceLevel.Float64
			s.PriceLevel = &p
		}
		s.TradingDate = tradingDate.Format("2006-01-02")
		s.CreatedAt = s.CreatedAt.UTC()
		setups = append(setups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate setups", err)
	}

	return setups, nil
}

// CountSetups returns the number of setups matching the filter,
// ignoring its limit and offset.
func (db *DB) CountSetups(ctx context.Context, filter SetupFilter) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause()
	var count int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM setups`+where, args...).Scan(&count); err != nil {
		return 0, storageError("count setups", err)
	}
	return count, nil
}

// setupLock returns the mutex serializing writes for one
// (ticker, trading_date) key.
func (db *DB) setupLock(key string) *sync.Mutex {
	actual, _ := db.setupLocks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func rollbackQuietly(tx *sql.Tx) {
	_ = tx.Rollback()
}

type policyError string

func (e policyError) Error() string {
	return "unknown duplicate policy " + string(e)
}

func errUnknownPolicy(p models.DuplicatePolicy) error {
	return policyError(p)
}
