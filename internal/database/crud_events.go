// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
crud_events.go - Event Store Operations

The events table is the append-only heart of the system. Every append
is validated, assigned a sequence id, and never touched again. Reads
come in two shapes:

  - QueryEvents: filtered, recent-first pages for the API
  - GetEventsByCorrelation: one flow's events in insertion order, the
    read behind trace reconstruction

There is no update or delete path on purpose.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/models"
)

// AppendEvent validates and inserts one event, assigning its sequence
// id and creation timestamp. A *models.ValidationError is returned for
// malformed input; nothing is written in that case.
func (db *DB) AppendEvent(ctx context.Context, event *models.Event) error {
	if verr := models.ValidateEventInput(event.Channel, event.Source, event.Data); verr != nil {
		return verr
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO events (channel, event_type, source, correlation_id, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return storageError("append event", err)
	}

	err = stmt.QueryRowContext(ctx,
		string(event.Channel),
		string(event.EventType),
		event.Source,
		nullIfEmpty(event.CorrelationID),
		string(event.Data),
		event.CreatedAt,
	).Scan(&event.ID)
	if err != nil {
		return storageError("append event", err)
	}

	return nil
}

// QueryEvents returns events matching the filter, newest first. The
// sequence id breaks created_at ties so pages are stable.
func (db *DB) QueryEvents(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause()
	query := `SELECT id, channel, event_type, source, correlation_id, data, created_at
		FROM events` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, filter.normalizedLimit(), filter.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("query events", err)
	}
	defer closeQuietly(rows)

	return scanEvents(rows)
}

// GetEventsByCorrelation returns every event recorded under the given
// correlation ID in insertion order. An unknown ID yields an empty
// slice, not an error: asking about a flow that never happened is a
// valid question with an empty answer.
func (db *DB) GetEventsByCorrelation(ctx context.Context, correlationID string) ([]models.Event, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, channel, event_type, source, correlation_id, data, created_at
		FROM events
		WHERE correlation_id = ?
		ORDER BY id ASC`

	rows, err := db.conn.QueryContext(ctx, query, correlationID)
	if err != nil {
		return nil, storageError("get events by correlation", err)
	}
	defer closeQuietly(rows)

	return scanEvents(rows)
}

// CountEvents returns the number of events matching the filter,
// ignoring its limit and offset.
func (db *DB) CountEvents(ctx context.Context, filter EventFilter) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := filter.whereClause()
	query := `SELECT COUNT(*) FROM events` + where

	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storageError("count events", err)
	}
	return count, nil
}

// scanEvents drains rows into a slice. Always returns a non-nil slice
// so empty results serialize as [] rather than null.
func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	events := make([]models.Event, 0)

	for rows.Next() {
		var (
			e             models.Event
			channel       string
			eventType     string
			correlationID sql.NullString
			data          string
		)
		if err := rows.Scan(&e.ID, &channel, &eventType, &e.Source, &correlationID, &data, &e.CreatedAt); err != nil {
			return nil, storageError("scan event", err)
		}
		e.Channel = models.Channel(channel)
		e.EventType = models.EventType(eventType)
		e.CorrelationID = correlationID.String
		e.Data = json.RawMessage(data)
		e.CreatedAt = e.CreatedAt.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate events", err)
	}

	return events, nil
}

// nullIfEmpty maps empty strings to SQL NULL so optional text columns
// stay NULL instead of collecting empty strings.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
