// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
crud_messages.go - Message Archive Operations

Messages are stored exactly once per message_id. The primary key plus
INSERT ... ON CONFLICT DO NOTHING makes redelivery a no-op at the
storage layer; RowsAffected tells the caller whether this delivery was
the first. The ingestion service builds its stored/duplicate decision
on that signal.

parsed_at tracks parse progress: NULL rows form the backlog the sweeper
drains in arrival order.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

// InsertMessage stores a message, reporting whether this call inserted
// it. A false return with nil error means the message_id already
// existed and the stored row is untouched.
func (db *DB) InsertMessage(ctx context.Context, msg *models.Message) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `INSERT INTO messages (
		message_id, channel_ref, author_id, content, platform_timestamp,
		stored_at, correlation_id, is_weekend, is_out_of_hours,
		is_backdated, time_to_ingest_ms, parsed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

	stmt, err := db.getOrPrepare(ctx, query)
	if err != nil {
		return false, storageError("insert message", err)
	}

	result, err := stmt.ExecContext(ctx,
		msg.MessageID,
		msg.ChannelRef,
		msg.AuthorID,
		msg.Content,
		msg.PlatformTimestamp.UTC(),
		msg.StoredAt.UTC(),
		msg.CorrelationID,
		msg.Flags.IsWeekend,
		msg.Flags.IsOutOfHours,
		msg.Flags.IsBackdated,
		msg.TimeToIngestMS,
		nullableTime(msg.ParsedAt),
	)
	if err != nil {
		return false, storageError("insert message", err)
	}

	// With ON CONFLICT DO NOTHING, duplicates return zero affected rows
	// instead of an error
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storageError("insert message rows affected", err)
	}

	return rowsAffected > 0, nil
}

// MessageExists reports whether a message_id is already stored.
func (db *DB) MessageExists(ctx context.Context, messageID string) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM messages WHERE message_id = ?)`
	if err := db.conn.QueryRowContext(ctx, query, messageID).Scan(&exists); err != nil {
		return false, storageError("message exists", err)
	}
	return exists, nil
}

// GetMessage fetches one stored message. Returns ErrNotFound when the
// message_id is unknown.
func (db *DB) GetMessage(ctx context.Context, messageID string) (*models.Message, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := messageSelectColumns + ` FROM messages WHERE message_id = ?`

	msg, err := scanMessage(db.conn.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageError("get message", err)
	}
	return msg, nil
}

// GetMessageByCorrelation fetches the message ingested under the given
// correlation ID. Returns ErrNotFound when no message carries it.
func (db *DB) GetMessageByCorrelation(ctx context.Context, correlationID string) (*models.Message, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := messageSelectColumns + ` FROM messages WHERE correlation_id = ? LIMIT 1`

	msg, err := scanMessage(db.conn.QueryRowContext(ctx, query, correlationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageError("get message by correlation", err)
	}
	return msg, nil
}

// GetPendingMessages returns up to limit messages that have not been
// parsed yet, oldest stored first with message_id as the tie-break so
// sweep order is deterministic.
func (db *DB) GetPendingMessages(ctx context.Context, limit int) ([]models.Message, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := messageSelectColumns + `
		FROM messages
		WHERE parsed_at IS NULL
		ORDER BY stored_at ASC, message_id ASC
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, storageError("get pending messages", err)
	}
	defer closeQuietly(rows)

	messages := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, storageError("scan pending message", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate pending messages", err)
	}

	return messages, nil
}

// MarkMessageParsed stamps parsed_at on a message after the parsing
// stage has handled it, successfully or not.
func (db *DB) MarkMessageParsed(ctx context.Context, messageID string, parsedAt time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE messages SET parsed_at = ? WHERE message_id = ?`,
		parsedAt.UTC(), messageID)
	if err != nil {
		return storageError("mark message parsed", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("mark message parsed rows affected", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountPendingMessages returns the parse backlog depth.
func (db *DB) CountPendingMessages(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE parsed_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, storageError("count pending messages", err)
	}
	return count, nil
}

const messageSelectColumns = `SELECT message_id, channel_ref, author_id, content,
	platform_timestamp, stored_at, correlation_id, is_weekend, is_out_of_hours,
	is_backdated, time_to_ingest_ms, parsed_at`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		msg      models.Message
		parsedAt sql.NullTime
	)
	err := row.Scan(
		&msg.MessageID,
		&msg.ChannelRef,
		&msg.AuthorID,
		&msg.Content,
		&msg.PlatformTimestamp,
		&msg.StoredAt,
		&msg.CorrelationID,
		&msg.Flags.IsWeekend,
		&msg.Flags.IsOutOfHours,
		&msg.Flags.IsBackdated,
		&msg.TimeToIngestMS,
		&parsedAt,
	)
	if err != nil {
		return nil, err
	}

	msg.PlatformTimestamp = msg.PlatformTimestamp.UTC()
	msg.StoredAt = msg.StoredAt.UTC()
	if parsedAt.Valid {
		t := parsedAt.Time.UTC()
		msg.ParsedAt = &t
	}
	return &msg, nil
}

// nullableTime maps a nil *time.Time to SQL NULL.
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
