// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !wal

package wal

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/logging"
)

// WAL journals events before they are published. This stub variant
// does nothing; build with -tags=wal for durable journaling.
type WAL interface {
	Write(ctx context.Context, event interface{}) (entryID string, err error)
	Confirm(ctx context.Context, entryID string) error
	GetPending(ctx context.Context) ([]*Entry, error)
	Stats() Stats
	Close() error
}

// Entry is one journaled publish intent (stub).
type Entry struct {
	ID            string          `json:"id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt time.Time       `json:"last_attempt_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	Confirmed     bool            `json:"confirmed"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
}

// UnmarshalPayload deserializes the journaled event into v.
func (e *Entry) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Stats contains WAL counters (stub).
type Stats struct {
	PendingCount   int64
	ConfirmedCount int64
	TotalWrites    int64
	TotalConfirms  int64
	TotalRetries   int64
	LastCompaction time.Time
}

// NoOpWAL accepts writes without persisting anything.
type NoOpWAL struct{}

// Open returns a no-op WAL. Build with -tags=wal for durability.
func Open(cfg config.WALConfig) (*NoOpWAL, error) {
	logging.Info().Msg("WAL disabled (build without -tags=wal), publish intents are not journaled")
	return &NoOpWAL{}, nil
}

// Write does nothing and returns an empty entry id.
func (w *NoOpWAL) Write(ctx context.Context, event interface{}) (string, error) {
	return "", nil
}

// Confirm does nothing.
func (w *NoOpWAL) Confirm(ctx context.Context, entryID string) error {
	return nil
}

// GetPending returns no entries.
func (w *NoOpWAL) GetPending(ctx context.Context) ([]*Entry, error) {
	return nil, nil
}

// UpdateAttempt does nothing.
func (w *NoOpWAL) UpdateAttempt(ctx context.Context, entryID, lastError string) error {
	return nil
}

// DeleteEntry does nothing.
func (w *NoOpWAL) DeleteEntry(ctx context.Context, entryID string) error {
	return nil
}

// Stats returns zero counters.
func (w *NoOpWAL) Stats() Stats {
	return Stats{}
}

// RunGC does nothing.
func (w *NoOpWAL) RunGC() error {
	return nil
}

// GetConfig returns an empty configuration.
func (w *NoOpWAL) GetConfig() config.WALConfig {
	return config.WALConfig{}
}

// Close does nothing.
func (w *NoOpWAL) Close() error {
	return nil
}

// Publisher re-publishes a journaled entry (stub).
type Publisher interface {
	PublishEntry(ctx context.Context, entry *Entry) error
}

// PublisherFunc adapts a closure to Publisher.
type PublisherFunc func(ctx context.Context, entry *Entry) error

// PublishEntry implements Publisher.
func (f PublisherFunc) PublishEntry(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}

// Errors returned by WAL operations (stub).
var (
	ErrWALClosed     = stubError("WAL is closed")
	ErrNilEvent      = stubError("event cannot be nil")
	ErrEmptyEntryID  = stubError("entry ID cannot be empty")
	ErrEntryNotFound = stubError("entry not found")
)

type stubError string

func (e stubError) Error() string { return string(e) }
