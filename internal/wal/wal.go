// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal

package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
)

// WAL journals events before they are published, so a broker outage or
// crash between store append and publish cannot lose the notification.
type WAL interface {
	// Write persists an event ahead of its publish. Returns an entry
	// id used to confirm delivery.
	Write(ctx context.Context, event interface{}) (entryID string, err error)

	// Confirm marks an entry as successfully published. Confirmed
	// entries are removed at the next compaction.
	Confirm(ctx context.Context, entryID string) error

	// GetPending returns all unconfirmed entries, oldest first by
	// creation time within Badger's key order.
	GetPending(ctx context.Context) ([]*Entry, error)

	// Stats returns counters for monitoring.
	Stats() Stats

	// Close releases the underlying database.
	Close() error
}

// Entry is one journaled publish intent.
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

// Stats contains WAL counters for monitoring.
type Stats struct {
	PendingCount   int64
	ConfirmedCount int64
	TotalWrites    int64
	TotalConfirms  int64
	TotalRetries   int64
	LastCompaction time.Time
}

// Errors returned by WAL operations.
var (
	ErrWALClosed     = errors.New("WAL is closed")
	ErrNilEvent      = errors.New("event cannot be nil")
	ErrEmptyEntryID  = errors.New("entry ID cannot be empty")
	ErrEntryNotFound = errors.New("entry not found")
)

// Key prefixes separating pending from confirmed entries.
const (
	prefixPending   = "pending:"
	prefixConfirmed = "confirmed:"
)

// BadgerWAL implements WAL on BadgerDB.
type BadgerWAL struct {
	db     *badger.DB
	config config.WALConfig

	totalWrites   atomic.Int64
	totalConfirms atomic.Int64
	totalRetries  atomic.Int64

	mu             sync.RWMutex
	closed         bool
	lastCompaction time.Time
}

// Open creates or opens the WAL at the configured directory.
func Open(cfg config.WALConfig) (*BadgerWAL, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("invalid WAL config: dir required")
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	w := &BadgerWAL{
		db:             db,
		config:         cfg,
		lastCompaction: time.Now(),
	}

	logging.Info().
		Str("dir", cfg.Dir).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("WAL opened")
	return w, nil
}

// Write persists an event ahead of its publish.
func (w *BadgerWAL) Write(ctx context.Context, event interface{}) (string, error) {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return "", ErrWALClosed
	}
	w.mu.RUnlock()

	if event == nil {
		return "", ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	entryID := uuid.New().String()
	entry := &Entry{
		ID:        entryID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	key := []byte(prefixPending + entryID)
	err = w.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, data)
		if w.config.EntryTTL > 0 {
			e = e.WithTTL(w.config.EntryTTL)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return "", fmt.Errorf("write to BadgerDB: %w", err)
	}

	w.totalWrites.Add(1)
	metrics.WALEntriesWritten.Inc()

	return entryID, nil
}

// Confirm moves an entry from pending to confirmed.
func (w *BadgerWAL) Confirm(ctx context.Context, entryID string) error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWALClosed
	}
	w.mu.RUnlock()

	if entryID == "" {
		return ErrEmptyEntryID
	}

	pendingKey := []byte(prefixPending + entryID)
	confirmedKey := []byte(prefixConfirmed + entryID)

	err := w.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(pendingKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("get pending entry: %w", err)
		}

		var entry Entry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return fmt.Errorf("unmarshal entry: %w", err)
		}

		now := time.Now().UTC()
		entry.Confirmed = true
		entry.ConfirmedAt = &now

		data, err := json.Marshal(&entry)
		if err != nil {
			return fmt.Errorf("marshal confirmed entry: %w", err)
		}

		if err := txn.Set(confirmedKey, data); err != nil {
			return fmt.Errorf("set confirmed entry: %w", err)
		}
		return txn.Delete(pendingKey)
	})
	if err != nil {
		return err
	}

	w.totalConfirms.Add(1)
	return nil
}

// UpdateAttempt records a failed publish attempt on a pending entry.
func (w *BadgerWAL) UpdateAttempt(ctx context.Context, entryID, lastError string) error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWALClosed
	}
	w.mu.RUnlock()

	if entryID == "" {
		return ErrEmptyEntryID
	}

	key := []byte(prefixPending + entryID)
	return w.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("get pending entry: %w", err)
		}

		var entry Entry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return fmt.Errorf("unmarshal entry: %w", err)
		}

		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		entry.LastError = lastError

		data, err := json.Marshal(&entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}

		e := badger.NewEntry(key, data)
		if w.config.EntryTTL > 0 {
			e = e.WithTTL(w.config.EntryTTL)
		}
		return txn.SetEntry(e)
	})
}

// DeleteEntry removes a pending entry outright. Used for poisonous
// entries that exhausted their retries.
func (w *BadgerWAL) DeleteEntry(ctx context.Context, entryID string) error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWALClosed
	}
	w.mu.RUnlock()

	if entryID == "" {
		return ErrEmptyEntryID
	}

	return w.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixPending + entryID))
	})
}

// GetPending returns all unconfirmed entries from a consistent
// snapshot.
func (w *BadgerWAL) GetPending(ctx context.Context) ([]*Entry, error) {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return nil, ErrWALClosed
	}
	w.mu.RUnlock()

	var entries []*Entry
	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var entry Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("unmarshal entry: %w", err)
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WALPendingEntries.Set(float64(len(entries)))
	return entries, nil
}

// countPrefix counts keys under a prefix without loading values.
func (w *BadgerWAL) countPrefix(prefix string) int64 {
	var count int64
	_ = w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Stats returns current WAL counters.
func (w *BadgerWAL) Stats() Stats {
	w.mu.RLock()
	lastCompaction := w.lastCompaction
	closed := w.closed
	w.mu.RUnlock()

	if closed {
		return Stats{}
	}

	return Stats{
		PendingCount:   w.countPrefix(prefixPending),
		ConfirmedCount: w.countPrefix(prefixConfirmed),
		TotalWrites:    w.totalWrites.Load(),
		TotalConfirms:  w.totalConfirms.Load(),
		TotalRetries:   w.totalRetries.Load(),
		LastCompaction: lastCompaction,
	}
}

// RunGC triggers Badger value log garbage collection. Badger returns
// ErrNoRewrite when there is nothing to collect; that is not an error.
func (w *BadgerWAL) RunGC() error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWALClosed
	}
	w.mu.RUnlock()

	err := w.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// GetConfig returns the WAL configuration.
func (w *BadgerWAL) GetConfig() config.WALConfig {
	return w.config
}

// Close shuts the WAL down. Further operations fail with ErrWALClosed.
func (w *BadgerWAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	return w.db.Close()
}
