// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal

package wal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/tickerflow/internal/logging"
)

// Compactor periodically removes confirmed entries and runs Badger
// value log garbage collection.
type Compactor struct {
	wal      *BadgerWAL
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewCompactor creates the background compaction loop.
func NewCompactor(w *BadgerWAL) *Compactor {
	return &Compactor{
		wal:      w,
		interval: w.GetConfig().GCInterval,
	}
}

// Start launches the loop. Calling Start on a running loop is a no-op.
func (c *Compactor) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(loopCtx, c.done)

	logging.Info().Dur("interval", c.interval).Msg("WAL compactor started")
}

// Stop cancels the loop and waits for the current pass to finish.
// Concurrent Stop calls all block until the pass is done, so the WAL
// can be closed safely after any of them returns.
func (c *Compactor) Stop() {
	c.mu.Lock()
	if !c.running {
		done := c.done
		c.mu.Unlock()
		if done != nil {
			<-done
		}
		return
	}
	c.cancel()
	done := c.done
	c.running = false
	c.mu.Unlock()

	<-done
	logging.Info().Msg("WAL compactor stopped")
}

func (c *Compactor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed, err := c.CompactOnce(ctx); err != nil {
				logging.Error().Err(err).Msg("WAL compaction failed")
			} else if removed > 0 {
				logging.Info().Int("removed", removed).Msg("WAL compaction complete")
			}
		}
	}
}

// CompactOnce deletes all confirmed entries and runs one GC cycle.
// Returns how many entries were removed.
func (c *Compactor) CompactOnce(ctx context.Context) (int, error) {
	w := c.wal

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return 0, ErrWALClosed
	}
	w.mu.RUnlock()

	// Collect keys first; Badger forbids writes inside a View and
	// deleting during iteration invalidates the iterator.
	var keys [][]byte
	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixConfirmed)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("collect confirmed entries: %w", err)
	}

	removed := 0
	for _, key := range keys {
		err := w.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			logging.Warn().Err(err).Str("key", string(key)).Msg("WAL compaction: delete failed")
			continue
		}
		removed++
	}

	w.mu.Lock()
	w.lastCompaction = time.Now()
	w.mu.Unlock()

	if err := w.RunGC(); err != nil {
		logging.Warn().Err(err).Msg("WAL value log GC failed")
	}

	return removed, nil
}
