// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal

package wal

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
)

// Publisher re-publishes a journaled entry. Implementations unmarshal
// Entry.Payload into their event type and hand it to the bus.
type Publisher interface {
	PublishEntry(ctx context.Context, entry *Entry) error
}

// PublisherFunc adapts a closure to Publisher.
type PublisherFunc func(ctx context.Context, entry *Entry) error

// PublishEntry implements Publisher.
func (f PublisherFunc) PublishEntry(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}

// RetryLoop periodically re-publishes pending entries. A single loop
// owns the pending set; Start after startup Recover has finished.
type RetryLoop struct {
	wal       *BadgerWAL
	publisher Publisher
	interval  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewRetryLoop creates the background retry loop.
func NewRetryLoop(w *BadgerWAL, publisher Publisher) *RetryLoop {
	return &RetryLoop{
		wal:       w,
		publisher: publisher,
		interval:  w.GetConfig().RetryInterval,
	}
}

// Start launches the loop. Calling Start on a running loop is a no-op.
func (r *RetryLoop) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true

	go r.run(loopCtx, r.done)

	logging.Info().
		Dur("interval", r.interval).
		Int("max_retries", r.wal.GetConfig().MaxRetries).
		Msg("WAL retry loop started")
}

// Stop cancels the loop and waits for the current pass to finish.
// Concurrent Stop calls all block until the pass is done, so the WAL
// can be closed safely after any of them returns.
func (r *RetryLoop) Stop() {
	r.mu.Lock()
	if !r.running {
		done := r.done
		r.mu.Unlock()
		if done != nil {
			<-done
		}
		return
	}
	r.cancel()
	done := r.done
	r.running = false
	r.mu.Unlock()

	<-done
	logging.Info().Msg("WAL retry loop stopped")
}

// IsRunning reports whether the loop is active.
func (r *RetryLoop) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *RetryLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.retryPending(ctx)
		}
	}
}

// retryPending re-publishes every pending entry once.
func (r *RetryLoop) retryPending(ctx context.Context) {
	entries, err := r.wal.GetPending(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("WAL retry: listing pending entries failed")
		return
	}
	if len(entries) == 0 {
		return
	}

	maxRetries := r.wal.GetConfig().MaxRetries
	var succeeded, failed, dropped int

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if maxRetries > 0 && entry.Attempts >= maxRetries {
			if err := r.wal.DeleteEntry(ctx, entry.ID); err != nil {
				logging.Error().Err(err).Str("wal_entry_id", entry.ID).Msg("WAL retry: dropping poisonous entry failed")
			} else {
				dropped++
				logging.Warn().
					Str("wal_entry_id", entry.ID).
					Int("attempts", entry.Attempts).
					Str("last_error", entry.LastError).
					Msg("WAL entry exhausted retries, dropped")
			}
			continue
		}

		if err := r.publisher.PublishEntry(ctx, entry); err != nil {
			failed++
			if uerr := r.wal.UpdateAttempt(ctx, entry.ID, err.Error()); uerr != nil {
				logging.Error().Err(uerr).Str("wal_entry_id", entry.ID).Msg("WAL retry: recording attempt failed")
			}
			continue
		}

		if err := r.wal.Confirm(ctx, entry.ID); err != nil {
			logging.Warn().Err(err).Str("wal_entry_id", entry.ID).Msg("WAL retry: confirm failed")
		}
		succeeded++
		r.wal.totalRetries.Add(1)
		metrics.WALEntriesReplayed.Inc()
	}

	if succeeded > 0 || failed > 0 || dropped > 0 {
		logging.Info().
			Int("succeeded", succeeded).
			Int("failed", failed).
			Int("dropped", dropped).
			Msg("WAL retry pass complete")
	}
}
