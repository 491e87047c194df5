// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal

package wal

import (
	"context"
	"time"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
)

// RecoveryResult summarizes a startup recovery pass.
type RecoveryResult struct {
	TotalPending int
	Recovered    int
	Failed       int
	Duration     time.Duration
}

// Recover re-publishes entries left pending by a previous run. Call it
// once at startup, before the retry loop starts; failed entries stay
// pending for the loop.
func Recover(ctx context.Context, w *BadgerWAL, publisher Publisher) (*RecoveryResult, error) {
	start := time.Now()

	entries, err := w.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &RecoveryResult{TotalPending: len(entries)}
	if len(entries) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	logging.Info().Int("pending_entries", len(entries)).Msg("WAL recovery started")

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if err := publisher.PublishEntry(ctx, entry); err != nil {
			result.Failed++
			if uerr := w.UpdateAttempt(ctx, entry.ID, err.Error()); uerr != nil {
				logging.Error().Err(uerr).Str("wal_entry_id", entry.ID).Msg("WAL recovery: recording attempt failed")
			}
			continue
		}

		if err := w.Confirm(ctx, entry.ID); err != nil {
			logging.Warn().Err(err).Str("wal_entry_id", entry.ID).Msg("WAL recovery: confirm failed")
		}
		result.Recovered++
		metrics.WALEntriesReplayed.Inc()
	}

	result.Duration = time.Since(start)
	logging.Info().
		Int("recovered", result.Recovered).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("WAL recovery complete")

	return result, nil
}
