// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

/*
crud_stats.go - Aggregate Statistics Queries

Rolling-window statistics powering the dashboard endpoints: event
counts, parse outcome rates, ingestion audit flags, latency quantiles,
and per-correlation flow summaries. Window cutoffs are computed in Go
and bound as parameters so tests can pin time; a windowHours of zero
or less means unbounded.

DuckDB does the heavy lifting: quantiles via median/quantile_cont,
channel rollups via string_agg. Results are cached with a short TTL in
the API layer, so none of these queries need to be cheap enough for
per-request use.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/tickerflow/internal/models"
)

// windowCutoff returns the inclusive lower bound for a rolling window
// of windowHours. Zero or negative means unbounded.
func windowCutoff(windowHours int) time.Time {
	if windowHours <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)
}

// GetEventStatistics aggregates the event store over the window:
// totals, per-channel and per-type counts, the error-event fraction,
// and the span of observed timestamps.
func (db *DB) GetEventStatistics(ctx context.Context, windowHours int) (*models.EventStatistics, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff := windowCutoff(windowHours)
	stats := &models.EventStatistics{
		WindowHours: windowHours,
		ByChannel:   make(map[string]int64),
		ByEventType: make(map[string]int64),
	}

	var (
		errorCount int64
		oldest     sql.NullTime
		newest     sql.NullTime
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN event_type = 'error' THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT correlation_id),
			MIN(created_at),
			MAX(created_at)
		FROM events
		WHERE created_at >= ?
	`, cutoff).Scan(&stats.TotalEvents, &errorCount, &stats.DistinctCorrelations, &oldest, &newest)
	if err != nil {
		return nil, storageError("event statistics totals", err)
	}

	if stats.TotalEvents > 0 {
		stats.ErrorRate = float64(errorCount) / float64(stats.TotalEvents)
	}
	if oldest.Valid {
		t := oldest.Time.UTC()
		stats.OldestEvent = &t
	}
	if newest.Valid {
		t := newest.Time.UTC()
		stats.NewestEvent = &t
	}

	if err := db.countsByColumn(ctx, "channel", cutoff, stats.ByChannel); err != nil {
		return nil, err
	}
	if err := db.countsByColumn(ctx, "event_type", cutoff, stats.ByEventType); err != nil {
		return nil, err
	}

	return stats, nil
}

// countsByColumn fills dest with per-value event counts for one of the
// enumerated columns. The column name is compiled in by callers, never
// user input.
func (db *DB) countsByColumn(ctx context.Context, column string, cutoff time.Time, dest map[string]int64) error {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM events WHERE created_at >= ? GROUP BY `+column, cutoff)
	if err != nil {
		return storageError("event statistics by "+column, err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var (
			value string
			count int64
		)
		if err := rows.Scan(&value, &count); err != nil {
			return storageError("scan event statistics by "+column, err)
		}
		dest[value] = count
	}
	return storageError("iterate event statistics by "+column, rows.Err())
}

// GetParsingStats reports parse outcomes for messages stored in the
// window. Parsed and Failed count messages whose flow produced a
// terminal parsing event, joined through correlation_id so re-parses
// are not double counted. SuccessRate is Parsed over TotalMessages.
func (db *DB) GetParsingStats(ctx context.Context, windowHours int) (*models.ParsingStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff := windowCutoff(windowHours)
	stats := &models.ParsingStats{WindowHours: windowHours}

	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN parsed_at IS NULL THEN 1 ELSE 0 END), 0)
		FROM messages
		WHERE stored_at >= ?
	`, cutoff).Scan(&stats.TotalMessages, &stats.Pending)
	if err != nil {
		return nil, storageError("parsing stats totals", err)
	}

	err = db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT CASE WHEN e.channel = 'parsing:setup' THEN m.message_id END),
			COUNT(DISTINCT CASE WHEN e.channel = 'parsing:failed' THEN m.message_id END)
		FROM messages m
		JOIN events e ON e.correlation_id = m.correlation_id
		WHERE m.stored_at >= ?
	`, cutoff).Scan(&stats.Parsed, &stats.Failed)
	if err != nil {
		return nil, storageError("parsing stats outcomes", err)
	}

	if stats.TotalMessages > 0 {
		stats.SuccessRate = float64(stats.Parsed) / float64(stats.TotalMessages)
	}

	return stats, nil
}

// GetAuditStats reports ingestion anomaly flag counts for messages
// stored in the window, plus the (ticker, trading_date) keys that hold
// more than one setup row under the allow policy.
func (db *DB) GetAuditStats(ctx context.Context, windowHours int) (*models.AuditStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff := windowCutoff(windowHours)
	stats := &models.AuditStats{
		WindowHours:          windowHours,
		DuplicateTradingDays: make([]models.DuplicateTradingDay, 0),
	}

	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN is_weekend THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_out_of_hours THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_backdated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_weekend OR is_out_of_hours OR is_backdated THEN 1 ELSE 0 END), 0)
		FROM messages
		WHERE stored_at >= ?
	`, cutoff).Scan(&stats.TotalMessages, &stats.WeekendCount,
		&stats.OutOfHoursCount, &stats.BackdatedCount, &stats.FlaggedCount)
	if err != nil {
		return nil, storageError("audit stats flags", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT ticker, trading_date, COUNT(*)
		FROM setups
		WHERE created_at >= ?
		GROUP BY ticker, trading_date
		HAVING COUNT(*) > 1
		ORDER BY ticker, trading_date
	`, cutoff)
	if err != nil {
		return nil, storageError("audit stats duplicates", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var (
			dup  models.DuplicateTradingDay
			date time.Time
		)
		if err := rows.Scan(&dup.Ticker, &date, &dup.Count); err != nil {
			return nil, storageError("scan audit duplicate", err)
		}
		dup.TradingDate = date.Format("2006-01-02")
		stats.DuplicateTradingDays = append(stats.DuplicateTradingDays, dup)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate audit duplicates", err)
	}

	return stats, nil
}

// GetLatencyStats reports time-to-ingest quantiles in milliseconds for
// messages stored in the window.
func (db *DB) GetLatencyStats(ctx context.Context, windowHours int) (*models.LatencyStats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff := windowCutoff(windowHours)
	stats := &models.LatencyStats{WindowHours: windowHours}

	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(median(time_to_ingest_ms), 0),
			COALESCE(quantile_cont(time_to_ingest_ms, 0.90), 0),
			COALESCE(MAX(time_to_ingest_ms), 0)
		FROM messages
		WHERE stored_at >= ?
	`, cutoff).Scan(&stats.Count, &stats.MedianMS, &stats.P90MS, &stats.MaxMS)
	if err != nil {
		return nil, storageError("latency stats", err)
	}

	return stats, nil
}

// GetFlowSummaries lists correlation flows with activity in the window,
// most recent last event first. A flow is complete once it has an
// ingestion event and a terminal parsing event.
func (db *DB) GetFlowSummaries(ctx context.Context, windowHours, limit int) ([]models.FlowSummary, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cutoff := windowCutoff(windowHours)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT correlation_id,
			COUNT(*),
			string_agg(DISTINCT channel, ','),
			MIN(created_at),
			MAX(created_at),
			MAX(CASE WHEN channel = 'ingestion:message' THEN 1 ELSE 0 END),
			MAX(CASE WHEN channel IN ('parsing:setup', 'parsing:failed') THEN 1 ELSE 0 END)
		FROM events
		WHERE correlation_id IS NOT NULL AND created_at >= ?
		GROUP BY correlation_id
		ORDER BY MAX(created_at) DESC
		LIMIT ?
	`, cutoff, clampLimit(limit))
	if err != nil {
		return nil, storageError("flow summaries", err)
	}
	defer closeQuietly(rows)

	flows := make([]models.FlowSummary, 0)
	for rows.Next() {
		var (
			flow       models.FlowSummary
			channels   string
			hasIngest  int
			hasParsing int
		)
		if err := rows.Scan(&flow.CorrelationID, &flow.EventCount, &channels,
			&flow.StartedAt, &flow.LastEventAt, &hasIngest, &hasParsing); err != nil {
			return nil, storageError("scan flow summary", err)
		}
		flow.Channels = splitChannels(channels)
		flow.StartedAt = flow.StartedAt.UTC()
		flow.LastEventAt = flow.LastEventAt.UTC()
		flow.Complete = hasIngest == 1 && hasParsing == 1
		flows = append(flows, flow)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate flow summaries", err)
	}

	return flows, nil
}

// splitChannels turns the string_agg rollup into a sorted slice.
// Aggregation order is not deterministic, sorting is.
func splitChannels(agg string) []string {
	if agg == "" {
		return []string{}
	}
	channels := strings.Split(agg, ",")
	sort.Strings(channels)
	return channels
}
