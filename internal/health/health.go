// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package health aggregates rolling pipeline statistics into operator
// facing views: parse outcomes, ingestion anomaly flags, time-to-ingest
// latency quantiles, and a categorical health verdict.
//
// The verdict rule is fixed. A window is critical when the fraction of
// error events exceeds the configured threshold, warning when the parse
// success rate falls below its threshold, healthy otherwise. What counts
// as acceptable is deployment policy and comes from config.HealthConfig;
// nothing in this package hard-codes a threshold.
package health

import (
	"context"
	"time"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// Store defines the statistics queries the aggregator needs. Implemented
// by *database.DB; kept narrow so tests can fake it.
type Store interface {
	// GetEventStatistics summarizes the event store over a window.
	GetEventStatistics(ctx context.Context, windowHours int) (*models.EventStatistics, error)

	// GetParsingStats reports parse outcomes for messages in a window.
	GetParsingStats(ctx context.Context, windowHours int) (*models.ParsingStats, error)

	// GetAuditStats reports ingestion anomaly flag counts in a window.
	GetAuditStats(ctx context.Context, windowHours int) (*models.AuditStats, error)

	// GetLatencyStats reports time-to-ingest quantiles in a window.
	GetLatencyStats(ctx context.Context, windowHours int) (*models.LatencyStats, error)

	// CountPendingMessages counts stored messages not yet parsed.
	CountPendingMessages(ctx context.Context) (int64, error)
}

// Aggregator computes the statistics views. It is stateless and safe
// for concurrent use; response caching happens at the API layer.
type Aggregator struct {
	store Store
	cfg   config.HealthConfig
}

// New creates an aggregator reading from store with cfg thresholds.
func New(store Store, cfg config.HealthConfig) *Aggregator {
	return &Aggregator{store: store, cfg: cfg}
}

// window substitutes the configured default when the caller passes no
// usable window.
func (a *Aggregator) window(windowHours int) int {
	if windowHours <= 0 {
		return a.cfg.WindowHours
	}
	return windowHours
}

// ParsingStats reports parse outcomes over the window.
func (a *Aggregator) ParsingStats(ctx context.Context, windowHours int) (*models.ParsingStats, error) {
	return a.store.GetParsingStats(ctx, a.window(windowHours))
}

// AuditStats reports ingestion anomaly flags and duplicate trading-day
// slots over the window.
func (a *Aggregator) AuditStats(ctx context.Context, windowHours int) (*models.AuditStats, error) {
	return a.store.GetAuditStats(ctx, a.window(windowHours))
}

// LatencyStats reports time-to-ingest quantiles over the window.
func (a *Aggregator) LatencyStats(ctx context.Context, windowHours int) (*models.LatencyStats, error) {
	return a.store.GetLatencyStats(ctx, a.window(windowHours))
}

// HealthScore computes the categorical pipeline verdict over the window
// and publishes it to the health gauges.
//
// The success-rate rule only applies when the window saw messages; an
// idle pipeline is healthy, not in warning.
func (a *Aggregator) HealthScore(ctx context.Context, windowHours int) (*models.HealthScore, error) {
	windowHours = a.window(windowHours)

	events, err := a.store.GetEventStatistics(ctx, windowHours)
	if err != nil {
		return nil, err
	}

	parsing, err := a.store.GetParsingStats(ctx, windowHours)
	if err != nil {
		return nil, err
	}

	pending, err := a.store.CountPendingMessages(ctx)
	if err != nil {
		return nil, err
	}

	score := &models.HealthScore{
		Status:          models.HealthStatusHealthy,
		ErrorRate:       events.ErrorRate,
		SuccessRate:     parsing.SuccessRate,
		PendingMessages: pending,
		WindowHours:     windowHours,
		ComputedAt:      time.Now().UTC(),
	}

	switch {
	case events.ErrorRate > a.cfg.ErrorRateCritical:
		score.Status = models.HealthStatusCritical
	case parsing.TotalMessages > 0 && parsing.SuccessRate < a.cfg.SuccessRateWarn:
		score.Status = models.HealthStatusWarning
	}

	metrics.UpdateHealthGauges(statusValue(score.Status), score.ErrorRate, score.SuccessRate)

	logging.Ctx(ctx).Debug().
		Str("status", score.Status).
		Float64("error_rate", score.ErrorRate).
		Float64("success_rate", score.SuccessRate).
		Int64("pending_messages", pending).
		Int("window_hours", windowHours).
		Msg("Health score computed")

	return score, nil
}

// statusValue maps the verdict onto the gauge encoding: 0 healthy,
// 1 warning, 2 critical.
func statusValue(status string) float64 {
	switch status {
	case models.HealthStatusCritical:
		return 2
	case models.HealthStatusWarning:
		return 1
	default:
		return 0
	}
}
