// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

// Package trace reconstructs correlation flows from the event store.
//
// Every pipeline stage tags its events with the correlation id minted
// at ingestion, so the full history of one message is the set of
// events sharing that id, ordered by store id. A flow is complete once
// it shows both ends of the pipeline: an ingestion event and a
// terminal parsing event (setup extracted or parse failed).
package trace

import (
	"context"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/models"
)

// Default listing bounds applied when the caller passes zero values.
const (
	defaultWindowHours = 168
	defaultFlowLimit  = 100
)

// Store is the event access the tracer needs. Implemented by
// *database.DB; kept narrow so tests can fake it.
type Store interface {
	// GetEventsByCorrelation returns all events carrying the id, in
	// store order (ascending id).
	GetEventsByCorrelation(ctx context.Context, correlationID string) ([]models.Event, error)

	// GetFlowSummaries lists per-correlation rollups with activity in
	// the window, most recent activity first.
	GetFlowSummaries(ctx context.Context, windowHours, limit int) ([]models.FlowSummary, error)
}

// Tracer answers flow reconstruction queries.
type Tracer struct {
	store Store
}

// New creates a Tracer over the given store.
func New(store Store) *Tracer {
	return &Tracer{store: store}
}

// Trace returns the ordered timeline for one correlation id. An id
// with no events yields an empty timeline, not an error; the id may
// simply belong to a flow whose events have not arrived yet.
func (t *Tracer) Trace(ctx context.Context, correlationID string) (*models.TraceResult, error) {
	if correlationID == "" {
		return nil, &models.ValidationError{Field: "correlation_id", Message: "cannot be empty"}
	}

	events, err := t.store.GetEventsByCorrelation(ctx, correlationID)
	if err != nil {
		return nil, err
	}

	result := &models.TraceResult{
		CorrelationID: correlationID,
		Complete:      flowComplete(events),
		EventCount:    len(events),
		Events:        events,
	}

	logging.Ctx(ctx).Debug().
		Str("trace_correlation_id", correlationID).
		Int("events", result.EventCount).
		Bool("complete", result.Complete).
		Msg("Flow traced")

	return result, nil
}

// RecentFlows lists flows with activity inside the window, newest
// last-event first. Zero window or limit fall back to the defaults.
func (t *Tracer) RecentFlows(ctx context.Context, windowHours, limit int) ([]models.FlowSummary, error) {
	if windowHours <= 0 {
		windowHours = defaultWindowHours
	}
	if limit <= 0 {
		limit = defaultFlowLimit
	}

	return t.store.GetFlowSummaries(ctx, windowHours, limit)
}

// flowComplete reports whether the timeline spans the whole pipeline:
// at least one ingestion event and one terminal parsing event.
func flowComplete(events []models.Event) bool {
	var hasIngestion, hasParsing bool
	for i := range events {
		switch events[i].Channel {
		case models.ChannelIngestionMessage:
			hasIngestion = true
		case models.ChannelParsingSetup, models.ChannelParsingFailed:
			hasParsing = true
		}
	}
	return hasIngestion && hasParsing
}
