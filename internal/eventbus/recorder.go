// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"context"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/models"
)

// EventSink is the durable side of event recording. *database.DB
// satisfies it.
type EventSink interface {
	AppendEvent(ctx context.Context, event *models.Event) error
}

// Recorder appends events to the store and then publishes them on the
// bus. The store write is authoritative: a failed append fails the
// call, while a failed publish only costs live consumers a
// notification they can recover from the store.
type Recorder struct {
	store EventSink
	bus   Publisher
}

// NewRecorder wires a store to a bus. A nil bus disables publishing,
// which keeps tests and store-only tools simple.
func NewRecorder(store EventSink, bus Publisher) *Recorder {
	return &Recorder{store: store, bus: bus}
}

// AppendEvent persists the event and redistributes it. The event's ID
// and CreatedAt are filled in by the store before the bus sees it.
func (r *Recorder) AppendEvent(ctx context.Context, event *models.Event) error {
	if err := r.store.AppendEvent(ctx, event); err != nil {
		return err
	}

	if r.bus == nil {
		return nil
	}

	if err := r.bus.PublishEvent(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Int64("event_id", event.ID).
			Str("channel", event.Channel.String()).
			Msg("Event stored but not redistributed")
	}
	return nil
}
