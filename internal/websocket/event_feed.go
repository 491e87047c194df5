// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package websocket

import (
	"context"

	"github.com/tomtom215/tickerflow/internal/eventbus"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/models"
)

// EventFeed bridges the event bus to the websocket hub. It subscribes
// to the recorded-event topic and pushes every event into the hub,
// which fans it out to connected clients.
//
// The feed works over any eventbus.Subscriber, so the same code serves
// the in-process bus and JetStream. In nats builds, wire it with its
// own subscriber (separate queue group) so the feed and the pipeline
// do not split the event stream between them.
type EventFeed struct {
	hub     *Hub
	handler *eventbus.EventHandler
}

// NewEventFeed creates the bridge. The subscriber is owned by the
// caller and must outlive the feed.
func NewEventFeed(hub *Hub, subscriber eventbus.Subscriber) *EventFeed {
	feed := &EventFeed{hub: hub}
	feed.handler = eventbus.NewEventHandler(subscriber, eventbus.TopicEvents).
		Handle(func(_ context.Context, event *models.Event) error {
			hub.BroadcastEvent(event)
			return nil
		})
	return feed
}

// Run forwards events until the context is canceled or the
// subscription closes. Designed to run under supervision alongside
// Hub.RunWithContext.
func (f *EventFeed) Run(ctx context.Context) error {
	logging.Info().Str("topic", eventbus.TopicEvents).Msg("Websocket event feed started")
	err := f.handler.Run(ctx)
	logging.Info().Msg("Websocket event feed stopped")
	return err
}
