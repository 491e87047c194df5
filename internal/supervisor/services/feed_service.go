// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package services

import (
	"context"
)

// FeedRunner interface matches the event feed's Run method.
//
// This interface allows the EventFeedService to work with the bus
// consumers without importing the eventbus package, avoiding circular
// dependencies.
//
// Satisfied by *eventbus.EventHandler and *eventbus.MessageHandler:
//   - Run(ctx context.Context) error
type FeedRunner interface {
	Run(ctx context.Context) error
}

// EventFeedService wraps a bus consumer as a supervised service.
//
// The feed subscribes to the event bus and pushes every published event
// to its sink, typically the WebSocket hub for the live feed. Run already
// blocks until context cancellation, so this wrapper simply delegates and
// provides a name for logging.
//
// Example usage:
//
//	feed := eventbus.NewEventHandler(bus, eventbus.TopicEvents).
//	    Handle(func(ctx context.Context, event *models.Event) error {
//	        hub.BroadcastEvent(event)
//	        return nil
//	    })
//	svc := services.NewEventFeedService(feed)
//	tree.AddMessagingService(svc)
type EventFeedService struct {
	feed FeedRunner
	name string
}

// NewEventFeedService creates a new event feed service wrapper.
func NewEventFeedService(feed FeedRunner) *EventFeedService {
	return &EventFeedService{
		feed: feed,
		name: "event-feed",
	}
}

// Serve implements suture.Service.
//
// This method delegates to feed.Run which:
//  1. Consumes events from the bus subscription
//  2. Invokes the configured processing function per event
//  3. Returns when the context is canceled
//
// A non-nil error from the underlying subscription causes suture to
// restart the feed, re-establishing the subscription.
func (f *EventFeedService) Serve(ctx context.Context) error {
	return f.feed.Run(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (f *EventFeedService) String() string {
	return f.name
}
