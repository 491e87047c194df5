// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// MessageHandler drains one topic and hands each message to a
// processing function. It works over any Subscriber, so the same
// consumer code runs against the in-process bus and JetStream.
type MessageHandler struct {
	subscriber Subscriber
	topic      string
	handler    func(ctx context.Context, msg *message.Message) error
}

// NewMessageHandler creates a handler for the given topic.
func NewMessageHandler(subscriber Subscriber, topic string) *MessageHandler {
	return &MessageHandler{
		subscriber: subscriber,
		topic:      topic,
	}
}

// Handle sets the processing function. A returned error nacks the
// message; transports with redelivery will retry it.
func (h *MessageHandler) Handle(fn func(ctx context.Context, msg *message.Message) error) *MessageHandler {
	h.handler = fn
	return h
}

// Run processes messages until the context is canceled or the
// subscription channel closes. Processing failures are logged and
// counted, never fatal to the loop.
func (h *MessageHandler) Run(ctx context.Context) error {
	messages, err := h.subscriber.Subscribe(ctx, h.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", h.topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			h.processMessage(ctx, msg)
		}
	}
}

func (h *MessageHandler) processMessage(ctx context.Context, msg *message.Message) {
	if h.handler == nil {
		msg.Ack()
		return
	}

	start := time.Now()
	err := h.handler(ctx, msg)
	metrics.RecordBusConsume(h.topic, time.Since(start))

	if err != nil {
		logging.Error().
			Err(err).
			Str("message_uuid", msg.UUID).
			Str("topic", h.topic).
			Msg("Bus message processing failed")
		msg.Nack()
		return
	}
	msg.Ack()
}

// EventHandler is a MessageHandler that deserializes events before
// invoking the processing function.
type EventHandler struct {
	handler    *MessageHandler
	serializer *Serializer
}

// NewEventHandler creates an event-typed handler for the given topic.
func NewEventHandler(subscriber Subscriber, topic string) *EventHandler {
	return &EventHandler{
		handler:    NewMessageHandler(subscriber, topic),
		serializer: NewSerializer(),
	}
}

// Handle sets the event processing function.
func (h *EventHandler) Handle(fn func(ctx context.Context, event *models.Event) error) *EventHandler {
	h.handler.Handle(func(ctx context.Context, msg *message.Message) error {
		event, err := h.serializer.Unmarshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("unmarshal event: %w", err)
		}
		return fn(ctx, event)
	})
	return h
}

// Run processes events until context cancellation.
func (h *EventHandler) Run(ctx context.Context) error {
	return h.handler.Run(ctx)
}
