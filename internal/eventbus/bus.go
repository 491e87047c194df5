// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// TopicEvents is the single topic carrying every recorded event. One
// firehose topic keeps the in-process and JetStream transports
// symmetric; consumers filter on metadata.
const TopicEvents = "events.recorded"

// Metadata keys set on every published message. Consumers can route on
// these without deserializing the payload.
const (
	MetadataChannel       = "channel"
	MetadataEventType     = "event_type"
	MetadataSource        = "source"
	MetadataCorrelationID = "correlation_id"
)

// outputChannelBuffer is the per-subscriber buffer of the in-process
// bus. Publishes block once a subscriber falls this far behind, which
// backpressures ingestion instead of growing without bound.
const outputChannelBuffer = 256

// Publisher is the write side of the bus.
type Publisher interface {
	// PublishEvent serializes and publishes a recorded event.
	PublishEvent(ctx context.Context, event *models.Event) error

	// Close releases transport resources. Publish after Close fails.
	Close() error
}

// Subscriber is the read side of the bus. The returned channel closes
// when the context is canceled or the subscriber shuts down.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// GoChannelBus is the default in-process transport. One instance serves
// both sides; it satisfies Publisher and Subscriber.
type GoChannelBus struct {
	pubsub     *gochannel.GoChannel
	serializer *Serializer

	mu     sync.RWMutex
	closed bool
}

// NewGoChannelBus creates the in-process bus. A nil logger falls back
// to the Watermill standard logger.
func NewGoChannelBus(logger watermill.LoggerAdapter) *GoChannelBus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: outputChannelBuffer,
	}, logger)

	return &GoChannelBus{
		pubsub:     pubsub,
		serializer: NewSerializer(),
	}
}

// PublishEvent serializes the event and publishes it on TopicEvents.
// With no subscribers the message is dropped; the event store already
// holds the record.
func (b *GoChannelBus) PublishEvent(ctx context.Context, event *models.Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("event bus is closed")
	}
	b.mu.RUnlock()

	msg, err := b.serializer.NewMessage(event)
	if err != nil {
		return err
	}

	err = b.pubsub.Publish(TopicEvents, msg)
	metrics.RecordBusPublish(TopicEvents, err)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe returns a channel of messages for the given topic.
func (b *GoChannelBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down and closes all subscriber channels.
func (b *GoChannelBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	return b.pubsub.Close()
}

// messageUUID derives the bus message id from the stored event id so
// redeliveries of the same event deduplicate downstream (JetStream
// tracks Nats-Msg-Id). Events without a store id get a random UUID.
func messageUUID(event *models.Event) string {
	if event.ID > 0 {
		return strconv.FormatInt(event.ID, 10)
	}
	return watermill.NewUUID()
}
