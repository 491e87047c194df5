// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build nats

package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// NATSPublisher publishes recorded events to JetStream with circuit
// breaker protection and automatic reconnection.
type NATSPublisher struct {
	publisher  message.Publisher
	serializer *Serializer
	breaker    *gobreaker.CircuitBreaker[any]

	mu     sync.RWMutex
	closed bool
	logger watermill.LoggerAdapter
}

// NewNATSPublisher creates a resilient Watermill NATS publisher bound
// to the pre-created events stream.
func NewNATSPublisher(cfg config.NATSConfig, logger watermill.LoggerAdapter) (*NATSPublisher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // stream is pre-created by StreamManager
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &NATSPublisher{
		publisher:  pub,
		serializer: NewSerializer(),
		logger:     logger,
	}, nil
}

// SetCircuitBreaker installs the breaker guarding publish operations.
func (p *NATSPublisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[any]) {
	p.breaker = cb
}

// Publish sends a message to the given topic. The message UUID doubles
// as Nats-Msg-Id so JetStream deduplicates redeliveries.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	var err error
	if p.breaker != nil {
		_, err = p.breaker.Execute(func() (any, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
	} else {
		err = p.publisher.Publish(topic, msg)
	}

	metrics.RecordBusPublish(topic, err)
	return err
}

// PublishEvent serializes a recorded event and publishes it on
// TopicEvents.
func (p *NATSPublisher) PublishEvent(ctx context.Context, event *models.Event) error {
	msg, err := p.serializer.NewMessage(event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, TopicEvents, msg)
}

// Close gracefully shuts down the publisher.
func (p *NATSPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
