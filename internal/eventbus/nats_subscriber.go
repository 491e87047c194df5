// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build nats

package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/tickerflow/internal/config"
)

// subscriberCloseTimeout bounds how long Close waits for in-flight
// messages during shutdown.
const subscriberCloseTimeout = 30 * time.Second

// NATSSubscriber consumes recorded events from JetStream with a
// durable consumer, so restarts resume where they left off.
type NATSSubscriber struct {
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter
}

// NewNATSSubscriber creates a durable JetStream subscriber bound to
// the events stream. Queue-group delivery load balances instances
// sharing one durable name.
func NewNATSSubscriber(cfg config.NATSConfig, logger watermill.LoggerAdapter) (*NATSSubscriber, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("Subscriber disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.MaxDeliver(5),
		natsgo.AckWait(30 * time.Second),
		natsgo.DeliverNew(),
		// Stream names cannot carry wildcards, so bind instead of
		// auto-provisioning from the topic.
		natsgo.BindStream(StreamName),
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     subscriberCloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    false,
			AckAsync:         false,
			SubscribeOptions: subOpts,
			DurablePrefix:    cfg.DurableName,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &NATSSubscriber{
		subscriber: sub,
		logger:     logger,
	}, nil
}

// Subscribe returns a channel of messages for the given topic.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return s.subscriber.Subscribe(ctx, topic)
}

// Close gracefully shuts down the subscriber.
func (s *NATSSubscriber) Close() error {
	return s.subscriber.Close()
}
