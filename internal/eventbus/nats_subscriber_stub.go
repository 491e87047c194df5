// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build !nats

package eventbus

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/tickerflow/internal/config"
)

// NATSSubscriber is a stub when NATS support is not compiled in.
// Build with -tags=nats to enable JetStream consumption.
type NATSSubscriber struct{}

// NewNATSSubscriber returns an error when NATS support is not compiled
// in. Build with -tags=nats to enable JetStream consumption.
func NewNATSSubscriber(cfg config.NATSConfig, logger watermill.LoggerAdapter) (*NATSSubscriber, error) {
	return nil, fmt.Errorf("NATS subscriber not available: build with -tags=nats")
}

// Subscribe is a stub that returns an error.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return nil, fmt.Errorf("NATS subscriber not available: build with -tags=nats")
}

// Close is a no-op stub.
func (s *NATSSubscriber) Close() error {
	return nil
}
