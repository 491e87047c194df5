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
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/models"
)

// NATSPublisher is a stub when NATS support is not compiled in.
// Build with -tags=nats to enable JetStream publishing.
type NATSPublisher struct {
	breaker *gobreaker.CircuitBreaker[any]
}

// NewNATSPublisher returns an error when NATS support is not compiled
// in. Build with -tags=nats to enable JetStream publishing.
func NewNATSPublisher(cfg config.NATSConfig, logger watermill.LoggerAdapter) (*NATSPublisher, error) {
	return nil, fmt.Errorf("NATS publisher not available: build with -tags=nats")
}

// SetCircuitBreaker installs the breaker guarding publish operations.
func (p *NATSPublisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[any]) {
	p.breaker = cb
}

// Publish is a stub that returns an error.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	return fmt.Errorf("NATS publisher not available: build with -tags=nats")
}

// PublishEvent is a stub that returns an error.
func (p *NATSPublisher) PublishEvent(ctx context.Context, event *models.Event) error {
	return fmt.Errorf("NATS publisher not available: build with -tags=nats")
}

// Close is a no-op stub.
func (p *NATSPublisher) Close() error {
	return nil
}
