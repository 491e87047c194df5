// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/metrics"
)

// NewPublishBreaker creates the circuit breaker guarding JetStream
// publishes. A wedged broker trips the breaker so callers fail fast
// and fall back to the write-ahead log instead of blocking ingestion.
func NewPublishBreaker(cfg config.NATSConfig) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:    "nats-publish",
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}
