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

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/tickerflow/internal/config"
)

// StreamName is the JetStream stream holding recorded events.
const StreamName = "TICKERFLOW_EVENTS"

// streamSubjects covers the firehose topic plus room for future
// per-channel subjects under the events hierarchy.
var streamSubjects = []string{"events.>"}

// duplicateWindow is how long JetStream remembers Nats-Msg-Id values.
// Within it, a re-published event id is dropped by the broker.
const duplicateWindow = 2 * time.Minute

// StreamManager handles JetStream stream lifecycle.
type StreamManager struct {
	js     jetstream.JetStream
	nc     *nats.Conn
	config config.NATSConfig
}

// NewStreamManager creates a stream manager on an existing connection.
func NewStreamManager(nc *nats.Conn, cfg config.NATSConfig) (*StreamManager, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	return &StreamManager{
		js:     js,
		nc:     nc,
		config: cfg,
	}, nil
}

// EnsureStream creates or updates the events stream. The DuckDB event
// store is the system of record, so the stream runs with a bounded
// retention window and discards old messages at the limits.
func (m *StreamManager) EnsureStream(ctx context.Context) (jetstream.Stream, error) {
	streamCfg := jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    streamSubjects,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      time.Duration(m.config.StreamRetentionDays) * 24 * time.Hour,
		MaxBytes:    m.config.MaxStore,
		Duplicates:  duplicateWindow,
		Replicas:    1,
		Storage:     jetstream.FileStorage,
		AllowDirect: true,
		Discard:     jetstream.DiscardOld,
	}

	_, err := m.js.Stream(ctx, StreamName)
	if err == nil {
		stream, err := m.js.UpdateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("update stream: %w", err)
		}
		return stream, nil
	}

	stream, err := m.js.CreateStream(ctx, streamCfg)
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}
	return stream, nil
}

// GetStreamInfo returns current stream state.
func (m *StreamManager) GetStreamInfo(ctx context.Context) (*jetstream.StreamInfo, error) {
	stream, err := m.js.Stream(ctx, StreamName)
	if err != nil {
		return nil, fmt.Errorf("get stream: %w", err)
	}
	return stream.Info(ctx)
}

// PurgeStream removes all messages. The event store keeps its copy.
func (m *StreamManager) PurgeStream(ctx context.Context) error {
	stream, err := m.js.Stream(ctx, StreamName)
	if err != nil {
		return fmt.Errorf("get stream: %w", err)
	}
	return stream.Purge(ctx)
}
