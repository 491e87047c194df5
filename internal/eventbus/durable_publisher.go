// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

//go:build wal && nats

package eventbus

import (
	"context"
	"fmt"

	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/models"
	"github.com/tomtom215/tickerflow/internal/wal"
)

// DurablePublisher wraps the NATS publisher with write-ahead logging so
// no event notification is lost to a broker outage or crash.
//
// The flow per event:
//  1. Write to the WAL (fsync'd, durable)
//  2. Attempt the JetStream publish
//  3. On success, confirm the WAL entry
//  4. On failure, leave the entry pending for the background RetryLoop
type DurablePublisher struct {
	inner *NATSPublisher
	wal   wal.WAL
}

// NewDurablePublisher wires a WAL in front of the NATS publisher.
func NewDurablePublisher(inner *NATSPublisher, w wal.WAL) (*DurablePublisher, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner publisher required")
	}
	if w == nil {
		return nil, fmt.Errorf("WAL required")
	}
	return &DurablePublisher{inner: inner, wal: w}, nil
}

// PublishEvent persists the event to the WAL, publishes it, and
// confirms the entry. A failed publish returns nil: the entry stays
// pending and the retry loop delivers it once the broker recovers.
func (p *DurablePublisher) PublishEvent(ctx context.Context, event *models.Event) error {
	entryID, err := p.wal.Write(ctx, event)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Int64("event_id", event.ID).
			Msg("WAL write failed, attempting direct publish")
		// Better to attempt the publish than lose the notification.
		return p.inner.PublishEvent(ctx, event)
	}

	if err := p.inner.PublishEvent(ctx, event); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Int64("event_id", event.ID).
			Str("wal_entry_id", entryID).
			Msg("Publish failed, entry queued for retry")
		return nil
	}

	if err := p.wal.Confirm(ctx, entryID); err != nil {
		// Published fine; an unconfirmed entry is re-published later
		// and deduplicated by its Nats-Msg-Id.
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("wal_entry_id", entryID).
			Msg("WAL confirm failed")
	}
	return nil
}

// Close shuts down the inner publisher. The WAL has its own owner.
func (p *DurablePublisher) Close() error {
	return p.inner.Close()
}

// RetryPublisher adapts the inner publisher for the WAL retry loop.
// Entries carry serialized events; each retry deserializes and
// re-publishes under the original message id.
func (p *DurablePublisher) RetryPublisher() wal.Publisher {
	return wal.PublisherFunc(func(ctx context.Context, entry *wal.Entry) error {
		var event models.Event
		if err := entry.UnmarshalPayload(&event); err != nil {
			return fmt.Errorf("unmarshal WAL entry %s: %w", entry.ID, err)
		}
		return p.inner.PublishEvent(ctx, &event)
	})
}
