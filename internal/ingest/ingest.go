// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// source is the component name stamped on events this stage appends.
const source = "ingestion"

// Store is the persistence surface the ingestion stage needs. It is
// satisfied by *database.DB.
type Store interface {
	// InsertMessage stores a message exactly once per message_id,
	// reporting whether this call was the first delivery.
	InsertMessage(ctx context.Context, msg *models.Message) (bool, error)

	// GetMessage fetches a stored message by message_id.
	GetMessage(ctx context.Context, messageID string) (*models.Message, error)

	// AppendEvent appends one event to the correlation log.
	AppendEvent(ctx context.Context, event *models.Event) error
}

// Stage turns raw platform messages into stored rows plus correlation
// events. It is stateless apart from configuration and safe for
// concurrent use.
type Stage struct {
	store Store

	backdateThreshold time.Duration
	tradingLoc        *time.Location
	sessionOpenMin    int
	sessionCloseMin   int
}

// New builds the ingestion stage. The trading timezone and session
// clock are resolved once here so every flag computation afterwards is
// an arithmetic check.
func New(store Store, ingestCfg config.IngestConfig, tradingCfg config.TradingConfig) (*Stage, error) {
	loc, err := tradingCfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve trading timezone: %w", err)
	}
	openMin, closeMin, err := tradingCfg.SessionBounds()
	if err != nil {
		return nil, fmt.Errorf("resolve trading session: %w", err)
	}

	return &Stage{
		store:             store,
		backdateThreshold: ingestCfg.BackdateThreshold,
		tradingLoc:        loc,
		sessionOpenMin:    openMin,
		sessionCloseMin:   closeMin,
	}, nil
}

// Ingest validates, dedups and stores one raw message, then records
// the outcome on the event log.
//
// A first delivery is stored under a freshly minted correlation ID and
// produces an ingestion:message event (warning when any audit flag is
// set, info otherwise). A redelivery leaves the stored row untouched
// and produces a duplicate_skipped event under the original
// correlation ID, so the flow trace shows the redelivery.
//
// Validation failures return *models.ValidationError and persist
// nothing. Store failures propagate unwrapped; ingestion performs no
// retries because the message_id key makes caller retry safe.
func (s *Stage) Ingest(ctx context.Context, raw *models.RawMessage) (*models.IngestResult, error) {
	start := time.Now()

	if verr := raw.Validate(); verr != nil {
		metrics.MessagesIngested.WithLabelValues("invalid").Inc()
		return nil, verr
	}

	storedAt := raw.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}
	storedAt = storedAt.UTC()

	flags := s.computeFlags(raw.PlatformTimestamp, storedAt)
	timeToIngest := storedAt.Sub(raw.PlatformTimestamp.UTC())
	correlationID := uuid.New().String()

	msg := &models.Message{
		MessageID:         raw.MessageID,
		ChannelRef:        raw.ChannelRef,
		AuthorID:          raw.AuthorID,
		Content:           raw.Content,
		PlatformTimestamp: raw.PlatformTimestamp.UTC(),
		StoredAt:          storedAt,
		CorrelationID:     correlationID,
		Flags:             flags,
		TimeToIngestMS:    timeToIngest.Milliseconds(),
	}

	inserted, err := s.store.InsertMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return s.recordDuplicate(ctx, raw, timeToIngest)
	}

	ctx = logging.ContextWithCorrelationID(ctx, correlationID)

	eventType := models.EventTypeInfo
	if flags.Any() {
		eventType = models.EventTypeWarning
	}
	if err := s.appendIngestionEvent(ctx, raw.MessageID, correlationID, eventType,
		models.NewIngestionPayload(raw.MessageID, string(models.IngestStatusStored), flags, msg.TimeToIngestMS)); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("message_id", raw.MessageID).
		Bool("flagged", flags.Any()).
		Int64("time_to_ingest_ms", msg.TimeToIngestMS).
		Msg("Message ingested")

	metrics.RecordIngest(string(models.IngestStatusStored), timeToIngest,
		flags.IsWeekend, flags.IsOutOfHours, flags.IsBackdated)
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	return &models.IngestResult{
		Status:        models.IngestStatusStored,
		CorrelationID: correlationID,
		Flags:         flags,
	}, nil
}

// recordDuplicate handles a redelivery: the stored row stays untouched
// and the skip is recorded under the original correlation ID so traces
// show every delivery attempt.
func (s *Stage) recordDuplicate(ctx context.Context, raw *models.RawMessage, timeToIngest time.Duration) (*models.IngestResult, error) {
	var originalCorrelation string
	if orig, err := s.store.GetMessage(ctx, raw.MessageID); err == nil {
		originalCorrelation = orig.CorrelationID
	} else {
		// The original row exists (the insert just collided with it);
		// failing to read it only costs the trace linkage.
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("message_id", raw.MessageID).
			Msg("Duplicate detected but original row not readable")
	}

	ctx = logging.ContextWithCorrelationID(ctx, originalCorrelation)

	if err := s.appendIngestionEvent(ctx, raw.MessageID, originalCorrelation, models.EventTypeDuplicateSkipped,
		models.NewIngestionPayload(raw.MessageID, string(models.IngestStatusDuplicate), models.AuditFlags{}, 0)); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("message_id", raw.MessageID).
		Msg("Duplicate message skipped")

	metrics.RecordIngest(string(models.IngestStatusDuplicate), timeToIngest, false, false, false)

	return &models.IngestResult{
		Status:        models.IngestStatusDuplicate,
		CorrelationID: originalCorrelation,
	}, nil
}

// appendIngestionEvent writes one event on the ingestion channel.
func (s *Stage) appendIngestionEvent(ctx context.Context, messageID, correlationID string, eventType models.EventType, payload models.IngestionPayload) error {
	data, err := models.MarshalPayload(payload)
	if err != nil {
		return fmt.Errorf("marshal ingestion payload: %w", err)
	}

	event := &models.Event{
		Channel:       models.ChannelIngestionMessage,
		EventType:     eventType,
		Source:        source,
		CorrelationID: correlationID,
		Data:          data,
	}

	err = s.store.AppendEvent(ctx, event)
	metrics.RecordEventAppend(string(event.Channel), string(event.EventType), err)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("message_id", messageID).
			Msg("Ingestion event append failed")
		return err
	}
	return nil
}
