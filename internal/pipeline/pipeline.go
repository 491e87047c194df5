// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// source is the component name stamped on events this stage appends.
const source = "parsing"

// Ingestor is the ingestion stage surface. Satisfied by *ingest.Stage.
type Ingestor interface {
	Ingest(ctx context.Context, raw *models.RawMessage) (*models.IngestResult, error)
}

// Parser extracts setups from message content. Satisfied by
// *parser.Parser.
type Parser interface {
	Parse(ctx context.Context, content string, hint time.Time) models.ParseResult
}

// Store is the persistence surface the pipeline needs. Satisfied by
// *database.DB.
type Store interface {
	// GetMessage fetches a stored message by message_id.
	GetMessage(ctx context.Context, messageID string) (*models.Message, error)

	// GetPendingMessages returns unparsed messages, oldest stored
	// first with message_id as the tie-break.
	GetPendingMessages(ctx context.Context, limit int) ([]models.Message, error)

	// MarkMessageParsed stamps parsed_at once parsing has handled the
	// message, successfully or not.
	MarkMessageParsed(ctx context.Context, messageID string, parsedAt time.Time) error

	// CountPendingMessages counts stored messages not yet parsed.
	CountPendingMessages(ctx context.Context) (int64, error)

	// SaveSetups persists a parse batch under the duplicate policy.
	SaveSetups(ctx context.Context, setups []models.ParsedSetup, policy models.DuplicatePolicy) (database.SaveResult, error)
}

// EventSink records terminal parsing events. Satisfied by
// *eventbus.Recorder and by *database.DB directly.
type EventSink interface {
	AppendEvent(ctx context.Context, event *models.Event) error
}

// Result reports one full pass through the pipeline.
type Result struct {
	Ingest *models.IngestResult

	// Parse is nil when ingestion deduplicated the message; the
	// original flow owns the parse.
	Parse *models.ParseResult

	Saved database.SaveResult
}

// Pipeline coordinates the stages. It is stateless apart from
// configuration and safe for concurrent use; conflicting setup writes
// are serialized by the store.
type Pipeline struct {
	ingestor Ingestor
	parser   Parser
	store    Store
	events   EventSink

	policy models.DuplicatePolicy
	loc    *time.Location
}

// New builds the pipeline. The duplicate policy and trading timezone
// are resolved from config once here; an invalid value fails startup
// rather than surfacing per message.
func New(ingestor Ingestor, parser Parser, store Store, events EventSink,
	parserCfg config.ParserConfig, tradingCfg config.TradingConfig) (*Pipeline, error) {
	policy, err := models.ParseDuplicatePolicy(parserCfg.DuplicatePolicy)
	if err != nil {
		return nil, err
	}
	loc, err := tradingCfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve trading timezone: %w", err)
	}

	return &Pipeline{
		ingestor: ingestor,
		parser:   parser,
		store:    store,
		events:   events,
		policy:   policy,
		loc:      loc,
	}, nil
}

// ProcessMessage ingests one raw message and, when this delivery stored
// it, parses it in the same call. Redeliveries return after the
// ingestion stage with a duplicate status and a nil Parse.
//
// Errors after a successful store leave the message unparsed; the
// caller may retry (the redelivery is a no-op) and the backlog sweeper
// completes the flow either way.
func (p *Pipeline) ProcessMessage(ctx context.Context, raw *models.RawMessage) (*Result, error) {
	ingestRes, err := p.ingestor.Ingest(ctx, raw)
	if err != nil {
		return nil, err
	}

	result := &Result{Ingest: ingestRes}
	if ingestRes.Status != models.IngestStatusStored {
		return result, nil
	}

	msg, err := p.store.GetMessage(ctx, raw.MessageID)
	if err != nil {
		return nil, fmt.Errorf("fetch stored message: %w", err)
	}

	parseRes, saved, err := p.parseStored(ctx, msg)
	if err != nil {
		return nil, err
	}

	result.Parse = parseRes
	result.Saved = saved
	return result, nil
}

// parseStored runs the parsing stage over one stored message: extract,
// persist under the duplicate policy, record the terminal event, stamp
// parsed_at. The event is recorded before parsed_at so a failure in
// between re-parses rather than leaving the flow without its terminal
// event.
func (p *Pipeline) parseStored(ctx context.Context, msg *models.Message) (*models.ParseResult, database.SaveResult, error) {
	if msg.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, msg.CorrelationID)
	}

	start := time.Now()
	parseRes := p.parser.Parse(ctx, msg.Content, msg.StoredAt.In(p.loc))

	var saved database.SaveResult
	if len(parseRes.Setups) == 0 {
		if err := p.recordParseFailed(ctx, msg); err != nil {
			return nil, saved, err
		}
		metrics.RecordParse("failed", 0, time.Since(start))
	} else {
		var err error
		saved, err = p.store.SaveSetups(ctx, parseRes.Setups, p.policy)
		if err != nil {
			return nil, saved, fmt.Errorf("save setups: %w", err)
		}
		if err := p.recordParseSuccess(ctx, msg, &parseRes); err != nil {
			return nil, saved, err
		}
		metrics.RecordParse("setup", len(parseRes.Setups), time.Since(start))
		metrics.RecordPolicyDecisions(saved.Saved, saved.Skipped, saved.Replaced)
	}

	if err := p.store.MarkMessageParsed(ctx, msg.MessageID, time.Now().UTC()); err != nil {
		return nil, saved, err
	}

	logging.Ctx(ctx).Info().
		Str("message_id", msg.MessageID).
		Str("trading_date", parseRes.ParsedDate).
		Int("tickers", len(parseRes.Tickers)).
		Int("setups", len(parseRes.Setups)).
		Int("saved", saved.Saved).
		Msg("Message parsed")

	return &parseRes, saved, nil
}

// recordParseSuccess appends the parsing:setup event for an extraction
// that yielded setups.
func (p *Pipeline) recordParseSuccess(ctx context.Context, msg *models.Message, parseRes *models.ParseResult) error {
	payload := models.ParsingPayload{
		SchemaVersion: models.PayloadSchemaVersion,
		MessageID:     msg.MessageID,
		TradingDate:   parseRes.ParsedDate,
		Tickers:       parseRes.Tickers,
		SetupCount:    len(parseRes.Setups),
	}
	return p.appendParsingEvent(ctx, msg, models.ChannelParsingSetup, models.EventTypeSuccess, payload)
}

// recordParseFailed appends the parsing:failed event for a zero-setup
// extraction. Expected for non-setup chatter; terminal, not retried.
func (p *Pipeline) recordParseFailed(ctx context.Context, msg *models.Message) error {
	payload := models.ParseFailedPayload{
		SchemaVersion: models.PayloadSchemaVersion,
		MessageID:     msg.MessageID,
		Reason:        models.ParseFailedReasonNoSetups,
	}
	return p.appendParsingEvent(ctx, msg, models.ChannelParsingFailed, models.EventTypeError, payload)
}

// appendParsingEvent writes one terminal event on a parsing channel,
// propagating the ingestion correlation id.
func (p *Pipeline) appendParsingEvent(ctx context.Context, msg *models.Message,
	channel models.Channel, eventType models.EventType, payload interface{}) error {
	data, err := models.MarshalPayload(payload)
	if err != nil {
		return fmt.Errorf("marshal parsing payload: %w", err)
	}

	event := &models.Event{
		Channel:       channel,
		EventType:     eventType,
		Source:        source,
		CorrelationID: msg.CorrelationID,
		Data:          data,
	}

	err = p.events.AppendEvent(ctx, event)
	metrics.RecordEventAppend(string(event.Channel), string(event.EventType), err)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("message_id", msg.MessageID).
			Str("channel", string(channel)).
			Msg("Parsing event append failed")
		return err
	}
	return nil
}
