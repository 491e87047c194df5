// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// PayloadSchemaVersion is the current schema version for event payloads.
// Every payload written to the event store carries this tag so consumers
// can handle format changes without guessing.
const PayloadSchemaVersion = 1

// Channel identifies the processing stage that produced an event.
//
// The set is closed: values outside the known constants are mapped to
// ChannelOther on parse so that stored history written by newer versions
// still round-trips instead of failing.
type Channel string

const (
	// ChannelDiscordMessage records receipt of a raw platform message by
	// the chat connector (an external collaborator of this core).
	ChannelDiscordMessage Channel = "discord:message"

	// ChannelIngestionMessage records the ingestion stage's outcome for
	// one message: stored with audit flags, or a skipped duplicate.
	ChannelIngestionMessage Channel = "ingestion:message"

	// ChannelParsingSetup records a successful parse (one or more setups).
	ChannelParsingSetup Channel = "parsing:setup"

	// ChannelParsingFailed records a parse that yielded zero setups.
	ChannelParsingFailed Channel = "parsing:failed"

	// ChannelBotStartup records chat-bot lifecycle announcements.
	ChannelBotStartup Channel = "bot:startup"

	// ChannelSystem records server lifecycle and operational events.
	ChannelSystem Channel = "system"

	// ChannelOther is the forward-compatibility variant for values this
	// build does not know.
	ChannelOther Channel = "other"
)

// knownChannels is the closed set accepted by Valid and filters.
var knownChannels = map[Channel]struct{}{
	ChannelDiscordMessage:   {},
	ChannelIngestionMessage: {},
	ChannelParsingSetup:     {},
	ChannelParsingFailed:    {},
	ChannelBotStartup:       {},
	ChannelSystem:           {},
}

// ParseChannel maps a raw string to a Channel, returning ChannelOther for
// values outside the known set.
func ParseChannel(s string) Channel {
	c := Channel(s)
	if _, ok := knownChannels[c]; ok {
		return c
	}
	return ChannelOther
}

// Valid reports whether the channel is one of the known variants.
func (c Channel) Valid() bool {
	_, ok := knownChannels[c]
	return ok
}

// String returns the wire form of the channel.
func (c Channel) String() string {
	return string(c)
}

// Channels returns all known channels in a stable order.
func Channels() []Channel {
	return []Channel{
		ChannelDiscordMessage,
		ChannelIngestionMessage,
		ChannelParsingSetup,
		ChannelParsingFailed,
		ChannelBotStartup,
		ChannelSystem,
	}
}

// EventType classifies an event within its channel.
type EventType string

const (
	EventTypeInfo    EventType = "info"
	EventTypeWarning EventType = "warning"
	EventTypeError   EventType = "error"
	EventTypeSuccess EventType = "success"

	// EventTypeDuplicateSkipped marks the re-delivery of an already
	// ingested message. A normal outcome, not a failure.
	EventTypeDuplicateSkipped EventType = "duplicate_skipped"

	// EventTypeOther is the forward-compatibility variant.
	EventTypeOther EventType = "other"
)

var knownEventTypes = map[EventType]struct{}{
	EventTypeInfo:             {},
	EventTypeWarning:          {},
	EventTypeError:            {},
	EventTypeSuccess:          {},
	EventTypeDuplicateSkipped: {},
}

// ParseEventType maps a raw string to an EventType, returning
// EventTypeOther for values outside the known set.
func ParseEventType(s string) EventType {
	t := EventType(s)
	if _, ok := knownEventTypes[t]; ok {
		return t
	}
	return EventTypeOther
}

// Valid reports whether the event type is one of the known variants.
func (t EventType) Valid() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// String returns the wire form of the event type.
func (t EventType) String() string {
	return string(t)
}

// Event is one immutable record in the correlation log.
//
// ID is assigned by the store at insert from a single sequence, making it
// the canonical chronological order within a process. Events are never
// mutated or deleted after insert.
type Event struct {
	ID            int64           `json:"id"`
	Channel       Channel         `json:"channel"`
	EventType     EventType       `json:"event_type"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ValidationError describes a malformed input field. The input is rejected
// and nothing is persisted.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEventInput checks an append request before it reaches storage.
// The data payload must be a well-formed JSON object carrying a
// schema_version tag; source must be set; the channel must be known.
func ValidateEventInput(channel Channel, source string, data []byte) *ValidationError {
	if !channel.Valid() {
		return &ValidationError{Field: "channel", Message: fmt.Sprintf("unknown channel %q", channel)}
	}
	if source == "" {
		return &ValidationError{Field: "source", Message: "required"}
	}
	return ValidateEventData(data)
}

// ValidateEventData checks that a payload is a JSON object with a
// schema_version field. Arrays, scalars and malformed JSON are rejected.
func ValidateEventData(data []byte) *ValidationError {
	if len(data) == 0 {
		return &ValidationError{Field: "data", Message: "required"}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return &ValidationError{Field: "data", Message: "must be a JSON object"}
	}
	if obj == nil {
		return &ValidationError{Field: "data", Message: "must be a JSON object"}
	}
	if _, ok := obj["schema_version"]; !ok {
		return &ValidationError{Field: "data", Message: "missing schema_version"}
	}
	return nil
}

// IngestionPayload is the data attached to ingestion:message events.
type IngestionPayload struct {
	SchemaVersion  int    `json:"schema_version"`
	MessageID      string `json:"message_id"`
	Status         string `json:"status"`
	IsWeekend      bool   `json:"is_weekend"`
	IsOutOfHours   bool   `json:"is_out_of_hours"`
	IsBackdated    bool   `json:"is_backdated"`
	TimeToIngestMS int64  `json:"time_to_ingest_ms"`
}

// NewIngestionPayload builds the payload for a stored message.
func NewIngestionPayload(messageID, status string, flags AuditFlags, timeToIngestMS int64) IngestionPayload {
	return IngestionPayload{
		SchemaVersion:  PayloadSchemaVersion,
		MessageID:      messageID,
		Status:         status,
		IsWeekend:      flags.IsWeekend,
		IsOutOfHours:   flags.IsOutOfHours,
		IsBackdated:    flags.IsBackdated,
		TimeToIngestMS: timeToIngestMS,
	}
}

// ParsingPayload is the data attached to parsing:setup events.
type ParsingPayload struct {
	SchemaVersion int      `json:"schema_version"`
	MessageID     string   `json:"message_id"`
	TradingDate   string   `json:"trading_date"`
	Tickers       []string `json:"tickers"`
	SetupCount    int      `json:"setup_count"`
}

// ParseFailedPayload is the data attached to parsing:failed events.
type ParseFailedPayload struct {
	SchemaVersion int    `json:"schema_version"`
	MessageID     string `json:"message_id"`
	Reason        string `json:"reason"`
}

// ParseFailedReasonNoSetups is the reason recorded when a message parses
// cleanly but yields no setups. Expected for non-setup chatter.
const ParseFailedReasonNoSetups = "no_setups_extracted"

// SystemPayload is the data attached to system and lifecycle events.
type SystemPayload struct {
	SchemaVersion int    `json:"schema_version"`
	Component     string `json:"component"`
	Message       string `json:"message"`
}

// NewSystemPayload builds a lifecycle payload for the given component.
func NewSystemPayload(component, message string) SystemPayload {
	return SystemPayload{
		SchemaVersion: PayloadSchemaVersion,
		Component:     component,
		Message:       message,
	}
}

// MarshalPayload serializes any payload struct for the event store.
func MarshalPayload(payload interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}
