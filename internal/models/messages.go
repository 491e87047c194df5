// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package models

import (
	"strings"
	"time"
)

// MaxContentLength caps raw message content at ingestion. Platform chat
// messages top out well below this; anything larger is rejected rather
// than truncated so the stored archive never silently loses text.
const MaxContentLength = 4000

// RawMessage is a chat message as delivered by a platform connector,
// before any processing.
type RawMessage struct {
	MessageID         string    `json:"message_id"`
	ChannelRef        string    `json:"channel_ref"`
	AuthorID          string    `json:"author_id"`
	Content           string    `json:"content"`
	PlatformTimestamp time.Time `json:"platform_timestamp"`

	// StoredAt is the ingestion instant. Connectors leave it zero and
	// the ingestion stage stamps arrival time; re-imports of archived
	// history set it to preserve the original ingestion clock.
	StoredAt time.Time `json:"stored_at,omitempty"`
}

// Validate rejects messages that cannot be ingested: identity, content
// and platform timing are mandatory, author and channel are not
// (webhook-originated messages may lack both).
func (m *RawMessage) Validate() *ValidationError {
	if strings.TrimSpace(m.MessageID) == "" {
		return &ValidationError{Field: "message_id", Message: "required"}
	}
	if strings.TrimSpace(m.Content) == "" {
		return &ValidationError{Field: "content", Message: "required"}
	}
	if m.PlatformTimestamp.IsZero() {
		return &ValidationError{Field: "platform_timestamp", Message: "required"}
	}
	if len(m.Content) > MaxContentLength {
		return &ValidationError{Field: "content", Message: "exceeds maximum length"}
	}
	return nil
}

// AuditFlags are anomaly markers computed at ingestion. They never block
// storage; they only annotate it.
type AuditFlags struct {
	// IsWeekend is set when the platform timestamp falls on Saturday or
	// Sunday in the configured trading timezone.
	IsWeekend bool `json:"is_weekend"`

	// IsOutOfHours is set when the platform timestamp falls outside the
	// configured trading session on a weekday.
	IsOutOfHours bool `json:"is_out_of_hours"`

	// IsBackdated is set when the platform timestamp is older than the
	// configured backdating threshold at arrival time.
	IsBackdated bool `json:"is_backdated"`
}

// Any reports whether at least one flag is set.
func (f AuditFlags) Any() bool {
	return f.IsWeekend || f.IsOutOfHours || f.IsBackdated
}

// IngestStatus is the outcome of one ingestion attempt.
type IngestStatus string

const (
	// IngestStatusStored means the message was persisted and an
	// ingestion event was recorded under a fresh correlation ID.
	IngestStatusStored IngestStatus = "stored"

	// IngestStatusDuplicate means the message ID was already known. The
	// original row is untouched; a duplicate_skipped event is recorded.
	IngestStatusDuplicate IngestStatus = "duplicate"
)

// IngestResult reports what ingestion did with one raw message.
type IngestResult struct {
	Status        IngestStatus `json:"status"`
	CorrelationID string       `json:"correlation_id"`
	Flags         AuditFlags   `json:"flags"`
}

// Message is a stored chat message with its ingestion bookkeeping.
type Message struct {
	MessageID         string     `json:"message_id"`
	ChannelRef        string     `json:"channel_ref"`
	AuthorID          string     `json:"author_id"`
	Content           string     `json:"content"`
	PlatformTimestamp time.Time  `json:"platform_timestamp"`
	StoredAt          time.Time  `json:"stored_at"`
	CorrelationID     string     `json:"correlation_id"`
	Flags             AuditFlags `json:"flags"`

	// TimeToIngestMS is the wall-clock lag between the platform
	// timestamp and storage, in milliseconds. Both instants are taken
	// in UTC so mixed-zone inputs compare correctly.
	TimeToIngestMS int64 `json:"time_to_ingest_ms"`

	// ParsedAt is set once the parsing stage has processed the message.
	// Nil means the message is still awaiting a parse sweep.
	ParsedAt *time.Time `json:"parsed_at,omitempty"`
}
