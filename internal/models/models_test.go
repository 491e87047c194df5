// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Channel
	}{
		{"discord message", "discord:message", ChannelDiscordMessage},
		{"ingestion message", "ingestion:message", ChannelIngestionMessage},
		{"parsing setup", "parsing:setup", ChannelParsingSetup},
		{"parsing failed", "parsing:failed", ChannelParsingFailed},
		{"bot startup", "bot:startup", ChannelBotStartup},
		{"system", "system", ChannelSystem},
		{"unknown maps to other", "discord:reaction", ChannelOther},
		{"empty maps to other", "", ChannelOther},
		{"case sensitive", "Ingestion:Message", ChannelOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseChannel(tt.input); got != tt.want {
				t.Errorf("ParseChannel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChannelValid(t *testing.T) {
	for _, c := range Channels() {
		if !c.Valid() {
			t.Errorf("Channels() returned invalid channel %q", c)
		}
	}
	if ChannelOther.Valid() {
		t.Error("ChannelOther should not be valid")
	}
	if Channel("made:up").Valid() {
		t.Error("unknown channel should not be valid")
	}
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		input string
		want  EventType
	}{
		{"info", EventTypeInfo},
		{"warning", EventTypeWarning},
		{"error", EventTypeError},
		{"success", EventTypeSuccess},
		{"duplicate_skipped", EventTypeDuplicateSkipped},
		{"fatal", EventTypeOther},
		{"", EventTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseEventType(tt.input); got != tt.want {
				t.Errorf("ParseEventType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateEventData(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantErr   bool
		wantField string
	}{
		{
			name: "valid object with schema version",
			data: `{"schema_version": 1, "message_id": "123"}`,
		},
		{
			name: "schema version as string still counts",
			data: `{"schema_version": "1"}`,
		},
		{
			name:      "missing schema version",
			data:      `{"message_id": "123"}`,
			wantErr:   true,
			wantField: "data",
		},
		{
			name:      "array rejected",
			data:      `[{"schema_version": 1}]`,
			wantErr:   true,
			wantField: "data",
		},
		{
			name:      "scalar rejected",
			data:      `42`,
			wantErr:   true,
			wantField: "data",
		},
		{
			name:      "string rejected",
			data:      `"schema_version"`,
			wantErr:   true,
			wantField: "data",
		},
		{
			name:      "malformed JSON rejected",
			data:      `{"schema_version": `,
			wantErr:   true,
			wantField: "data",
		},
		{
			name:      "null rejected",
			data:      `null`,
			wantErr:   true,
			wantField: "data",
		},
		{
			name:      "empty rejected",
			data:      ``,
			wantErr:   true,
			wantField: "data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEventData([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateEventData(%q) = nil, want error", tt.data)
				}
				if err.Field != tt.wantField {
					t.Errorf("error field = %q, want %q", err.Field, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateEventData(%q) = %v, want nil", tt.data, err)
			}
		})
	}
}

func TestValidateEventInput(t *testing.T) {
	validData := []byte(`{"schema_version": 1}`)

	if err := ValidateEventInput(ChannelSystem, "server", validData); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}

	if err := ValidateEventInput(Channel("nope"), "server", validData); err == nil {
		t.Error("unknown channel accepted")
	} else if err.Field != "channel" {
		t.Errorf("error field = %q, want channel", err.Field)
	}

	if err := ValidateEventInput(ChannelSystem, "", validData); err == nil {
		t.Error("empty source accepted")
	} else if err.Field != "source" {
		t.Errorf("error field = %q, want source", err.Field)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "data", Message: "must be a JSON object"}
	if got := err.Error(); got != "data: must be a JSON object" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRawMessageValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		msg       RawMessage
		wantField string
	}{
		{
			name: "valid message",
			msg:  RawMessage{MessageID: "111", AuthorID: "trader", Content: "SPY calls", PlatformTimestamp: now},
		},
		{
			name: "author and channel optional",
			msg:  RawMessage{MessageID: "111", Content: "SPY calls", PlatformTimestamp: now},
		},
		{
			name:      "missing message id",
			msg:       RawMessage{AuthorID: "trader", Content: "hi", PlatformTimestamp: now},
			wantField: "message_id",
		},
		{
			name:      "whitespace message id",
			msg:       RawMessage{MessageID: "   ", AuthorID: "trader", Content: "hi", PlatformTimestamp: now},
			wantField: "message_id",
		},
		{
			name:      "missing content",
			msg:       RawMessage{MessageID: "111", AuthorID: "trader", PlatformTimestamp: now},
			wantField: "content",
		},
		{
			name:      "whitespace content",
			msg:       RawMessage{MessageID: "111", AuthorID: "trader", Content: "   ", PlatformTimestamp: now},
			wantField: "content",
		},
		{
			name:      "zero timestamp",
			msg:       RawMessage{MessageID: "111", AuthorID: "trader", Content: "hi"},
			wantField: "platform_timestamp",
		},
		{
			name: "content too long",
			msg: RawMessage{
				MessageID:         "111",
				AuthorID:          "trader",
				Content:           strings.Repeat("x", MaxContentLength+1),
				PlatformTimestamp: now,
			},
			wantField: "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if err.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", err.Field, tt.wantField)
			}
		})
	}
}

func TestRawMessageContentAtLimit(t *testing.T) {
	msg := RawMessage{
		MessageID:         "111",
		AuthorID:          "trader",
		Content:           strings.Repeat("x", MaxContentLength),
		PlatformTimestamp: time.Now(),
	}
	if err := msg.Validate(); err != nil {
		t.Errorf("content at exact limit rejected: %v", err)
	}
}

func TestAuditFlagsAny(t *testing.T) {
	tests := []struct {
		name  string
		flags AuditFlags
		want  bool
	}{
		{"none", AuditFlags{}, false},
		{"weekend", AuditFlags{IsWeekend: true}, true},
		{"out of hours", AuditFlags{IsOutOfHours: true}, true},
		{"backdated", AuditFlags{IsBackdated: true}, true},
		{"all", AuditFlags{IsWeekend: true, IsOutOfHours: true, IsBackdated: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.Any(); got != tt.want {
				t.Errorf("Any() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"replace", PolicyReplace, false},
		{"skip", PolicySkip, false},
		{"allow", PolicyAllow, false},
		{"REPLACE", "", true},
		{"upsert", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDuplicatePolicy(%q) accepted, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuplicatePolicy(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuplicatePolicy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMarshalPayloadPassesValidation(t *testing.T) {
	payloads := []interface{}{
		NewIngestionPayload("111", "stored", AuditFlags{IsWeekend: true}, 250),
		ParsingPayload{SchemaVersion: PayloadSchemaVersion, MessageID: "111", TradingDate: "2025-06-06", Tickers: []string{"AAPL"}, SetupCount: 1},
		ParseFailedPayload{SchemaVersion: PayloadSchemaVersion, MessageID: "111", Reason: ParseFailedReasonNoSetups},
		NewSystemPayload("server", "started"),
	}

	for _, p := range payloads {
		data, err := MarshalPayload(p)
		if err != nil {
			t.Fatalf("MarshalPayload(%T) error: %v", p, err)
		}
		if verr := ValidateEventData(data); verr != nil {
			t.Errorf("payload %T does not pass event validation: %v", p, verr)
		}
	}
}

func TestIngestionPayloadFields(t *testing.T) {
	p := NewIngestionPayload("msg-1", "stored", AuditFlags{IsBackdated: true}, 1200)

	if p.SchemaVersion != PayloadSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", p.SchemaVersion, PayloadSchemaVersion)
	}
	if !p.IsBackdated || p.IsWeekend || p.IsOutOfHours {
		t.Errorf("flags not carried over: %+v", p)
	}
	if p.TimeToIngestMS != 1200 {
		t.Errorf("TimeToIngestMS = %d, want 1200", p.TimeToIngestMS)
	}

	data, err := MarshalPayload(p)
	if err != nil {
		t.Fatalf("MarshalPayload error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip unmarshal error: %v", err)
	}
	if decoded["message_id"] != "msg-1" {
		t.Errorf("message_id = %v, want msg-1", decoded["message_id"])
	}
}

func TestEventJSONOmitsEmptyCorrelation(t *testing.T) {
	e := Event{
		ID:        1,
		Channel:   ChannelSystem,
		EventType: EventTypeInfo,
		Source:    "server",
		Data:      json.RawMessage(`{"schema_version":1}`),
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(data), "correlation_id") {
		t.Errorf("empty correlation_id serialized: %s", data)
	}
}
