// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/models"
)

// Serializer converts events to and from bus messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts an event to JSON bytes.
func (s *Serializer) Marshal(event *models.Event) ([]byte, error) {
	if verr := models.ValidateEventInput(event.Channel, event.Source, event.Data); verr != nil {
		return nil, fmt.Errorf("validate event: %w", verr)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal converts JSON bytes back to an event.
func (s *Serializer) Unmarshal(data []byte) (*models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}

// NewMessage wraps a serialized event in a Watermill message with
// routing metadata. The message UUID is the stored event id so brokers
// that track message ids deduplicate redeliveries.
func (s *Serializer) NewMessage(event *models.Event) (*message.Message, error) {
	data, err := s.Marshal(event)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(messageUUID(event), data)
	msg.Metadata.Set(MetadataChannel, event.Channel.String())
	msg.Metadata.Set(MetadataEventType, event.EventType.String())
	msg.Metadata.Set(MetadataSource, event.Source)
	if event.CorrelationID != "" {
		msg.Metadata.Set(MetadataCorrelationID, event.CorrelationID)
	}
	return msg, nil
}

// EventFromMessage deserializes a bus message back into an event.
func EventFromMessage(msg *message.Message) (*models.Event, error) {
	return NewSerializer().Unmarshal(msg.Payload)
}
