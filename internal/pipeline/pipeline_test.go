// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/ingest"
	"github.com/tomtom215/tickerflow/internal/models"
	"github.com/tomtom215/tickerflow/internal/parser"
)

// fakeStore is an in-memory store implementing both the ingestion and
// pipeline surfaces, with injectable failures.
type fakeStore struct {
	mu       sync.Mutex
	messages map[string]models.Message
	events   []models.Event
	setups   []models.ParsedSetup

	lastPolicy models.DuplicatePolicy

	insertErr error
	getErr    error
	appendErr error
	saveErr   error
	pendErr   error

	// failAppendAfter rejects appends once this many events exist.
	// Zero disables the trap.
	failAppendAfter int
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]models.Message)}
}

func (f *fakeStore) InsertMessage(_ context.Context, msg *models.Message) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, exists := f.messages[msg.MessageID]; exists {
		return false, nil
	}
	f.messages[msg.MessageID] = *msg
	return true, nil
}

func (f *fakeStore) GetMessage(_ context.Context, messageID string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("not found")
	}
	return &msg, nil
}

func (f *fakeStore) AppendEvent(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.failAppendAfter > 0 && len(f.events) >= f.failAppendAfter {
		return errors.New("append rejected")
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeStore) GetPendingMessages(_ context.Context, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendErr != nil {
		return nil, f.pendErr
	}

	pending := make([]models.Message, 0)
	for _, msg := range f.messages {
		if msg.ParsedAt == nil {
			pending = append(pending, msg)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].StoredAt.Equal(pending[j].StoredAt) {
			return pending[i].StoredAt.Before(pending[j].StoredAt)
		}
		return pending[i].MessageID < pending[j].MessageID
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (f *fakeStore) MarkMessageParsed(_ context.Context, messageID string, parsedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[messageID]
	if !ok {
		return errors.New("not found")
	}
	msg.ParsedAt = &parsedAt
	f.messages[messageID] = msg
	return nil
}

func (f *fakeStore) CountPendingMessages(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, msg := range f.messages {
		if msg.ParsedAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) SaveSetups(_ context.Context, setups []models.ParsedSetup, policy models.DuplicatePolicy) (database.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return database.SaveResult{}, f.saveErr
	}
	f.lastPolicy = policy
	f.setups = append(f.setups, setups...)
	return database.SaveResult{Saved: len(setups)}, nil
}

func (f *fakeStore) eventChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	channels := make([]string, len(f.events))
	for i, e := range f.events {
		channels[i] = string(e.Channel)
	}
	return channels
}

func (f *fakeStore) parsedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, msg := range f.messages {
		if msg.ParsedAt != nil {
			count++
		}
	}
	return count
}

// seedPending inserts a stored-but-unparsed message directly, as if the
// process died between ingestion and parsing.
func (f *fakeStore) seedPending(messageID, content string, storedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[messageID] = models.Message{
		MessageID:         messageID,
		ChannelRef:        "day-trading",
		AuthorID:          "trader1",
		Content:           content,
		PlatformTimestamp: storedAt.Add(-time.Minute),
		StoredAt:          storedAt,
		CorrelationID:     "corr-" + messageID,
	}
}

func testTradingConfig() config.TradingConfig {
	return config.TradingConfig{
		Timezone:     "America/New_York",
		SessionOpen:  "04:00",
		SessionClose: "09:30",
	}
}

func newTestPipeline(t *testing.T, store *fakeStore) *Pipeline {
	t.Helper()

	stage, err := ingest.New(store,
		config.IngestConfig{BackdateThreshold: 24 * time.Hour},
		testTradingConfig())
	if err != nil {
		t.Fatalf("ingest.New() failed: %v", err)
	}

	p, err := New(stage, parser.New(nil), store, store,
		config.ParserConfig{DuplicatePolicy: "allow"},
		testTradingConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return p
}

// fridayRaw returns a clean in-session message: Friday June 6th 2025,
// 09:28 ET, stored two minutes later.
func fridayRaw(messageID string) *models.RawMessage {
	platform := time.Date(2025, time.June, 6, 13, 28, 0, 0, time.UTC)
	return &models.RawMessage{
		MessageID:         messageID,
		ChannelRef:        "day-trading",
		AuthorID:          "trader1",
		Content:           "Friday, June 6th 2025 AAPL breakout above 210",
		PlatformTimestamp: platform,
		StoredAt:          platform.Add(2 * time.Minute),
	}
}

func TestProcessMessage_EndToEnd(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store)

	result, err := p.ProcessMessage(context.Background(), fridayRaw("m1"))
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}

	if result.Ingest.Status != models.IngestStatusStored {
		t.Errorf("Status = %q, want stored", result.Ingest.Status)
	}
	if result.Ingest.Flags.Any() {
		t.Errorf("flags = %+v, want all false", result.Ingest.Flags)
	}
	if result.Parse == nil {
		t.Fatal("Parse is nil for a stored message")
	}
	if result.Saved.Saved != 1 {
		t.Errorf("Saved = %d, want 1", result.Saved.Saved)
	}

	if len(store.setups) != 1 {
		t.Fatalf("setups = %d, want 1", len(store.setups))
	}
	setup := store.setups[0]
	if setup.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want AAPL", setup.Ticker)
	}
	if setup.SetupType != models.SetupTypeBreakout {
		t.Errorf("SetupType = %q, want breakout", setup.SetupType)
	}
	if setup.PriceLevel == nil || *setup.PriceLevel != 210.0 {
		t.Errorf("PriceLevel = %v, want 210", setup.PriceLevel)
	}
	if setup.TradingDate != "2025-06-06" {
		t.Errorf("TradingDate = %q, want 2025-06-06", setup.TradingDate)
	}
	if store.lastPolicy != models.PolicyAllow {
		t.Errorf("policy = %q, want allow", store.lastPolicy)
	}

	channels := store.eventChannels()
	if len(channels) != 2 ||
		channels[0] != string(models.ChannelIngestionMessage) ||
		channels[1] != string(models.ChannelParsingSetup) {
		t.Fatalf("event channels = %v, want [ingestion:message parsing:setup]", channels)
	}
	if store.events[0].CorrelationID != store.events[1].CorrelationID {
		t.Error("ingestion and parsing events do not share a correlation id")
	}
	if store.events[1].EventType != models.EventTypeSuccess {
		t.Errorf("parsing event type = %q, want success", store.events[1].EventType)
	}
	if store.events[1].Source != "parsing" {
		t.Errorf("parsing event source = %q, want parsing", store.events[1].Source)
	}

	var payload models.ParsingPayload
	if err := json.Unmarshal(store.events[1].Data, &payload); err != nil {
		t.Fatalf("decode parsing payload: %v", err)
	}
	if payload.MessageID != "m1" || payload.TradingDate != "2025-06-06" || payload.SetupCount != 1 {
		t.Errorf("payload = %+v", payload)
	}

	if store.parsedCount() != 1 {
		t.Error("message not marked parsed")
	}
}

func TestProcessMessage_DuplicateSkipsParse(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store)
	ctx := context.Background()

	if _, err := p.ProcessMessage(ctx, fridayRaw("m1")); err != nil {
		t.Fatalf("first ProcessMessage() failed: %v", err)
	}
	eventsBefore := len(store.eventChannels())

	result, err := p.ProcessMessage(ctx, fridayRaw("m1"))
	if err != nil {
		t.Fatalf("second ProcessMessage() failed: %v", err)
	}

	if result.Ingest.Status != models.IngestStatusDuplicate {
		t.Errorf("Status = %q, want duplicate", result.Ingest.Status)
	}
	if result.Parse != nil {
		t.Error("Parse should be nil on the duplicate path")
	}
	if len(store.setups) != 1 {
		t.Errorf("setups = %d, want 1 (no re-parse)", len(store.setups))
	}
	if got := len(store.eventChannels()); got != eventsBefore+1 {
		t.Errorf("events = %d, want %d (one duplicate_skipped)", got, eventsBefore+1)
	}
}

func TestProcessMessage_NoSetupsIsTerminal(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store)

	raw := fridayRaw("m-chatter")
	raw.Content = "good morning everyone, great session yesterday"

	result, err := p.ProcessMessage(context.Background(), raw)
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}

	if result.Parse == nil || len(result.Parse.Setups) != 0 {
		t.Fatalf("Parse = %+v, want zero setups", result.Parse)
	}
	if result.Saved.Saved != 0 {
		t.Errorf("Saved = %d, want 0", result.Saved.Saved)
	}

	channels := store.eventChannels()
	if len(channels) != 2 || channels[1] != string(models.ChannelParsingFailed) {
		t.Fatalf("event channels = %v, want parsing:failed terminal", channels)
	}
	if store.events[1].EventType != models.EventTypeError {
		t.Errorf("event type = %q, want error", store.events[1].EventType)
	}

	var payload models.ParseFailedPayload
	if err := json.Unmarshal(store.events[1].Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Reason != models.ParseFailedReasonNoSetups {
		t.Errorf("Reason = %q, want %q", payload.Reason, models.ParseFailedReasonNoSetups)
	}

	if store.parsedCount() != 1 {
		t.Error("zero-setup message should still be marked parsed")
	}
}

func TestProcessMessage_ValidationErrorPropagates(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store)

	raw := fridayRaw("")

	_, err := p.ProcessMessage(context.Background(), raw)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(store.messages) != 0 || len(store.eventChannels()) != 0 {
		t.Error("rejected message left traces in the store")
	}
}

func TestProcessMessage_SaveErrorLeavesMessagePending(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store)
	ctx := context.Background()

	boom := errors.New("setups table locked")
	store.saveErr = boom

	_, err := p.ProcessMessage(ctx, fridayRaw("m1"))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want save error", err)
	}

	if store.parsedCount() != 0 {
		t.Error("failed parse must not mark the message parsed")
	}
	channels := store.eventChannels()
	if len(channels) != 1 || channels[0] != string(models.ChannelIngestionMessage) {
		t.Fatalf("event channels = %v, want ingestion only", channels)
	}

	// The stored row stays in the backlog; a later sweep completes it.
	store.saveErr = nil
	sweeper := NewSweeper(p, config.PipelineConfig{})
	sweeper.sweep(ctx)

	if store.parsedCount() != 1 {
		t.Error("sweep did not heal the pending message")
	}
	if len(store.setups) != 1 {
		t.Errorf("setups = %d, want 1 after heal", len(store.setups))
	}
	channels = store.eventChannels()
	if channels[len(channels)-1] != string(models.ChannelParsingSetup) {
		t.Errorf("event channels = %v, want parsing:setup last", channels)
	}
}

func TestProcessMessage_EventAppendErrorKeepsPending(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store)

	// Let the ingestion event through, reject the parsing event.
	store.failAppendAfter = 1

	_, err := p.ProcessMessage(context.Background(), fridayRaw("m1"))
	if err == nil {
		t.Fatal("expected append error")
	}
	if store.parsedCount() != 0 {
		t.Error("message must stay pending when the terminal event failed")
	}
}
