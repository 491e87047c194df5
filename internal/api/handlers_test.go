// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/cache"
	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/models"
	"github.com/tomtom215/tickerflow/internal/pipeline"
)

// fakeStore implements Store for handler tests and records the filters
// it was queried with.
type fakeStore struct {
	events      []models.Event
	eventsErr   error
	eventsTotal int64
	countErr    error
	stats       *models.EventStatistics
	statsErr    error
	statsCalls  int
	setups      []models.ParsedSetup
	setupsErr   error
	setupsTotal int64
	pending     int64
	pendingErr  error
	pingErr     error

	gotEventFilter database.EventFilter
	gotSetupFilter database.SetupFilter
}

func (s *fakeStore) QueryEvents(_ context.Context, f database.EventFilter) ([]models.Event, error) {
	s.gotEventFilter = f
	return s.events, s.eventsErr
}

func (s *fakeStore) CountEvents(_ context.Context, f database.EventFilter) (int64, error) {
	return s.eventsTotal, s.countErr
}

func (s *fakeStore) GetEventStatistics(_ context.Context, windowHours int) (*models.EventStatistics, error) {
	s.statsCalls++
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	if s.stats != nil {
		return s.stats, nil
	}
	return &models.EventStatistics{WindowHours: windowHours}, nil
}

func (s *fakeStore) ListSetups(_ context.Context, f database.SetupFilter) ([]models.ParsedSetup, error) {
	s.gotSetupFilter = f
	return s.setups, s.setupsErr
}

func (s *fakeStore) CountSetups(_ context.Context, f database.SetupFilter) (int64, error) {
	return s.setupsTotal, nil
}

func (s *fakeStore) CountPendingMessages(_ context.Context) (int64, error) {
	return s.pending, s.pendingErr
}

func (s *fakeStore) Ping(_ context.Context) error {
	return s.pingErr
}

// fakeProcessor implements MessageProcessor.
type fakeProcessor struct {
	result *pipeline.Result
	err    error
	got    *models.RawMessage
}

func (p *fakeProcessor) ProcessMessage(_ context.Context, raw *models.RawMessage) (*pipeline.Result, error) {
	p.got = raw
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

// fakeTracer implements FlowTracer.
type fakeTracer struct {
	trace     *models.TraceResult
	traceErr  error
	flows     []models.FlowSummary
	flowsErr  error
	gotID     string
	gotWindow int
	gotLimit  int
	calls     int
}

func (f *fakeTracer) Trace(_ context.Context, correlationID string) (*models.TraceResult, error) {
	f.gotID = correlationID
	if f.traceErr != nil {
		return nil, f.traceErr
	}
	if f.trace != nil {
		return f.trace, nil
	}
	return &models.TraceResult{CorrelationID: correlationID, Events: []models.Event{}}, nil
}

func (f *fakeTracer) RecentFlows(_ context.Context, windowHours, limit int) ([]models.FlowSummary, error) {
	f.calls++
	f.gotWindow = windowHours
	f.gotLimit = limit
	return f.flows, f.flowsErr
}

// fakeHealthReader implements HealthReader.
type fakeHealthReader struct {
	score        *models.HealthScore
	parsing      *models.ParsingStats
	audit        *models.AuditStats
	latency      *models.LatencyStats
	err          error
	parsingCalls int
}

func (f *fakeHealthReader) HealthScore(_ context.Context, _ int) (*models.HealthScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.score != nil {
		return f.score, nil
	}
	return &models.HealthScore{Status: models.HealthStatusHealthy}, nil
}

func (f *fakeHealthReader) ParsingStats(_ context.Context, windowHours int) (*models.ParsingStats, error) {
	f.parsingCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.parsing != nil {
		return f.parsing, nil
	}
	return &models.ParsingStats{WindowHours: windowHours}, nil
}

func (f *fakeHealthReader) AuditStats(_ context.Context, windowHours int) (*models.AuditStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.audit != nil {
		return f.audit, nil
	}
	return &models.AuditStats{WindowHours: windowHours, DuplicateTradingDays: []models.DuplicateTradingDay{}}, nil
}

func (f *fakeHealthReader) LatencyStats(_ context.Context, windowHours int) (*models.LatencyStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.latency != nil {
		return f.latency, nil
	}
	return &models.LatencyStats{WindowHours: windowHours}, nil
}

// fakeRecorder implements EventRecorder, stamping IDs like the store.
type fakeRecorder struct {
	events []*models.Event
	err    error
}

func (r *fakeRecorder) AppendEvent(_ context.Context, event *models.Event) error {
	if r.err != nil {
		return r.err
	}
	event.ID = int64(len(r.events) + 1)
	event.CreatedAt = time.Now().UTC()
	r.events = append(r.events, event)
	return nil
}

// decodeResponse decodes the standard envelope from a recorder.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

// TestNewHandler verifies the constructor wires the cache and the
// performance monitor.
func TestNewHandler(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		API: config.APIConfig{CacheTTL: time.Minute, DefaultPageSize: 50},
	}
	h := NewHandler(&fakeStore{}, &fakeProcessor{}, &fakeTracer{}, &fakeHealthReader{}, &fakeRecorder{}, cfg, nil)

	if h.cache == nil {
		t.Error("Expected cache to be initialized")
	}
	if h.perfMon == nil {
		t.Error("Expected performance monitor to be initialized")
	}
	if h.PerfMiddleware() == nil {
		t.Error("Expected performance middleware to be available")
	}
	if h.defaultPageSize() != 50 {
		t.Errorf("Expected default page size 50, got %d", h.defaultPageSize())
	}
}

// TestDefaultPageSize_Fallback verifies the fallback when the config is
// missing or zero.
func TestDefaultPageSize_Fallback(t *testing.T) {
	t.Parallel()

	h := &Handler{}
	if h.defaultPageSize() != 100 {
		t.Errorf("Expected fallback page size 100, got %d", h.defaultPageSize())
	}
	if h.defaultWindowHours() != 168 {
		t.Errorf("Expected fallback window 168, got %d", h.defaultWindowHours())
	}
}

// TestClearCache verifies cached entries are dropped.
func TestClearCache(t *testing.T) {
	t.Parallel()

	h := &Handler{cache: cache.New(time.Minute)}
	h.cache.Set("stats:parsing:168", &models.ParsingStats{WindowHours: 168})

	h.ClearCache()

	if _, found := h.cache.Get("stats:parsing:168"); found {
		t.Error("Expected cache to be empty after ClearCache")
	}
}

// TestCheckWebSocketOrigin covers the origin policy: browsers must
// present an allowed origin, missing origins are rejected, and a
// handler without config fails open for tests.
func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origins []string
		noCfg   bool
		origin  string
		want    bool
	}{
		{name: "missing origin rejected", origins: []string{"*"}, origin: "", want: false},
		{name: "nil config allows any origin", noCfg: true, origin: "https://anywhere.example.com", want: true},
		{name: "wildcard allows any origin", origins: []string{"*"}, origin: "https://dash.example.com", want: true},
		{name: "exact match allowed", origins: []string{"https://ops.example.com"}, origin: "https://ops.example.com", want: true},
		{name: "mismatch rejected", origins: []string{"https://ops.example.com"}, origin: "https://evil.example.com", want: false},
		{name: "empty allowlist rejects", origins: []string{}, origin: "https://ops.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{}
			if !tt.noCfg {
				h.config = &config.Config{API: config.APIConfig{CORSOrigins: tt.origins}}
			}

			r := httptest.NewRequest(http.MethodGet, "/api/v1/events/live", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			if got := h.checkWebSocketOrigin(r); got != tt.want {
				t.Errorf("checkWebSocketOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}
