// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tickerflow/internal/cache"
	"github.com/tomtom215/tickerflow/internal/models"
)

// traceRequest builds a request with the correlation ID routed the way
// chi delivers it.
func traceRequest(correlationID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/"+correlationID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("correlationID", correlationID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// TestFlowsRecent verifies the rollup passes window and limit through
// and caches the result.
func TestFlowsRecent(t *testing.T) {
	t.Parallel()

	tracer := &fakeTracer{
		flows: []models.FlowSummary{
			{CorrelationID: "corr-1", EventCount: 3, Complete: true},
		},
	}
	h := &Handler{tracer: tracer, cache: cache.New(time.Minute)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/recent?window_hours=6&limit=10", nil)

	w1 := httptest.NewRecorder()
	h.FlowsRecent(w1, req)
	if w1.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w1.Code, w1.Body.String())
	}
	if tracer.gotWindow != 6 || tracer.gotLimit != 10 {
		t.Errorf("Expected window 6 limit 10, got %d/%d", tracer.gotWindow, tracer.gotLimit)
	}

	resp := decodeResponse(t, w1)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Response data is not a map")
	}
	flows, ok := data["flows"].([]interface{})
	if !ok || len(flows) != 1 {
		t.Errorf("Expected 1 flow, got %v", data["flows"])
	}
	if data["window_hours"] != float64(6) {
		t.Errorf("Expected window_hours 6, got %v", data["window_hours"])
	}

	w2 := httptest.NewRecorder()
	h.FlowsRecent(w2, req)
	second := decodeResponse(t, w2)
	if !second.Metadata.Cached {
		t.Error("Expected second response to be served from cache")
	}
	if tracer.calls != 1 {
		t.Errorf("Expected 1 tracer call, got %d", tracer.calls)
	}
}

// TestFlowsRecent_EmptyWindow verifies a quiet window yields an empty
// array, not null.
func TestFlowsRecent_EmptyWindow(t *testing.T) {
	t.Parallel()

	h := &Handler{tracer: &fakeTracer{}, cache: cache.New(time.Minute)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/recent", nil)
	w := httptest.NewRecorder()

	h.FlowsRecent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"flows":[]`) {
		t.Errorf("Expected empty flows array, got %s", w.Body.String())
	}
}

// TestFlowsRecent_TracerError verifies rollup failures respond 500.
func TestFlowsRecent_TracerError(t *testing.T) {
	t.Parallel()

	h := &Handler{
		tracer: &fakeTracer{flowsErr: errors.New("query timeout")},
		cache:  cache.New(time.Minute),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/recent", nil)
	w := httptest.NewRecorder()

	h.FlowsRecent(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
}

// TestFlowTrace verifies the timeline for a known correlation ID.
func TestFlowTrace(t *testing.T) {
	t.Parallel()

	tracer := &fakeTracer{
		trace: &models.TraceResult{
			CorrelationID: "corr-9",
			Complete:      true,
			EventCount:    2,
			Events: []models.Event{
				{ID: 1, Channel: models.ChannelIngestionMessage},
				{ID: 2, Channel: models.ChannelParsingSetup},
			},
		},
	}
	h := &Handler{tracer: tracer}

	w := httptest.NewRecorder()
	h.FlowTrace(w, traceRequest("corr-9"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if tracer.gotID != "corr-9" {
		t.Errorf("Expected tracer to receive 'corr-9', got %s", tracer.gotID)
	}

	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Response data is not a map")
	}
	if data["complete"] != true {
		t.Errorf("Expected complete flow, got %v", data["complete"])
	}
	if data["event_count"] != float64(2) {
		t.Errorf("Expected event_count 2, got %v", data["event_count"])
	}
}

// TestFlowTrace_UnseenID verifies an unknown correlation ID returns an
// empty timeline with 200, never 404.
func TestFlowTrace_UnseenID(t *testing.T) {
	t.Parallel()

	h := &Handler{tracer: &fakeTracer{}}

	w := httptest.NewRecorder()
	h.FlowTrace(w, traceRequest("never-seen"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for unseen id, got %d", w.Code)
	}

	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Response data is not a map")
	}
	if data["correlation_id"] != "never-seen" {
		t.Errorf("Expected the queried id echoed back, got %v", data["correlation_id"])
	}
	events, ok := data["events"].([]interface{})
	if !ok || len(events) != 0 {
		t.Errorf("Expected empty timeline, got %v", data["events"])
	}
}

// TestFlowTrace_Validation tests correlation ID bounds
func TestFlowTrace_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
	}{
		{name: "empty id", id: ""},
		{name: "oversized id", id: strings.Repeat("x", 129)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{tracer: &fakeTracer{}}

			w := httptest.NewRecorder()
			h.FlowTrace(w, traceRequest(tt.id))

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			resp := decodeResponse(t, w)
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Expected VALIDATION_ERROR, got %+v", resp.Error)
			}
		})
	}
}

// TestFlowTrace_StorageError verifies trace failures respond 500.
func TestFlowTrace_StorageError(t *testing.T) {
	t.Parallel()

	h := &Handler{tracer: &fakeTracer{traceErr: errors.New("connection lost")}}

	w := httptest.NewRecorder()
	h.FlowTrace(w, traceRequest("corr-1"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != "STORAGE_ERROR" {
		t.Errorf("Expected STORAGE_ERROR, got %+v", resp.Error)
	}
}
