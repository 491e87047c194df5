// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/models"
	"github.com/tomtom215/tickerflow/internal/pipeline"
)

// rawMessageBody marshals a submission body for the messages endpoint.
func rawMessageBody(t *testing.T, raw models.RawMessage) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("Failed to marshal raw message: %v", err)
	}
	return bytes.NewReader(data)
}

// TestIngestMessage_Stored verifies a fresh message responds 201 with
// the ingest result.
func TestIngestMessage_Stored(t *testing.T) {
	t.Parallel()

	proc := &fakeProcessor{
		result: &pipeline.Result{
			Ingest: &models.IngestResult{
				Status:        models.IngestStatusStored,
				CorrelationID: "corr-abc",
			},
		},
	}
	h := &Handler{processor: proc}

	body := rawMessageBody(t, models.RawMessage{
		MessageID:         "msg-1",
		ChannelRef:        "swing-setups",
		AuthorID:          "trader-9",
		Content:           "AAPL breakout above 150",
		PlatformTimestamp: time.Now().UTC(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", body)
	w := httptest.NewRecorder()

	h.IngestMessage(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Response data is not a map")
	}
	if data["status"] != "stored" {
		t.Errorf("Expected ingest status 'stored', got %v", data["status"])
	}
	if data["correlation_id"] != "corr-abc" {
		t.Errorf("Expected correlation_id 'corr-abc', got %v", data["correlation_id"])
	}

	if proc.got == nil || proc.got.MessageID != "msg-1" {
		t.Error("Expected processor to receive the submitted message")
	}
}

// TestIngestMessage_Duplicate verifies a redelivery responds 200, not 201.
func TestIngestMessage_Duplicate(t *testing.T) {
	t.Parallel()

	proc := &fakeProcessor{
		result: &pipeline.Result{
			Ingest: &models.IngestResult{
				Status:        models.IngestStatusDuplicate,
				CorrelationID: "corr-original",
			},
		},
	}
	h := &Handler{processor: proc}

	body := rawMessageBody(t, models.RawMessage{
		MessageID:         "msg-1",
		Content:           "AAPL breakout above 150",
		PlatformTimestamp: time.Now().UTC(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", body)
	w := httptest.NewRecorder()

	h.IngestMessage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for duplicate, got %d", w.Code)
	}

	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Response data is not a map")
	}
	if data["status"] != "duplicate" {
		t.Errorf("Expected ingest status 'duplicate', got %v", data["status"])
	}
	if data["correlation_id"] != "corr-original" {
		t.Errorf("Expected the original flow's correlation id, got %v", data["correlation_id"])
	}
}

// TestIngestMessage_ValidationError verifies pipeline validation
// failures surface as 400 with the offending field.
func TestIngestMessage_ValidationError(t *testing.T) {
	t.Parallel()

	proc := &fakeProcessor{
		err: &models.ValidationError{Field: "content", Message: "required"},
	}
	h := &Handler{processor: proc}

	body := rawMessageBody(t, models.RawMessage{
		MessageID:         "msg-1",
		PlatformTimestamp: time.Now().UTC(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", body)
	w := httptest.NewRecorder()

	h.IngestMessage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Error == nil {
		t.Fatal("Expected error in response")
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "content" {
		t.Errorf("Expected details to name the content field, got %v", resp.Error.Details)
	}
}

// TestIngestMessage_MalformedBody verifies invalid JSON responds 400.
func TestIngestMessage_MalformedBody(t *testing.T) {
	t.Parallel()

	h := &Handler{processor: &fakeProcessor{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.IngestMessage(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != "INVALID_REQUEST" {
		t.Errorf("Expected INVALID_REQUEST error, got %+v", resp.Error)
	}
}

// TestIngestMessage_PipelineError verifies storage failures respond 500.
func TestIngestMessage_PipelineError(t *testing.T) {
	t.Parallel()

	proc := &fakeProcessor{err: errors.New("database locked")}
	h := &Handler{processor: proc}

	body := rawMessageBody(t, models.RawMessage{
		MessageID:         "msg-1",
		Content:           "AAPL breakout above 150",
		PlatformTimestamp: time.Now().UTC(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", body)
	w := httptest.NewRecorder()

	h.IngestMessage(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	resp := decodeResponse(t, w)
	if resp.Error == nil || resp.Error.Code != "STORAGE_ERROR" {
		t.Errorf("Expected STORAGE_ERROR, got %+v", resp.Error)
	}
}

// TestIngestMessage_MethodNotAllowed tests IngestMessage with invalid HTTP methods
func TestIngestMessage_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := &Handler{processor: &fakeProcessor{}}

	methods := []string{http.MethodGet, http.MethodPut, http.MethodDelete}
	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/v1/messages", nil)
			w := httptest.NewRecorder()

			h.IngestMessage(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405 for %s, got %d", method, w.Code)
			}
		})
	}
}

// TestIngestMessage_NoProcessor verifies 503 when the pipeline is not wired.
func TestIngestMessage_NoProcessor(t *testing.T) {
	t.Parallel()

	h := &Handler{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader("{}"))
	w := httptest.NewRecorder()

	h.IngestMessage(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
}
