// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/models"
)

// IngestMessage handles message submission from platform connectors
//
// @Summary Submit a chat message for ingestion and parsing
// @Description Stores the message (deduplicated by message ID), stamps audit flags, and runs setup extraction inline. Redelivering an already stored message is a no-op that returns the original flow's correlation ID with a duplicate status.
// @Tags Messages
// @Accept json
// @Produce json
// @Param message body models.RawMessage true "Raw chat message"
// @Success 201 {object} models.APIResponse{data=models.IngestResult} "Message stored and parsed"
// @Success 200 {object} models.APIResponse{data=models.IngestResult} "Duplicate of an already stored message"
// @Failure 400 {object} models.APIResponse "Malformed body or validation failure"
// @Failure 500 {object} models.APIResponse "Pipeline failure"
// @Router /messages [post]
func (h *Handler) IngestMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if h.processor == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Ingestion pipeline is not running", nil)
		return
	}

	start := time.Now()

	var raw models.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}

	result, err := h.processor.ProcessMessage(r.Context(), &raw)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			respondAPIError(w, http.StatusBadRequest, &models.APIError{
				Code:    "VALIDATION_ERROR",
				Message: vErr.Error(),
				Details: map[string]interface{}{"field": vErr.Field},
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to process message", err)
		return
	}

	// A duplicate is a confirmation, not a creation.
	status := http.StatusCreated
	if result.Ingest.Status == models.IngestStatusDuplicate {
		status = http.StatusOK
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   result.Ingest,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
