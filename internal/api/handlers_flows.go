// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tickerflow/internal/models"
)

// FlowsRecent handles recent flow listing requests
//
// @Summary List recent correlation flows
// @Description Returns per-correlation rollups with activity in the window, most recent activity first. Responses are cached.
// @Tags Flows
// @Accept json
// @Produce json
// @Param window_hours query int false "Flow window in hours (1-8760, default 168)"
// @Param limit query int false "Maximum flows to return (1-1000, default 100)"
// @Success 200 {object} models.APIResponse{data=models.FlowsResponse} "Flows retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /flows/recent [get]
func (h *Handler) FlowsRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := FlowsRecentRequest{
		WindowHours: getIntParam(r, "window_hours", h.defaultWindowHours()),
		Limit:       getIntParam(r, "limit", 100),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	cacheKey := fmt.Sprintf("flows:recent:%d:%d", req.WindowHours, req.Limit)
	h.respondCached(w, "flows", cacheKey, func() (interface{}, error) {
		flows, err := h.tracer.RecentFlows(r.Context(), req.WindowHours, req.Limit)
		if err != nil {
			return nil, err
		}
		if flows == nil {
			flows = []models.FlowSummary{}
		}
		return models.FlowsResponse{
			Flows:       flows,
			WindowHours: req.WindowHours,
		}, nil
	})
}

// FlowTrace handles flow reconstruction requests
//
// @Summary Trace one correlation flow
// @Description Returns the ordered timeline of events sharing the correlation ID plus a completeness verdict. An unseen ID yields an empty timeline, not an error.
// @Tags Flows
// @Accept json
// @Produce json
// @Param correlationID path string true "Correlation ID"
// @Success 200 {object} models.APIResponse{data=models.TraceResult} "Timeline retrieved"
// @Failure 400 {object} models.APIResponse "Missing or oversized correlation ID"
// @Router /flows/{correlationID} [get]
func (h *Handler) FlowTrace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	start := time.Now()

	correlationID := chi.URLParam(r, "correlationID")
	if correlationID == "" {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "CorrelationID is required",
			Details: map[string]interface{}{"field": "correlation_id"},
		})
		return
	}
	if len(correlationID) > 128 {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "CorrelationID must be at most 128 characters",
			Details: map[string]interface{}{"field": "correlation_id"},
		})
		return
	}

	result, err := h.tracer.Trace(r.Context(), correlationID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to trace flow", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
