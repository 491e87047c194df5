// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
)

// respondCached serves a response through the statistics cache. The
// compute function runs only on a miss; hits carry the Cached metadata
// flag so clients can tell a stale-tolerant answer from a fresh one.
func (h *Handler) respondCached(w http.ResponseWriter, cacheType, cacheKey string, compute func() (interface{}, error)) {
	start := time.Now()

	if h.cache != nil {
		if cached, found := h.cache.Get(cacheKey); found {
			metrics.CacheHits.WithLabelValues(cacheType).Inc()
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status: "success",
				Data:   cached,
				Metadata: models.Metadata{
					Timestamp:   time.Now(),
					QueryTimeMS: time.Since(start).Milliseconds(),
					Cached:      true,
				},
			})
			return
		}
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
	}

	data, err := compute()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to compute statistics", err)
		return
	}

	if h.cache != nil {
		h.cache.Set(cacheKey, data)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// cachedStats is respondCached under the "stats" cache label, shared by
// the statistics endpoints.
func (h *Handler) cachedStats(w http.ResponseWriter, cacheKey string, compute func() (interface{}, error)) {
	h.respondCached(w, "stats", cacheKey, compute)
}

// StatsParsing handles parsing statistics requests
//
// @Summary Get parsing statistics
// @Description Returns message counts by parse outcome and the parse success rate over a recent window. Responses are cached.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param window_hours query int false "Statistics window in hours (1-8760, default 168)"
// @Success 200 {object} models.APIResponse{data=models.ParsingStats} "Statistics retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /stats/parsing [get]
func (h *Handler) StatsParsing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := StatsRequest{WindowHours: getIntParam(r, "window_hours", h.defaultWindowHours())}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.cachedStats(w, fmt.Sprintf("stats:parsing:%d", req.WindowHours), func() (interface{}, error) {
		return h.health.ParsingStats(r.Context(), req.WindowHours)
	})
}

// StatsAudit handles audit statistics requests
//
// @Summary Get ingestion audit statistics
// @Description Returns anomaly flag counts (weekend, out-of-hours, backdated) and duplicate trading-day slots over a recent window. Responses are cached.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param window_hours query int false "Statistics window in hours (1-8760, default 168)"
// @Success 200 {object} models.APIResponse{data=models.AuditStats} "Statistics retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /stats/audit [get]
func (h *Handler) StatsAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := StatsRequest{WindowHours: getIntParam(r, "window_hours", h.defaultWindowHours())}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.cachedStats(w, fmt.Sprintf("stats:audit:%d", req.WindowHours), func() (interface{}, error) {
		return h.health.AuditStats(r.Context(), req.WindowHours)
	})
}

// StatsLatency handles ingestion latency statistics requests
//
// @Summary Get ingestion latency statistics
// @Description Returns median, p90 and maximum platform-to-storage lag in milliseconds over a recent window. Responses are cached.
// @Tags Statistics
// @Accept json
// @Produce json
// @Param window_hours query int false "Statistics window in hours (1-8760, default 168)"
// @Success 200 {object} models.APIResponse{data=models.LatencyStats} "Statistics retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /stats/latency [get]
func (h *Handler) StatsLatency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := StatsRequest{WindowHours: getIntParam(r, "window_hours", h.defaultWindowHours())}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.cachedStats(w, fmt.Sprintf("stats:latency:%d", req.WindowHours), func() (interface{}, error) {
		return h.health.LatencyStats(r.Context(), req.WindowHours)
	})
}

// StatsHealth handles pipeline health verdict requests
//
// @Summary Get the pipeline health verdict
// @Description Returns the categorical pipeline health (healthy, warning, critical) with the rates behind it. The window comes from configuration. Responses are cached.
// @Tags Statistics
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthScore} "Verdict retrieved"
// @Router /stats/health [get]
func (h *Handler) StatsHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	// Zero window means the aggregator substitutes the configured one.
	h.cachedStats(w, "stats:health", func() (interface{}, error) {
		return h.health.HealthScore(r.Context(), 0)
	})
}
