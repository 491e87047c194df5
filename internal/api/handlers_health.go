// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tickerflow/internal/cache"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/middleware"
	"github.com/tomtom215/tickerflow/internal/models"
)

// Health handles health check requests
//
// @Summary Get service health status
// @Description Returns process-level health including storage connectivity, uptime, live WebSocket connections and the parse backlog. Pipeline-quality health lives under /stats/health.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ServiceHealth} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	// Check storage connectivity (nil means not connected)
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	var pending int64
	if dbConnected {
		var err error
		pending, err = h.store.CountPendingMessages(r.Context())
		if err != nil {
			logging.Debug().Err(err).Msg("Failed to count pending messages for health report")
			pending = 0
		}
	}

	wsClients := 0
	if h.wsHub != nil {
		wsClients = h.wsHub.GetClientCount()
	}

	health := models.ServiceHealth{
		Status:            status,
		Version:           version,
		DatabaseConnected: dbConnected,
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
		WebsocketClients:  wsClients,
		PendingMessages:   pending,
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the service is ready to handle traffic (storage is reachable). Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	ready := dbConnected

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"database_connected": dbConnected,
			"ready_to_serve":     ready,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthPerformance handles request performance reports
//
// @Summary Get API performance statistics
// @Description Returns per-endpoint request counts and latency percentiles plus response cache statistics.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Performance statistics retrieved"
// @Router /health/performance [get]
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"endpoints": h.GetPerformanceStats(),
			"cache":     h.GetCacheStats(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// GetCacheStats returns response cache statistics
func (h *Handler) GetCacheStats() cache.Stats {
	if h.cache != nil {
		return h.cache.GetStats()
	}
	return cache.Stats{}
}

// GetPerformanceStats returns performance monitoring statistics
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon != nil {
		return h.perfMon.GetStats()
	}
	return nil
}
