// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/metrics"
	"github.com/tomtom215/tickerflow/internal/models"
	ws "github.com/tomtom215/tickerflow/internal/websocket"
)

// AppendEvent handles event submission from external components
//
// @Summary Append an event to the correlation log
// @Description Persists one immutable event and redistributes it to live subscribers. The store assigns the ID and timestamp; the data payload must be a JSON object carrying a schema_version field.
// @Tags Events
// @Accept json
// @Produce json
// @Param event body AppendEventRequest true "Event to append"
// @Success 201 {object} models.APIResponse{data=models.Event} "Event appended"
// @Failure 400 {object} models.APIResponse "Malformed body or validation failure"
// @Failure 500 {object} models.APIResponse "Append failed"
// @Router /events [post]
func (h *Handler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	start := time.Now()

	var req AppendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if vErr := models.ValidateEventData(req.Data); vErr != nil {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: vErr.Error(),
			Details: map[string]interface{}{"field": vErr.Field},
		})
		return
	}

	event := &models.Event{
		Channel:       models.Channel(req.Channel),
		EventType:     models.EventType(req.EventType),
		Source:        req.Source,
		CorrelationID: req.CorrelationID,
		Data:          req.Data,
	}

	err := h.events.AppendEvent(r.Context(), event)
	metrics.RecordEventAppend(req.Channel, req.EventType, err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to append event", err)
		return
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data:   event,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Events handles event log queries
//
// @Summary Query the event log
// @Description Returns events filtered by channel, type, source, correlation ID and time range, newest first, with the unpaged total for pagination.
// @Tags Events
// @Accept json
// @Produce json
// @Param channel query string false "Filter by channel"
// @Param event_type query string false "Filter by event type"
// @Param source query string false "Filter by emitting component"
// @Param correlation_id query string false "Filter by correlation ID"
// @Param since query string false "Events at or after this instant (RFC3339)"
// @Param until query string false "Events before this instant (RFC3339)"
// @Param limit query int false "Results per page (1-1000)"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} models.APIResponse{data=models.EventsResponse} "Events retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /events [get]
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	start := time.Now()
	q := r.URL.Query()

	req := EventsRequest{
		Channel:       q.Get("channel"),
		EventType:     q.Get("event_type"),
		Source:        q.Get("source"),
		CorrelationID: q.Get("correlation_id"),
		Since:         q.Get("since"),
		Until:         q.Get("until"),
		Limit:         getIntParam(r, "limit", h.defaultPageSize()),
		Offset:        getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := database.EventFilter{
		Channel:       models.Channel(req.Channel),
		EventType:     models.EventType(req.EventType),
		Source:        req.Source,
		CorrelationID: req.CorrelationID,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}
	// The datetime validation tag already guaranteed the layout.
	if req.Since != "" {
		t, _ := time.Parse(time.RFC3339, req.Since)
		filter.Since = &t
	}
	if req.Until != "" {
		t, _ := time.Parse(time.RFC3339, req.Until)
		filter.Until = &t
	}

	events, err := h.store.QueryEvents(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to query events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	total, err := h.store.CountEvents(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to count events", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.EventsResponse{
			Events: events,
			Total:  total,
			Limit:  req.Limit,
			Offset: req.Offset,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// EventStatistics handles event store statistics requests
//
// @Summary Get event store statistics
// @Description Returns per-channel and per-type counts, the error-event rate and the distinct correlation count over a recent window. Responses are cached.
// @Tags Events
// @Accept json
// @Produce json
// @Param window_hours query int false "Statistics window in hours (1-8760, default 168)"
// @Success 200 {object} models.APIResponse{data=models.EventStatistics} "Statistics retrieved"
// @Failure 400 {object} models.APIResponse "Validation failed"
// @Router /events/statistics [get]
func (h *Handler) EventStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := StatsRequest{WindowHours: getIntParam(r, "window_hours", h.defaultWindowHours())}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.cachedStats(w, fmt.Sprintf("stats:events:%d", req.WindowHours), func() (interface{}, error) {
		return h.store.GetEventStatistics(r.Context(), req.WindowHours)
	})
}

// EventsLive handles WebSocket subscriptions to the live event feed
//
// @Summary Subscribe to the live event feed
// @Description Upgrades the connection to WebSocket and streams events as they are appended. An optional channels parameter narrows the feed to a comma-separated channel list.
// @Tags Events
// @Param channels query string false "Comma-separated channel filter"
// @Success 101 "Switching protocols"
// @Failure 400 {object} models.APIResponse "Unknown channel in filter"
// @Failure 503 {object} models.APIResponse "Live feed not running"
// @Router /events/live [get]
func (h *Handler) EventsLive(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Live event feed is not running", nil)
		return
	}

	// Validate the filter before the upgrade: afterwards there is no
	// HTTP status to reject with.
	var channels []models.Channel
	for _, raw := range parseCommaSeparated(r.URL.Query().Get("channels")) {
		ch := models.Channel(raw)
		if !ch.Valid() {
			respondAPIError(w, http.StatusBadRequest, &models.APIError{
				Code:    "VALIDATION_ERROR",
				Message: fmt.Sprintf("unknown channel %q", raw),
				Details: map[string]interface{}{"field": "channels"},
			})
			return
		}
		channels = append(channels, ch)
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := ws.NewClient(h.wsHub, conn, channels...)
	h.wsHub.Register <- client
	client.Start()
}
