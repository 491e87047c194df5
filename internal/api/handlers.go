// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/tickerflow/internal/cache"
	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/database"
	"github.com/tomtom215/tickerflow/internal/logging"
	"github.com/tomtom215/tickerflow/internal/middleware"
	"github.com/tomtom215/tickerflow/internal/models"
	"github.com/tomtom215/tickerflow/internal/pipeline"
	ws "github.com/tomtom215/tickerflow/internal/websocket"
)

// version reported by the health endpoint.
const version = "1.0.0"

// Store is the slice of the database the read endpoints use.
// *database.DB satisfies it.
type Store interface {
	QueryEvents(ctx context.Context, filter database.EventFilter) ([]models.Event, error)
	CountEvents(ctx context.Context, filter database.EventFilter) (int64, error)
	GetEventStatistics(ctx context.Context, windowHours int) (*models.EventStatistics, error)
	ListSetups(ctx context.Context, filter database.SetupFilter) ([]models.ParsedSetup, error)
	CountSetups(ctx context.Context, filter database.SetupFilter) (int64, error)
	CountPendingMessages(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// MessageProcessor runs the ingestion and parsing stages for one
// message. *pipeline.Pipeline satisfies it.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, raw *models.RawMessage) (*pipeline.Result, error)
}

// FlowTracer resolves correlation flows. *trace.Tracer satisfies it.
type FlowTracer interface {
	Trace(ctx context.Context, correlationID string) (*models.TraceResult, error)
	RecentFlows(ctx context.Context, windowHours, limit int) ([]models.FlowSummary, error)
}

// HealthReader produces pipeline statistics and the health verdict.
// *health.Aggregator satisfies it.
type HealthReader interface {
	HealthScore(ctx context.Context, windowHours int) (*models.HealthScore, error)
	ParsingStats(ctx context.Context, windowHours int) (*models.ParsingStats, error)
	AuditStats(ctx context.Context, windowHours int) (*models.AuditStats, error)
	LatencyStats(ctx context.Context, windowHours int) (*models.LatencyStats, error)
}

// EventRecorder appends lifecycle events. In production this is the
// bus recorder (persist first, publish best-effort) so API-appended
// events reach live subscribers too.
type EventRecorder interface {
	AppendEvent(ctx context.Context, event *models.Event) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket origin checks
//   - helpers.go: shared response and parameter helpers
//   - handlers_messages.go: message submission
//   - handlers_events.go: event append, listing, statistics, live feed
//   - handlers_flows.go: correlation flow endpoints
//   - handlers_setups.go: parsed setup listing
//   - handlers_stats.go: cached statistics endpoints
//   - handlers_health.go: service health and probes
type Handler struct {
	store     Store
	processor MessageProcessor
	tracer    FlowTracer
	health    HealthReader
	events    EventRecorder
	config    *config.Config
	wsHub     *ws.Hub
	startTime time.Time
	cache     cache.Cacher
	perfMon   *middleware.PerformanceMonitor
}

// NewHandler creates an API handler.
//
// The statistics cache and the performance monitor are created here:
// the cache from the API configuration (TTL or LFU strategy), the
// monitor with a 1000-request window.
func NewHandler(store Store, processor MessageProcessor, tracer FlowTracer, healthReader HealthReader, events EventRecorder, cfg *config.Config, wsHub *ws.Hub) *Handler {
	var apiCfg config.APIConfig
	if cfg != nil {
		apiCfg = cfg.API
	}

	return &Handler{
		store:     store,
		processor: processor,
		tracer:    tracer,
		health:    healthReader,
		events:    events,
		config:    cfg,
		wsHub:     wsHub,
		startTime: time.Now(),
		cache:     cache.NewFromConfig(apiCfg),
		perfMon:   middleware.NewPerformanceMonitor(1000),
	}
}

// ClearCache invalidates all cached statistics responses.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
		logging.Info().Msg("Statistics cache cleared")
	}
}

// defaultPageSize returns the configured page size for list endpoints.
func (h *Handler) defaultPageSize() int {
	if h.config != nil && h.config.API.DefaultPageSize > 0 {
		return h.config.API.DefaultPageSize
	}
	return 100
}

// defaultWindowHours returns the configured statistics window.
func (h *Handler) defaultWindowHours() int {
	if h.config != nil && h.config.Health.WindowHours > 0 {
		return h.config.Health.WindowHours
	}
	return 168
}

// PerfMiddleware exposes the performance monitor's middleware for the
// router to mount.
func (h *Handler) PerfMiddleware() func(http.Handler) http.Handler {
	return h.perfMon.Middleware
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket connects. An empty one
	// means a non-browser client that never passed CORS; reject it.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// No config means tests or development; fail open.
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.API.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
