// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router assembles the HTTP surface: handlers plus the middleware
// stacks each route group carries.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	enableSwagger bool
}

// NewRouter creates a router over the given handler. CORS origins and
// rate limits come from the API configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	enableSwagger := false
	if cfg != nil {
		enableSwagger = cfg.API.EnableSwagger
	}

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromConfig(cfg),
		enableSwagger: enableSwagger,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(DebugRequestLogging())       // Diagnostic logging (enabled via TICKERFLOW_DEBUG_HTTP=true)
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealthChecks())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/performance", router.handler.HealthPerformance)
	})

	// ========================
	// Message Submission
	// ========================
	r.Route("/api/v1/messages", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWrites())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Post("/", router.handler.IngestMessage)
	})

	// ========================
	// Event Log
	// ========================
	r.Route("/api/v1/events", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrites())
			r.Post("/", router.handler.AppendEvent)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiMiddleware(middleware.Compression))
			r.Use(router.handler.PerfMiddleware())
			r.Get("/", router.handler.Events)
			r.Get("/statistics", router.handler.EventStatistics)
		})

		// The live feed keeps the raw connection: no compression wrapper
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitLiveFeed())
			r.Get("/live", router.handler.EventsLive)
		})
	})

	// ========================
	// Correlation Flows
	// ========================
	r.Route("/api/v1/flows", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitStatistics())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.handler.PerfMiddleware())
		r.Get("/recent", router.handler.FlowsRecent)
		r.Get("/{correlationID}", router.handler.FlowTrace)
	})

	// ========================
	// Parsed Setups
	// ========================
	r.Route("/api/v1/setups", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.handler.PerfMiddleware())
		r.Get("/", router.handler.Setups)
	})

	// ========================
	// Pipeline Statistics
	// ========================
	r.Route("/api/v1/stats", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitStatistics())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.handler.PerfMiddleware())
		r.Get("/parsing", router.handler.StatsParsing)
		r.Get("/audit", router.handler.StatsAudit)
		r.Get("/latency", router.handler.StatsLatency)
		r.Get("/health", router.handler.StatsHealth)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	if router.enableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("list"),
			httpSwagger.DomID("swagger-ui"),
		))
	}

	// Everything is JSON, including the misses
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
