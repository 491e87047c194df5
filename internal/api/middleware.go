// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package api

import (
	"net/http"
	"os"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/tickerflow/internal/config"
	"github.com/tomtom215/tickerflow/internal/logging"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// Rate limiting configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc
	RateLimitOnLimit  http.HandlerFunc
}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
// This prevents accidental deployment with insecure wildcard CORS.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:   []string{}, // Empty by default - requires explicit configuration
		CORSAllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders:   []string{},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400, // 24 hours

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: false,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
// This uses production-hardened implementations from the Chi ecosystem.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	// Build CORS handler using go-chi/cors
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		ExposedHeaders:   config.CORSExposedHeaders,
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// NewChiMiddlewareFromConfig creates a ChiMiddleware instance from the
// loaded application configuration.
func NewChiMiddlewareFromConfig(cfg *config.Config) *ChiMiddleware {
	if cfg == nil {
		return NewChiMiddleware(nil)
	}

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.API.CORSOrigins
	if cfg.API.RateLimitReqs > 0 {
		mwCfg.RateLimitRequests = cfg.API.RateLimitReqs
	}
	if cfg.API.RateLimitWindow > 0 {
		mwCfg.RateLimitWindow = cfg.API.RateLimitWindow
	}
	mwCfg.RateLimitDisabled = cfg.API.RateLimitDisabled

	return NewChiMiddleware(mwCfg)
}

// CORS returns a Chi-compatible CORS middleware using go-chi/cors.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns a Chi-compatible rate limiting middleware using go-chi/httprate.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		// Return a no-op middleware when rate limiting is disabled
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	// Use IP-based rate limiting by default, or custom key function if provided
	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	opts := []httprate.Option{
		httprate.WithKeyFuncs(keyFunc),
	}

	if m.config.RateLimitOnLimit != nil {
		opts = append(opts, httprate.WithLimitHandler(m.config.RateLimitOnLimit))
	}

	return httprate.Limit(
		m.config.RateLimitRequests,
		m.config.RateLimitWindow,
		opts...,
	)
}

// RequestIDWithLogging returns a middleware that adds a request ID to the
// context and integrates with the logging package for request tracing.
// This wraps chi's RequestID middleware and adds request_id to the
// logging context.
//
// Request IDs identify one HTTP exchange. Correlation IDs identify one
// message flow; they are minted at ingestion and travel with the flow,
// so none is created here.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		// First apply chi's RequestID middleware
		chiRequestID := chimiddleware.RequestID(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get the request ID that chi will set (from header or generated)
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				// chi will generate one, but we need it for logging context
				// so we generate our own that chi will then use
				requestID = logging.GenerateRequestID()
				r.Header.Set("X-Request-ID", requestID)
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)

			// Pass through to chi's RequestID middleware with enriched context
			chiRequestID.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ================================================================================
// Endpoint-Specific Rate Limits
// ================================================================================

// RateLimitConfig defines rate limit parameters for specific endpoints.
type RateLimitConfig struct {
	// Requests is the number of requests allowed in the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
}

// Endpoint-specific rate limit configurations
// These are tuned for production workloads based on endpoint characteristics
var (
	// RateLimitWrite is moderate limiting for message and event submission.
	// Connectors batch their traffic; a flood past this points at a
	// misbehaving client, not a busy chat.
	RateLimitWrite = RateLimitConfig{Requests: 30, Window: time.Minute}

	// RateLimitStats is permissive for read-heavy cached statistics.
	// Dashboards poll several panels at once; 1000/min keeps refresh
	// loops from tripping limits.
	RateLimitStats = RateLimitConfig{Requests: 1000, Window: time.Minute}

	// RateLimitWebSocket limits the upgrade rate for the live feed.
	RateLimitWebSocket = RateLimitConfig{Requests: 30, Window: time.Minute}

	// RateLimitAPI is the default API rate limit
	RateLimitAPI = RateLimitConfig{Requests: 100, Window: time.Minute}

	// RateLimitHealth is permissive rate limiting for health endpoints.
	// Prevents abuse while allowing frequent checks from monitoring tools.
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}
)

// RateLimitCustom returns a rate limiter with custom configuration.
func (m *ChiMiddleware) RateLimitCustom(config RateLimitConfig) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.LimitByIP(config.Requests, config.Window)
}

// RateLimitWrites returns a rate limiter for message and event submission.
// Protects the store from write floods.
func (m *ChiMiddleware) RateLimitWrites() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitWrite)
}

// RateLimitStatistics returns a rate limiter for statistics endpoints.
// More permissive since these are read-heavy cached operations.
func (m *ChiMiddleware) RateLimitStatistics() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitStats)
}

// RateLimitLiveFeed returns a rate limiter for WebSocket upgrades.
func (m *ChiMiddleware) RateLimitLiveFeed() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitWebSocket)
}

// RateLimitHealthChecks returns a rate limiter for health endpoints.
func (m *ChiMiddleware) RateLimitHealthChecks() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitHealth)
}

// ================================================================================
// API Security Headers
// ================================================================================

// APISecurityHeaders returns a middleware that adds security headers to API responses.
//
// Headers added:
//   - X-Content-Type-Options: nosniff (prevents MIME type sniffing)
//   - X-Frame-Options: DENY (prevents clickjacking)
//   - Referrer-Policy: strict-origin-when-cross-origin (limits referrer information)
//
// Content-Security-Policy is not added to API endpoints as it's designed for HTML.
// HSTS is added conditionally when the request is over HTTPS.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent embedding in frames (clickjacking protection)
			w.Header().Set("X-Frame-Options", "DENY")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Add HSTS header when the request is over HTTPS or behind a
			// TLS-terminating proxy (X-Forwarded-Proto covers the latter)
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				// 1 year max-age with includeSubDomains
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ================================================================================
// Debug Request Logging (Diagnostic)
// ================================================================================

// debugHTTPEnabled caches the TICKERFLOW_DEBUG_HTTP environment variable check.
var debugHTTPEnabled = os.Getenv("TICKERFLOW_DEBUG_HTTP") == "true"

// DebugRequestLogging returns a middleware that logs every request and
// response. Only active when TICKERFLOW_DEBUG_HTTP=true; in normal
// operation requests are observable through metrics and the performance
// monitor instead of per-request log lines.
func DebugRequestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !debugHTTPEnabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			logging.Debug().
				Str("component", "http-debug").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", sanitizeLogValue(r.URL.RawQuery)).
				Str("remote_addr", r.RemoteAddr).
				Msg("Request received")

			next.ServeHTTP(ww, r)

			logging.Debug().
				Str("component", "http-debug").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.statusCode).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
	}
}

// statusResponseWriter wraps http.ResponseWriter to capture the status code.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code and calls the underlying WriteHeader.
func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
