// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (DuckDB)
// - Ingestion throughput, dedup rate and audit flags
// - Parse outcomes and duplicate-policy decisions
// - Event bus publish/consume volume
// - API endpoint latency and throughput
// - Cache efficiency and WebSocket connections

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s .. 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Ingestion Metrics
	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_total",
			Help: "Total number of ingestion attempts by outcome",
		},
		[]string{"status"}, // "stored", "duplicate", "invalid"
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Duration of one ingestion attempt in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TimeToIngest = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_time_to_ingest_seconds",
			Help:    "Lag between platform timestamp and storage in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 300, 3600, 86400}, // up to a day for backfills
		},
	)

	AuditFlagsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_audit_flags_total",
			Help: "Total number of audit flags raised at ingestion",
		},
		[]string{"flag"}, // "weekend", "out_of_hours", "backdated"
	)

	// Parsing Metrics
	MessagesParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_messages_total",
			Help: "Total number of parsed messages by outcome",
		},
		[]string{"outcome"}, // "setup", "failed"
	)

	SetupsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parse_setups_extracted_total",
			Help: "Total number of setups extracted from messages",
		},
	)

	SetupPolicyDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parse_setup_policy_decisions_total",
			Help: "Total number of duplicate-policy decisions on setup slots",
		},
		[]string{"decision"}, // "saved", "skipped", "replaced"
	)

	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parse_duration_seconds",
			Help:    "Duration of one message parse in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ParseBacklog = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parse_backlog_messages",
			Help: "Current number of stored messages awaiting a parse",
		},
	)

	SweepsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parse_sweeps_completed_total",
			Help: "Total number of completed backlog sweeps",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parse_sweep_duration_seconds",
			Help:    "Duration of one backlog sweep in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	// Event Store Metrics
	EventsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_appended_total",
			Help: "Total number of events appended to the correlation log",
		},
		[]string{"channel", "event_type"},
	)

	EventAppendErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_append_errors_total",
			Help: "Total number of failed event appends",
		},
	)

	// Event Bus Metrics
	BusMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_published_total",
			Help: "Total number of messages published to the event bus",
		},
		[]string{"topic"},
	)

	BusMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_consumed_total",
			Help: "Total number of messages consumed from the event bus",
		},
		[]string{"topic"},
	)

	BusPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_publish_errors_total",
			Help: "Total number of failed event bus publishes",
		},
		[]string{"topic"},
	)

	BusProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bus_processing_duration_seconds",
			Help:    "Duration of bus message handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Write-Ahead Log Metrics
	WALEntriesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_entries_written_total",
			Help: "Total number of publish intents written to the WAL",
		},
	)

	WALEntriesReplayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wal_entries_replayed_total",
			Help: "Total number of WAL entries replayed after restart",
		},
	)

	WALPendingEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wal_pending_entries",
			Help: "Current number of unconfirmed entries in the WAL",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "stats", "flows"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Health Metrics
	HealthStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "health_status",
			Help: "Pipeline health verdict (0=healthy, 1=warning, 2=critical)",
		},
	)

	HealthErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "health_error_rate",
			Help: "Fraction of error events in the health window",
		},
	)

	HealthParseSuccessRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "health_parse_success_rate",
			Help: "Fraction of ingested messages parsed into setups in the health window",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordIngest records one ingestion attempt: outcome, platform-to-store
// lag and any audit flags raised.
func RecordIngest(status string, timeToIngest time.Duration, weekend, outOfHours, backdated bool) {
	MessagesIngested.WithLabelValues(status).Inc()
	TimeToIngest.Observe(timeToIngest.Seconds())
	if weekend {
		AuditFlagsRaised.WithLabelValues("weekend").Inc()
	}
	if outOfHours {
		AuditFlagsRaised.WithLabelValues("out_of_hours").Inc()
	}
	if backdated {
		AuditFlagsRaised.WithLabelValues("backdated").Inc()
	}
}

// RecordParse records one parse outcome and its setup yield.
func RecordParse(outcome string, setupCount int, duration time.Duration) {
	MessagesParsed.WithLabelValues(outcome).Inc()
	SetupsExtracted.Add(float64(setupCount))
	ParseDuration.Observe(duration.Seconds())
}

// RecordPolicyDecisions records a batch of duplicate-policy outcomes.
func RecordPolicyDecisions(saved, skipped, replaced int) {
	if saved > 0 {
		SetupPolicyDecisions.WithLabelValues("saved").Add(float64(saved))
	}
	if skipped > 0 {
		SetupPolicyDecisions.WithLabelValues("skipped").Add(float64(skipped))
	}
	if replaced > 0 {
		SetupPolicyDecisions.WithLabelValues("replaced").Add(float64(replaced))
	}
}

// RecordEventAppend records an event append and its outcome.
func RecordEventAppend(channel, eventType string, err error) {
	if err != nil {
		EventAppendErrors.Inc()
		return
	}
	EventsAppended.WithLabelValues(channel, eventType).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBusPublish records a bus publish and its outcome.
func RecordBusPublish(topic string, err error) {
	if err != nil {
		BusPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	BusMessagesPublished.WithLabelValues(topic).Inc()
}

// RecordBusConsume records a consumed bus message and its handling time.
func RecordBusConsume(topic string, duration time.Duration) {
	BusMessagesConsumed.WithLabelValues(topic).Inc()
	BusProcessingDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerTransition records a breaker state change and
// moves the state gauge with it.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// UpdateHealthGauges publishes the latest health verdict. Status values
// mirror circuit breaker convention: 0 healthy, 1 warning, 2 critical.
func UpdateHealthGauges(status, errorRate, successRate float64) {
	HealthStatus.Set(status)
	HealthErrorRate.Set(errorRate)
	HealthParseSuccessRate.Set(successRate)
}
