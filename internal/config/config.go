// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Pipeline:
//     - Ingest: Duplicate handling and anomaly flag thresholds
//     - Trading: Session timezone and market hours used for audit flags
//     - Parser: Extraction tuning (context window, duplicate policy)
//     - Pipeline: Backlog sweeper pacing
//
//  2. Infrastructure:
//     - Database: DuckDB configuration (path, memory, threads)
//     - NATS: Optional JetStream event bus (embedded or external)
//     - WAL: Optional Badger write-ahead log for event publishes
//     - Server: HTTP server configuration (port, host, timeout)
//
//  3. API & Observability:
//     - API: Pagination, rate limiting, CORS, Swagger exposure
//     - Health: Pipeline health score thresholds
//     - Logging: Log levels and output formats
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Ingest   IngestConfig   `koanf:"ingest"`
	Trading  TradingConfig  `koanf:"trading"`
	Parser   ParserConfig   `koanf:"parser"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	NATS     NATSConfig     `koanf:"nats"`     // Optional: Watermill/NATS JetStream event bus
	WAL      WALConfig      `koanf:"wal"`      // Optional: Badger write-ahead log (wal build tag)
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Health   HealthConfig   `koanf:"health"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// IngestConfig tunes the ingestion stage.
type IngestConfig struct {
	// BackdateThreshold marks a message as backdated when its platform
	// timestamp is older than this at arrival. Covers bulk re-imports
	// and connector catch-up after downtime.
	BackdateThreshold time.Duration `koanf:"backdate_threshold"`
}

// TradingConfig defines the trading session used for audit flags and
// trading-date fallback.
//
// Environment Variables:
//   - TRADING_TIMEZONE: IANA zone name (default: America/New_York)
//   - TRADING_SESSION_OPEN: session open, HH:MM 24h clock
//   - TRADING_SESSION_CLOSE: session close, HH:MM 24h clock
type TradingConfig struct {
	Timezone     string `koanf:"timezone"`
	SessionOpen  string `koanf:"session_open"`
	SessionClose string `koanf:"session_close"`
}

// Location resolves the configured timezone.
func (t TradingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid trading timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

// SessionBounds returns the open and close instants as minutes after
// midnight in the trading timezone.
func (t TradingConfig) SessionBounds() (openMin, closeMin int, err error) {
	openMin, err = parseClock(t.SessionOpen)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid session_open: %w", err)
	}
	closeMin, err = parseClock(t.SessionClose)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid session_close: %w", err)
	}
	return openMin, closeMin, nil
}

// parseClock parses an HH:MM 24h clock value into minutes after midnight.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%q is not HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return h*60 + m, nil
}

// ParserConfig tunes setup extraction.
type ParserConfig struct {
	// DuplicatePolicy decides collisions on (ticker, trading_date):
	// replace, skip, or allow.
	DuplicatePolicy string `koanf:"duplicate_policy"`

	// ContextWindow is how many characters after a ticker's first
	// occurrence are scanned for setup keywords and price levels.
	ContextWindow int `koanf:"context_window"`

	// ExtraStopWords extends the built-in list of uppercase words that
	// are never treated as tickers (comma-separated in env form).
	ExtraStopWords []string `koanf:"extra_stop_words"`
}

// PipelineConfig tunes the backlog sweeper that parses stored messages
// which have not been through the parsing stage yet.
type PipelineConfig struct {
	SweepInterval  time.Duration `koanf:"sweep_interval"`
	SweepBatchSize int           `koanf:"sweep_batch_size"`

	// SweepRatePerSecond paces parsing during a sweep so a large backlog
	// cannot starve interactive queries.
	SweepRatePerSecond float64 `koanf:"sweep_rate_per_second"`
	SweepBurst         int     `koanf:"sweep_burst"`
}

// NATSConfig holds the optional NATS JetStream event bus settings. When
// disabled the bus runs on in-process Watermill channels.
type NATSConfig struct {
	Enabled        bool   `koanf:"enabled"`
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`

	// StreamRetentionDays bounds how long published events stay in the
	// stream. The DuckDB event store remains the system of record.
	StreamRetentionDays int    `koanf:"stream_retention_days"`
	SubscribersCount    int    `koanf:"subscribers_count"`
	DurableName         string `koanf:"durable_name"`
	QueueGroup          string `koanf:"queue_group"`

	// Circuit breaker around publishes so a wedged broker degrades to
	// dropped notifications instead of blocked ingestion.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// WALConfig holds the optional Badger write-ahead log settings. Only
// builds with the wal tag use it.
type WALConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Dir             string        `koanf:"dir"`
	SyncWrites      bool          `koanf:"sync_writes"`
	ReplayBatchSize int           `koanf:"replay_batch_size"`
	GCInterval      time.Duration `koanf:"gc_interval"`

	// RetryInterval is how often the retry loop re-attempts pending
	// publishes; MaxRetries caps attempts per entry before it is
	// dropped as poisonous.
	RetryInterval time.Duration `koanf:"retry_interval"`
	MaxRetries    int           `koanf:"max_retries"`

	// EntryTTL bounds how long any entry can sit in the log. Badger
	// expires entries natively after it.
	EntryTTL time.Duration `koanf:"entry_ttl"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path, or :memory: for ephemeral runs
//   - DUCKDB_MAX_MEMORY: Memory limit (e.g., 2GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU()
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`

	// SkipIndexes skips secondary index creation. Used by tests where
	// per-test index builds dominate setup time.
	SkipIndexes bool `koanf:"skip_indexes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment gates development-only surfaces such as Swagger UI.
	Environment string `koanf:"environment"`
}

// APIConfig holds REST API behavior settings.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	EnableSwagger     bool          `koanf:"enable_swagger"`

	// Statistics responses are cached for CacheTTL. CacheType selects
	// the eviction strategy (ttl or lfu); CacheCapacity bounds the lfu
	// variant.
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	CacheType     string        `koanf:"cache_type"`
	CacheCapacity int           `koanf:"cache_capacity"`
}

// HealthConfig holds pipeline health thresholds. The verdict rule is
// fixed; what counts as healthy is deployment policy and lives here.
type HealthConfig struct {
	// WindowHours is the default statistics lookback. Hours rather
	// than days so a dashboard can ask for sub-day windows.
	WindowHours int `koanf:"window_hours"`

	// ErrorRateCritical is the error-event fraction (0-1) above which
	// the pipeline is critical.
	ErrorRateCritical float64 `koanf:"error_rate_critical"`

	// SuccessRateWarn is the parse success rate (0-1) below which the
	// pipeline is in warning, unless already critical.
	SuccessRateWarn float64 `koanf:"success_rate_warn"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, an optional config file, and
// environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
