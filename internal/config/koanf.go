// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tickerflow/config.yaml",
	"/etc/tickerflow/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the
// config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values. These
// are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			BackdateThreshold: 5 * time.Minute,
		},
		Trading: TradingConfig{
			Timezone:     "America/New_York",
			SessionOpen:  "09:30",
			SessionClose: "16:00",
		},
		Parser: ParserConfig{
			DuplicatePolicy: "replace",
			ContextWindow:   200,
			ExtraStopWords:  []string{},
		},
		Pipeline: PipelineConfig{
			SweepInterval:      30 * time.Second,
			SweepBatchSize:     100,
			SweepRatePerSecond: 50,
			SweepBurst:         10,
		},
		NATS: NATSConfig{
			Enabled:             false, // In-process channel bus by default
			URL:                 "nats://127.0.0.1:4222",
			EmbeddedServer:      true,
			StoreDir:            "/data/nats/jetstream",
			MaxMemory:           1 << 30,  // 1GB
			MaxStore:            10 << 30, // 10GB
			StreamRetentionDays: 7,
			SubscribersCount:    4,
			DurableName:         "tickerflow-processor",
			QueueGroup:          "processors",
			BreakerMaxFailures:  5,
			BreakerOpenTimeout:  30 * time.Second,
		},
		WAL: WALConfig{
			Enabled:         false,
			Dir:             "/data/wal",
			SyncWrites:      false,
			ReplayBatchSize: 500,
			GCInterval:      10 * time.Minute,
			RetryInterval:   30 * time.Second,
			MaxRetries:      10,
			EntryTTL:        7 * 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Path:                   "/data/tickerflow.duckdb",
			MaxMemory:              "2GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
		},
		Server: ServerConfig{
			Port:        8480,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize:   100,
			MaxPageSize:       1000,
			RateLimitReqs:     300,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			EnableSwagger:     true,
			CacheTTL:          30 * time.Second,
			CacheType:         "ttl",
			CacheCapacity:     10000,
		},
		Health: HealthConfig{
			WindowHours:       168,
			ErrorRateCritical: 0.25,
			SuccessRateWarn:   0.50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when they arrive as env var strings.
var sliceConfigPaths = []string{
	"api.cors_origins",
	"parser.extra_stop_words",
}

// processSliceFields converts comma-separated string values to slices
// for known slice fields. Env vars come in as strings but the config
// expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config
// paths. Unmapped variables are skipped so random environment variables
// cannot pollute the config.
//
// Examples:
//   - TRADING_TIMEZONE -> trading.timezone
//   - PARSER_DUPLICATE_POLICY -> parser.duplicate_policy
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Ingest mappings
		"ingest_backdate_threshold": "ingest.backdate_threshold",

		// Trading session mappings
		"trading_timezone":      "trading.timezone",
		"trading_session_open":  "trading.session_open",
		"trading_session_close": "trading.session_close",

		// Parser mappings
		"parser_duplicate_policy": "parser.duplicate_policy",
		"parser_context_window":   "parser.context_window",
		"parser_extra_stop_words": "parser.extra_stop_words",

		// Pipeline sweeper mappings
		"pipeline_sweep_interval":   "pipeline.sweep_interval",
		"pipeline_sweep_batch_size": "pipeline.sweep_batch_size",
		"pipeline_sweep_rate":       "pipeline.sweep_rate_per_second",
		"pipeline_sweep_burst":      "pipeline.sweep_burst",

		// NATS mappings
		"nats_enabled":              "nats.enabled",
		"nats_url":                  "nats.url",
		"nats_embedded":             "nats.embedded_server",
		"nats_store_dir":            "nats.store_dir",
		"nats_max_memory":           "nats.max_memory",
		"nats_max_store":            "nats.max_store",
		"nats_retention_days":       "nats.stream_retention_days",
		"nats_subscribers":          "nats.subscribers_count",
		"nats_durable_name":         "nats.durable_name",
		"nats_queue_group":          "nats.queue_group",
		"nats_breaker_max_failures": "nats.breaker_max_failures",
		"nats_breaker_open_timeout": "nats.breaker_open_timeout",

		// WAL mappings
		"wal_enabled":           "wal.enabled",
		"wal_dir":               "wal.dir",
		"wal_sync_writes":       "wal.sync_writes",
		"wal_replay_batch_size": "wal.replay_batch_size",
		"wal_gc_interval":       "wal.gc_interval",
		"wal_retry_interval":    "wal.retry_interval",
		"wal_max_retries":       "wal.max_retries",
		"wal_entry_ttl":         "wal.entry_ttl",

		// Database mappings
		"duckdb_path":                     "database.path",
		"duckdb_max_memory":               "database.max_memory",
		"duckdb_threads":                  "database.threads",
		"duckdb_preserve_insertion_order": "database.preserve_insertion_order",
		"duckdb_skip_indexes":             "database.skip_indexes",

		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"rate_limit_requests":   "api.rate_limit_reqs",
		"rate_limit_window":     "api.rate_limit_window",
		"disable_rate_limit":    "api.rate_limit_disabled",
		"cors_origins":          "api.cors_origins",
		"enable_swagger":        "api.enable_swagger",
		"api_cache_ttl":         "api.cache_ttl",
		"api_cache_type":        "api.cache_type",
		"api_cache_capacity":    "api.cache_capacity",

		// Health verdict mappings
		"health_window_hours":        "health.window_hours",
		"health_error_rate_critical": "health.error_rate_critical",
		"health_success_rate_warn":   "health.success_rate_warn",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability. The
// caller is responsible for mutex protection when swapping configuration
// during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
