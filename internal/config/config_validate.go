// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package config

import (
	"fmt"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateTrading(); err != nil {
		return err
	}

	if err := c.validateParser(); err != nil {
		return err
	}

	if err := c.validatePipeline(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateWAL(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateHealth(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateTrading checks the session definition used by audit flags.
func (c *Config) validateTrading() error {
	if _, err := c.Trading.Location(); err != nil {
		return err
	}

	openMin, closeMin, err := c.Trading.SessionBounds()
	if err != nil {
		return err
	}
	if openMin >= closeMin {
		return fmt.Errorf("TRADING_SESSION_OPEN (%s) must be before TRADING_SESSION_CLOSE (%s)",
			c.Trading.SessionOpen, c.Trading.SessionClose)
	}
	return nil
}

func (c *Config) validateParser() error {
	switch c.Parser.DuplicatePolicy {
	case "replace", "skip", "allow":
	default:
		return fmt.Errorf("PARSER_DUPLICATE_POLICY must be replace, skip or allow, got: %s",
			c.Parser.DuplicatePolicy)
	}

	if c.Parser.ContextWindow <= 0 {
		return fmt.Errorf("PARSER_CONTEXT_WINDOW must be positive, got: %d", c.Parser.ContextWindow)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.SweepInterval <= 0 {
		return fmt.Errorf("PIPELINE_SWEEP_INTERVAL must be positive, got: %s", c.Pipeline.SweepInterval)
	}
	if c.Pipeline.SweepBatchSize <= 0 {
		return fmt.Errorf("PIPELINE_SWEEP_BATCH_SIZE must be positive, got: %d", c.Pipeline.SweepBatchSize)
	}
	if c.Pipeline.SweepRatePerSecond <= 0 {
		return fmt.Errorf("PIPELINE_SWEEP_RATE must be positive, got: %f", c.Pipeline.SweepRatePerSecond)
	}
	if c.Pipeline.SweepBurst <= 0 {
		return fmt.Errorf("PIPELINE_SWEEP_BURST must be positive, got: %d", c.Pipeline.SweepBurst)
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if !c.NATS.EmbeddedServer {
		if c.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true and NATS_EMBEDDED=false")
		}
		if err := validateNATSURL(c.NATS.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}

	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when running the embedded server")
	}

	if c.NATS.SubscribersCount <= 0 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be positive, got: %d", c.NATS.SubscribersCount)
	}

	if c.NATS.StreamRetentionDays <= 0 {
		return fmt.Errorf("NATS_RETENTION_DAYS must be positive, got: %d", c.NATS.StreamRetentionDays)
	}

	return nil
}

// validateWAL validates WAL configuration (only if enabled)
func (c *Config) validateWAL() error {
	if !c.WAL.Enabled {
		return nil
	}

	if c.WAL.Dir == "" {
		return fmt.Errorf("WAL_DIR is required when WAL_ENABLED=true")
	}
	if c.WAL.ReplayBatchSize <= 0 {
		return fmt.Errorf("WAL_REPLAY_BATCH_SIZE must be positive, got: %d", c.WAL.ReplayBatchSize)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize <= 0 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive, got: %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize <= 0 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be positive, got: %d", c.API.MaxPageSize)
	}
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE (%d) cannot exceed API_MAX_PAGE_SIZE (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}

	for _, origin := range c.API.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}

	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got: %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got: %s", c.API.RateLimitWindow)
		}
	}

	return nil
}

func (c *Config) validateHealth() error {
	if c.Health.WindowHours <= 0 {
		return fmt.Errorf("HEALTH_WINDOW_HOURS must be positive, got: %d", c.Health.WindowHours)
	}
	if c.Health.ErrorRateCritical <= 0 || c.Health.ErrorRateCritical > 1 {
		return fmt.Errorf("HEALTH_ERROR_RATE_CRITICAL must be in (0, 1], got: %v", c.Health.ErrorRateCritical)
	}
	if c.Health.SuccessRateWarn < 0 || c.Health.SuccessRateWarn > 1 {
		return fmt.Errorf("HEALTH_SUCCESS_RATE_WARN must be in [0, 1], got: %v", c.Health.SuccessRateWarn)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got: %s",
			c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}

	return nil
}
