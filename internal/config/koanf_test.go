// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithKoanfDefaults(t *testing.T) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf error: %v", err)
	}

	if cfg.Database.Path != "/data/tickerflow.duckdb" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Pipeline.SweepInterval != 30*time.Second {
		t.Errorf("Pipeline.SweepInterval = %s", cfg.Pipeline.SweepInterval)
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	t.Setenv("TRADING_TIMEZONE", "UTC")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("PARSER_DUPLICATE_POLICY", "allow")
	t.Setenv("PIPELINE_SWEEP_INTERVAL", "45s")
	t.Setenv("INGEST_BACKDATE_THRESHOLD", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf error: %v", err)
	}

	if cfg.Trading.Timezone != "UTC" {
		t.Errorf("Trading.Timezone = %q, want UTC", cfg.Trading.Timezone)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Parser.DuplicatePolicy != "allow" {
		t.Errorf("Parser.DuplicatePolicy = %q, want allow", cfg.Parser.DuplicatePolicy)
	}
	if cfg.Pipeline.SweepInterval != 45*time.Second {
		t.Errorf("Pipeline.SweepInterval = %s, want 45s", cfg.Pipeline.SweepInterval)
	}
	if cfg.Ingest.BackdateThreshold != 90*time.Second {
		t.Errorf("Ingest.BackdateThreshold = %s, want 90s", cfg.Ingest.BackdateThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfSliceEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://app.example.com")
	t.Setenv("PARSER_EXTRA_STOP_WORDS", "YOLO,FOMO")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf error: %v", err)
	}

	if len(cfg.API.CORSOrigins) != 2 {
		t.Fatalf("CORSOrigins = %v, want 2 entries", cfg.API.CORSOrigins)
	}
	if cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins[0] = %q", cfg.API.CORSOrigins[0])
	}
	if cfg.API.CORSOrigins[1] != "http://app.example.com" {
		t.Errorf("CORSOrigins[1] = %q", cfg.API.CORSOrigins[1])
	}

	if len(cfg.Parser.ExtraStopWords) != 2 {
		t.Fatalf("ExtraStopWords = %v, want 2 entries", cfg.Parser.ExtraStopWords)
	}
	if cfg.Parser.ExtraStopWords[0] != "YOLO" || cfg.Parser.ExtraStopWords[1] != "FOMO" {
		t.Errorf("ExtraStopWords = %v", cfg.Parser.ExtraStopWords)
	}
}

func TestLoadWithKoanfInvalidEnvRejected(t *testing.T) {
	t.Setenv("PARSER_DUPLICATE_POLICY", "overwrite")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf accepted invalid duplicate policy")
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	yamlContent := []byte(`
trading:
  timezone: "Europe/London"
  session_open: "08:00"
  session_close: "16:30"
parser:
  duplicate_policy: skip
server:
  port: 7777
`)
	if err := os.WriteFile(configPath, yamlContent, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf error: %v", err)
	}

	if cfg.Trading.Timezone != "Europe/London" {
		t.Errorf("Trading.Timezone = %q, want Europe/London", cfg.Trading.Timezone)
	}
	if cfg.Parser.DuplicatePolicy != "skip" {
		t.Errorf("Parser.DuplicatePolicy = %q, want skip", cfg.Parser.DuplicatePolicy)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}

	// Untouched sections keep their defaults
	if cfg.Database.MaxMemory != "2GB" {
		t.Errorf("Database.MaxMemory = %q, want default 2GB", cfg.Database.MaxMemory)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	yamlContent := []byte("server:\n  port: 7777\n")
	if err := os.WriteFile(configPath, yamlContent, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "8888")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf error: %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, env should beat file", cfg.Server.Port)
	}
}

func TestEnvTransformFuncSkipsUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("envTransformFunc(PATH) = %q, want empty", got)
	}
	if got := envTransformFunc("HOME"); got != "" {
		t.Errorf("envTransformFunc(HOME) = %q, want empty", got)
	}
	if got := envTransformFunc("DUCKDB_PATH"); got != "database.path" {
		t.Errorf("envTransformFunc(DUCKDB_PATH) = %q", got)
	}
	if got := envTransformFunc("TRADING_SESSION_OPEN"); got != "trading.session_open" {
		t.Errorf("envTransformFunc(TRADING_SESSION_OPEN) = %q", got)
	}
}
