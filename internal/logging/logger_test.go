// Tickerflow - Trading Chat Event Correlation and Setup Extraction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tickerflow

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:     "debug",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})
	defer Init(DefaultConfig())

	Info().Str("component", "ingest").Msg("message stored")

	output := buf.String()
	if !strings.Contains(output, "message stored") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
	if !strings.Contains(output, `"component":"ingest"`) {
		t.Errorf("expected output to contain component field, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"WARN", zerolog.WarnLevel},
		{"invalid", zerolog.InfoLevel}, // default
		{"", zerolog.InfoLevel},        // empty
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:  "warn",
		Format: "json",
		Output: &buf,
	})
	defer Init(DefaultConfig())

	Debug().Msg("debug suppressed")
	Info().Msg("info suppressed")
	Warn().Msg("warn emitted")

	output := buf.String()
	if strings.Contains(output, "debug suppressed") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(output, "info suppressed") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "warn emitted") {
		t.Errorf("warn message should be emitted, got: %s", output)
	}
}

func TestErr(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:  "debug",
		Format: "json",
		Output: &buf,
	})
	defer Init(DefaultConfig())

	Err(errors.New("append failed")).Msg("operation failed")

	output := buf.String()
	if !strings.Contains(output, `"error":"append failed"`) {
		t.Errorf("expected error field in output, got: %s", output)
	}
}

func TestSetLogger(t *testing.T) {
	original := Logger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))

	Info().Msg("replaced logger")

	if !strings.Contains(buf.String(), "replaced logger") {
		t.Errorf("expected replaced logger to capture output, got: %s", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.Info().Str("ticker", "AAPL").Msg("captured")

	output := buf.String()
	if !strings.Contains(output, `"ticker":"AAPL"`) {
		t.Errorf("expected structured field in output, got: %s", output)
	}
	if !strings.Contains(output, `"time"`) {
		t.Errorf("expected timestamp in output, got: %s", output)
	}
}
