package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "json", "info")

	logger.Info("analysis_complete", "lines", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "analysis_complete" {
		t.Errorf("msg = %v, want analysis_complete", entry["msg"])
	}
	if entry["lines"] != float64(42) {
		t.Errorf("lines = %v, want 42", entry["lines"])
	}
}

func TestNewLoggerWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "info")

	logger.Info("textfile_written", "path", "/tmp/x.prom")

	out := buf.String()
	if !strings.Contains(out, "msg=textfile_written") || !strings.Contains(out, "path=/tmp/x.prom") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestNewLoggerWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "warn")

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("warn record missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	logger := NewLogger("text", true)
	if !logger.Enabled(nil, slog.LevelDebug) {
		t.Error("verbose logger does not accept debug records")
	}

	quiet := NewLogger("text", false)
	if quiet.Enabled(nil, slog.LevelDebug) {
		t.Error("non-verbose logger accepts debug records")
	}
}
