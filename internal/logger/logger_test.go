package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/edgard/taskdigest/internal/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := logger.ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(&buf, "warn", true)
	log.Info("dropped")
	log.Warn("kept", "run_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["run_id"] != "abc" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestGocronLogger_DemotesInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	adapter := logger.NewGocronLogger(logger.New(&buf, "info", false))
	adapter.Info("tick")
	adapter.Debug("noise")
	adapter.Warn("slow job")

	out := buf.String()
	if strings.Contains(out, "tick") || strings.Contains(out, "noise") {
		t.Errorf("info/debug should be hidden at info level: %q", out)
	}
	if !strings.Contains(out, "slow job") || !strings.Contains(out, "component=gocron") {
		t.Errorf("warn should be logged with component: %q", out)
	}
}
