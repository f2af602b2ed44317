package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"quizpilot/internal/config"
)

// TestNewJSONRespectsLevel verifies level filtering and JSON output.
func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", zap.String("question", "q1"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "shown" || entry["question"] != "q1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

// TestNewRejectsUnknownSettings verifies invalid level and format errors.
func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, nil); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New(config.LogConfig{Format: "xml"}, nil); err == nil {
		t.Fatalf("expected format error")
	}
}
