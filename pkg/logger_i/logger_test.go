package logger_i

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/akolanti/DocQA/internal/config"
)

func TestInit_ProdWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LogConfig{Prod: true, Level: "info"}, &buf)

	log := NewLogger("test")
	log.Debug("hidden")
	log.Info("visible", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if entry["component"] != "test" || entry["key"] != "value" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestWithContext_AddsTraceAndSession(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LogConfig{Level: "debug"}, &buf)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-1")
	ctx = context.WithValue(ctx, config.SESSION_ID_KEY, "session-1")
	NewLogger("test").WithContext(ctx).Warn("careful")

	out := buf.String()
	if !strings.Contains(out, "traceId=trace-1") || !strings.Contains(out, "sessionId=session-1") {
		t.Errorf("context ids missing from %q", out)
	}
}

func TestParseLevel_Fallback(t *testing.T) {
	if got := parseLevel(config.LogConfig{Level: "loud"}); got != config.LOG_LEVEL_DEV {
		t.Errorf("dev fallback = %v", got)
	}
	if got := parseLevel(config.LogConfig{Prod: true, Level: "loud"}); got != config.LOG_LEVEL_PROD {
		t.Errorf("prod fallback = %v", got)
	}
}
