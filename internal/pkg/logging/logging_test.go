package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["msg"] != "shown" || record["key"] != "value" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "TEXT", Writer: &buf}).Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Error("expected fallback logger for bare context")
	}

	ctx := ContextWithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Error("expected scoped logger from context")
	}

	if got := FromContext(context.Background(), nil); got != slog.Default() {
		t.Error("expected slog.Default when no fallback given")
	}
}
