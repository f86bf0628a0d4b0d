package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"unknown": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "remote fetch completed", F("resource", "ssm"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["msg"] != "remote fetch completed" {
		t.Errorf("msg = %v", e["msg"])
	}
	if e["level"] != "info" {
		t.Errorf("level = %v", e["level"])
	}
	if e["resource"] != "ssm" {
		t.Errorf("resource = %v", e["resource"])
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d", len(entries))
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.Info(context.Background(), "msg",
		F("value", "db-password"),
		F("secret", "s3cr3t"),
		F("plaintext", "hello"),
		F("operation", "GetSecretValue"),
	)

	out := buf.String()
	for _, leaked := range []string{"db-password", "s3cr3t", "hello"} {
		if strings.Contains(out, leaked) {
			t.Errorf("log output leaked %q: %s", leaked, out)
		}
	}
	if !strings.Contains(out, "GetSecretValue") {
		t.Errorf("expected non-sensitive field in output: %s", out)
	}
}

func TestLogger_WithAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).With(F("service", "awscache"))

	logger.Error(context.Background(), "remote fetch failed", F("error", errors.New("throttled")))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["service"] != "awscache" {
		t.Errorf("service = %v", entries[0]["service"])
	}
	if entries[0]["error"] != "throttled" {
		t.Errorf("error = %v", entries[0]["error"])
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("verbose"); !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("NewLogger() error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Info(context.Background(), "ignored")
	if l.With(F("k", "v")) == nil {
		t.Fatal("With() returned nil")
	}
	if NewZapLogger(nil) == nil {
		t.Fatal("NewZapLogger(nil) returned nil")
	}
}
