package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewZerologAdapter(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	a := NewZerologAdapter(logger)
	if a == nil {
		t.Fatal("expected non-nil ZerologAdapter")
	}
}

func TestZerologAdapter_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	a := NewZerologAdapter(logger)

	a.Debug("test message", "key1", "value1", "key2", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", entry["message"])
	}
	if entry["key1"] != "value1" {
		t.Errorf("expected key1='value1', got %v", entry["key1"])
	}
	if entry["key2"] != float64(42) {
		t.Errorf("expected key2=42, got %v", entry["key2"])
	}
}

func TestZerologAdapter_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	a := NewZerologAdapter(logger)

	a.Info("info message", "status", "ok")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["status"] != "ok" {
		t.Errorf("expected status='ok', got %v", entry["status"])
	}
}

func TestZerologAdapter_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	a := NewZerologAdapter(logger)

	a.Error("error occurred", "code", 500)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["code"] != float64(500) {
		t.Errorf("expected code=500, got %v", entry["code"])
	}
}

func TestZerologAdapter_NoKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	a := NewZerologAdapter(logger)

	a.Debug("simple message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["message"] != "simple message" {
		t.Errorf("expected message 'simple message', got %v", entry["message"])
	}
}

func TestZerologAdapter_ImplementsKeyValueLogger(t *testing.T) {
	var _ KeyValueLogger = (*ZerologAdapter)(nil)
}
