package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" info ", InfoLevel},
		{"WARNING", WarnLevel},
		{"warn", WarnLevel},
		{"Error", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDomainFields(t *testing.T) {
	if f := Diagram("flow"); f.Key != "diagram" || f.Value != "flow" {
		t.Errorf("Diagram() = %+v", f)
	}
	if f := Scale(1.2); f.Key != "scale" || f.Value != 1.2 {
		t.Errorf("Scale() = %+v", f)
	}
	if f := SessionID("abc"); f.Key != "session_id" || f.Value != "abc" {
		t.Errorf("SessionID() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	if f := Duration("d", 5*time.Second); f.Value != "5s" {
		t.Errorf("Duration() = %+v", f)
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("layout computed", Diagram("cluster"), Count(3))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "layout computed" {
		t.Errorf("Message = %v", entry.Message)
	}
	if entry.Fields["diagram"] != "cluster" {
		t.Errorf("Fields[diagram] = %v", entry.Fields["diagram"])
	}
	if entry.Fields["count"] != float64(3) {
		t.Errorf("Fields[count] = %v", entry.Fields["count"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("session"))

	logger.SetLevel(ErrorLevel)
	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("child ignored parent level change: %s", buf.String())
	}

	child.Error("kept", String("action", "close"))
	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["component"] != "session" || entry.Fields["action"] != "close" {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestJSONLogger_UnmarshalableValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Warn("scale out of range", Scale(math.NaN()))

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("fallback line is not JSON: %v (%s)", err, buf.String())
	}
	if raw["msg"] != "scale out of range" {
		t.Errorf("msg = %v", raw["msg"])
	}
	if _, ok := raw["marshal_error"]; !ok {
		t.Error("expected marshal_error in fallback entry")
	}
}

func TestSetDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(NewNopLogger())

	With(String("service", "riskgraph")).Debug("hello")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["service"] != "riskgraph" {
		t.Errorf("service field = %v", entry.Fields["service"])
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	StartTimer(logger, "render pass", Diagram("flow")).End()

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Level != "DEBUG" {
		t.Errorf("Level = %v, want DEBUG", entry.Level)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}

	buf.Reset()
	StartTimer(logger, "replay").EndError(errors.New("surface gone"))
	if !strings.Contains(buf.String(), "surface gone") {
		t.Errorf("EndError output = %s", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("nothing")
	if l.With(Count(1)) == nil {
		t.Fatal("With returned nil")
	}
	if l.GetLevel() != InfoLevel {
		t.Errorf("GetLevel = %v", l.GetLevel())
	}
}
