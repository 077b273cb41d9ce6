package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default config", DefaultConfig()},
		{"text format", Config{Level: "debug", Format: "text"}},
		{"console format", Config{Level: "info", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufLogger(t, "debug", "json")

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("page rendered", "route", "/home")

			entry := decodeEntry(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "page rendered" {
				t.Errorf("msg = %v, want 'page rendered'", entry["msg"])
			}
			if entry["route"] != "/home" {
				t.Errorf("route = %v, want /home", entry["route"])
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufLogger(t, "info", "json")

	l.With("component", "gateway").Info("call")

	entry := decodeEntry(t, buf)
	if entry["component"] != "gateway" {
		t.Errorf("component = %v, want gateway", entry["component"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufLogger(t, "warn", "json")

	l.Debug("debug message")
	l.Info("info message")
	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is warn")
	}

	l.Warn("logout failed")
	if buf.Len() == 0 {
		t.Error("Warn message should be logged")
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufLogger(t, "error", "json")

	l.Info("info message")
	if buf.Len() > 0 {
		t.Error("Info should be filtered at error level")
	}

	SetLevel("debug")
	defer SetLevel("info")

	l.Info("info message after level change")
	if buf.Len() == 0 {
		t.Error("Info should be logged after level changed to debug")
	}
	if level := GetLevel(); level != "debug" {
		t.Errorf("GetLevel() = %q, want %q", level, "debug")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"invalid", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetLevel(tt.input)
			if got := GetLevel(); got != tt.expected {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
	SetLevel("info")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("dropped")
	l.With("k", "v").Info("dropped")
}

func TestStdLog(t *testing.T) {
	l, buf := newBufLogger(t, "info", "text")

	StdLog(l, slog.LevelWarn).Print("http: TLS handshake error")

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "TLS handshake error") {
		t.Errorf("StdLog output = %q", out)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	l, buf := newBufLogger(t, "debug", "json")
	prev := Default()
	SetDefault(l)
	defer SetDefault(prev)

	for name, fn := range map[string]func(string, ...any){"Info": Info, "Warn": Warn, "Error": Error} {
		buf.Reset()
		fn("test message")
		if buf.Len() == 0 {
			t.Errorf("%s() produced no output", name)
		}
	}
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBufLogger(t, "info", "text")

	l.Info("test message", "component", "portal")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Text output should contain message, got: %s", output)
	}
	if !strings.Contains(output, "component=portal") {
		t.Errorf("Text output should contain component=portal, got: %s", output)
	}
}
