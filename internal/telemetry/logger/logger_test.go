package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default config", DefaultConfig(), false},
		{"text format", Config{Level: "debug", Format: "text"}, false},
		{"console format", Config{Level: "info", Format: "console"}, false},
		{"empty level and format", Config{}, false},
		{"unknown level", Config{Level: "loud"}, true},
		{"unknown format", Config{Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufferLogger(t, "debug", "json")

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
			tt.logFunc("hook done", "hook", "storage")

			entry := decode(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "hook done" {
				t.Errorf("msg = %v", entry["msg"])
			}
			if entry["hook"] != "storage" {
				t.Errorf("hook = %v", entry["hook"])
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.With("component", "cache").Info("opened")

	if entry := decode(t, buf); entry["component"] != "cache" {
		t.Errorf("component = %v, want cache", entry["component"])
	}
}

func TestLogger_Slog(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Slog().Info("via slog", "db", "intrinsic")

	if entry := decode(t, buf); entry["db"] != "intrinsic" {
		t.Errorf("db = %v, want intrinsic", entry["db"])
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger(t, "error", "json")

	l.Info("filtered")
	if buf.Len() > 0 {
		t.Fatal("info should be filtered at error level")
	}

	SetLevel("debug")
	l.Info("kept")
	if buf.Len() == 0 {
		t.Error("info should be logged after the level changed to debug")
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"debug", "debug", true},
		{"DEBUG", "debug", true},
		{"info", "info", true},
		{"warn", "warn", true},
		{"warning", "warn", true},
		{"Error", "error", true},
		{"invalid", "info", false},
		{"", "info", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetLevel(tt.input)
			if got := GetLevel(); got != tt.want {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.want)
			}
			if got := ValidLevel(tt.input); got != tt.valid {
				t.Errorf("ValidLevel(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	l, buf := newBufferLogger(t, "debug", "json")
	prev := Default()
	SetDefault(l)
	defer SetDefault(prev)

	for name, fn := range map[string]func(string, ...any){
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	} {
		t.Run(name, func(t *testing.T) {
			buf.Reset()
			fn("test message")
			if buf.Len() == 0 {
				t.Errorf("%s() produced no output", name)
			}
		})
	}
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "text")

	l.Info("signal received", "signal", "terminated")

	out := buf.String()
	if !strings.Contains(out, "signal received") || !strings.Contains(out, "signal=terminated") {
		t.Errorf("unexpected text output: %s", out)
	}
}
