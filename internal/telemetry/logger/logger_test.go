package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newJSON(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"json", "json", `"msg":"registered"`},
		{"text", "text", "msg=registered"},
		{"console", "console", "msg=registered"},
		{"unknown falls back to json", "xml", `"msg":"registered"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Config{Level: "info", Format: tt.format, Output: &buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			l.Info("registered", "program", "solver")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newJSON(t, "debug")

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
			tt.logFunc("signal received", "signal", "SIGINT")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["signal"] != "SIGINT" {
				t.Errorf("signal = %v, want SIGINT", entry["signal"])
			}
		})
	}
}

func TestLogger_LevelFilteringAndSetLevel(t *testing.T) {
	l, buf := newJSON(t, "warn")

	l.Info("filtered")
	if buf.Len() > 0 {
		t.Fatal("Info should be filtered at warn level")
	}

	SetLevel("debug")
	t.Cleanup(func() { SetLevel("info") })

	l.Debug("visible")
	if buf.Len() == 0 {
		t.Error("Debug should be logged after SetLevel(debug)")
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"INFO", "info"},
		{"warning", "warn"},
		{"Error", "error"},
		{"bogus", "info"},
		{"", "info"},
	}
	t.Cleanup(func() { SetLevel("info") })

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetLevel(tt.input)
			if got := GetLevel(); got != tt.expected {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newJSON(t, "info")

	l.With("registration", "01J0000000000000000000000").Info("armed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["registration"] != "01J0000000000000000000000" {
		t.Errorf("registration = %v", entry["registration"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded")
	l.With("k", "v").WithContext(context.Background()).Info("discarded")
}

func TestSetDefault_AndPackageFunctions(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, buf := newJSON(t, "debug")
	SetDefault(l)

	for name, fn := range map[string]func(string, ...any){
		"Debug": Debug, "Info": Info, "Warn": Warn, "Error": Error,
	} {
		buf.Reset()
		fn("message")
		if buf.Len() == 0 {
			t.Errorf("%s() produced no output", name)
		}
	}

	if Slog(l) == nil {
		t.Error("Slog() returned nil")
	}
}

func TestContext(t *testing.T) {
	l, buf := newJSON(t, "info")

	ctx := WithLogger(context.Background(), l)
	ctx = WithProgram(ctx, "solver")

	if got := ProgramFromContext(ctx); got != "solver" {
		t.Errorf("ProgramFromContext() = %q, want solver", got)
	}
	L(ctx).Info("hello")
	if !strings.Contains(buf.String(), `"program":"solver"`) {
		t.Errorf("L() did not add program: %s", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Error("FromContext() without logger should return the default")
	}
	if ProgramFromContext(context.Background()) != "" {
		t.Error("ProgramFromContext() should be empty by default")
	}
}
