package utils

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "warn")

	l.Info("[test] hidden %d", 1)
	l.Warn("[test] shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "[test] shown 2") {
		t.Errorf("warn line missing: %q", out)
	}

	l.SetLevel("debug")
	l.Debug("[test] now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug line missing after SetLevel: %q", buf.String())
	}
}
