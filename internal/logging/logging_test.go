package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNewJSONCarriesComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Component(New("info", "json", &buf), "planner")
	log.Debug().Msg("hidden")
	log.Info().Uint("task_id", 7).Msg("scheduled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["component"] != "planner" || entry["message"] != "scheduled" || entry["task_id"] != float64(7) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewConsole(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New("debug", "console", &buf)
	log.Debug().Str("k", "v").Msg("hello")
	if out := buf.String(); !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") {
		t.Fatalf("console output = %q", out)
	}
}
