// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

var globals sync.Once

// New returns a logger writing to w (stdout when nil). format is "console"
// or "json"; unknown levels fall back to info.
func New(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	globals.Do(func() {
		zerolog.TimeFieldFormat = consoleTimeFormat
		zerolog.ErrorFieldName = "err"
	})

	if !strings.EqualFold(strings.TrimSpace(format), "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat, NoColor: true}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

func ParseLevel(raw string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || raw == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component derives a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
