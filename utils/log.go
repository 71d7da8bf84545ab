package utils

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger makes the diagnostics logger.  Ordinary command output does not go through here.
// An unknown or empty level means "warn".
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
