// Package logger builds the zerolog logger shared by the HTTP layer.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// SetLocation renders every log timestamp in loc.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(loc)
	}
}

// New returns a JSON logger writing one object per line to w.
// Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
