package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the console logger used by every command. debug lowers the
// level so per-attempt and per-file details are shown.
func New(w io.Writer, debug bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Discard is used when a caller does not supply a logger.
func Discard() zerolog.Logger {
	return zerolog.New(io.Discard)
}
