package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes the global zerolog level and returns a logger.
//   - level: trace, debug, info, warn, error, fatal, panic
//   - format: "json" for machine-readable output, "pretty" for the console
//
// Logs go to stderr so they never mix with the terminal quiz on stdout.
func Setup(level, format string) zerolog.Logger {
	return New(os.Stderr, level, format)
}

// New is Setup with an explicit writer.
func New(out io.Writer, level, format string) zerolog.Logger {
	writer := out
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}
