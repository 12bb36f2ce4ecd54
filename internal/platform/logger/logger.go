package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger for the named command. Output goes to stderr
// so the result lines each command prints on stdout stay clean. Unrecognized
// level strings default to info.
func New(app, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", app).Logger()
}
