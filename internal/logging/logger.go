// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// New builds a logger from the given configuration. Unknown levels fall
// back to info.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetGlobal installs the logger as zerolog's global logger so packages can
// log through zerolog/log without carrying a reference.
func SetGlobal(logger zerolog.Logger) {
	log.Logger = logger
}
