// Package logging builds the zerolog logger used across StockScope.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/config"
)

// New creates a logger from the logging configuration. The console format is
// for interactive use; json is for anything that ships logs elsewhere.
func New(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
