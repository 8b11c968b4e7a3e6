// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns the application logger. Components derive their own
// sub-loggers from it via With().
func New(serviceName string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	return zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
