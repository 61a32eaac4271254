// Package logx initializes the global zerolog logger and exposes small
// level helpers so the rest of the codebase doesn't repeat builder chains.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Development gets a colored console
// writer at debug level; production gets JSON at info level.
func Init(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger
}

// Logger returns the global zerolog instance.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Info records a message at info level with optional key-value fields.
func Info(msg string, fields ...any) {
	log.Info().Fields(pairs(fields)).Msg(msg)
}

// Warn records a message at warn level with optional key-value fields.
func Warn(msg string, fields ...any) {
	log.Warn().Fields(pairs(fields)).Msg(msg)
}

// Error records err and a message at error level with optional key-value fields.
func Error(err error, msg string, fields ...any) {
	log.Error().Err(err).Fields(pairs(fields)).Msg(msg)
}

// Fatal records err at fatal level and exits.
func Fatal(err error, msg string, fields ...any) {
	log.Fatal().Err(err).Fields(pairs(fields)).Msg(msg)
}

// pairs drops a trailing unpaired field so zerolog never panics on odd input.
func pairs(fields []any) []any {
	if len(fields)%2 != 0 {
		return fields[:len(fields)-1]
	}
	return fields
}
