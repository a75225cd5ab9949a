// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing JSON to stderr. Stdout is left to CLI
// output and the MCP stdio transport.
func New(serviceName, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, serviceName, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
