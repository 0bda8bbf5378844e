// Package logging builds the zap logger used across folio.
//
// The terminal is owned by the intro and the page, so logs never go to
// stdout or stderr. They are written as JSON lines to a file, or dropped.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger writing to file at level. An empty
// file returns a no-op logger. Callers should Sync the logger on exit.
func New(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	if file == "" {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Sampling = nil
	config.OutputPaths = []string{file}
	config.ErrorOutputPaths = []string{file}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Named("folio"), nil
}
