// Package logging builds the zap logger shared by the CLI commands
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to stderr. Diagnostics stay off stdout so
// rendered output can be piped.
func New(verbose, jsonOutput bool) (*zap.Logger, error) {
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		return config.Build()
	}
	return NewConsole(os.Stderr, level), nil
}

// NewConsole returns a human-readable logger writing to w
func NewConsole(w io.Writer, level zapcore.Level) *zap.Logger {
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.TimeKey = ""
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder

	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoder),
			zapcore.AddSync(w),
			level,
		),
	).Named("liarlens")
}
