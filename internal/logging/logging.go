package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level and sink. The TUI owns stdout/stderr, so logs
// always go to a file; Level "off" disables logging entirely.
type Options struct {
	Level string
	File  string
	// Console switches to the human-readable development encoder.
	Console bool
}

// New builds the process logger. The returned func flushes buffered entries.
func New(opts Options) (*zap.Logger, func(), error) {
	level := strings.ToLower(strings.TrimSpace(opts.Level))
	if level == "off" || strings.TrimSpace(opts.File) == "" {
		return zap.NewNop(), func() {}, nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	var zc zap.Config
	if opts.Console {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{opts.File}
	zc.ErrorOutputPaths = []string{opts.File}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true

	logger, err := zc.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}
