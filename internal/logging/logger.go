// Package logging builds the zap loggers used by the fantasy client.
//
// Command mode (one-shot register, version) logs to stderr. The interactive
// form owns the terminal, so it only logs when debug_mode is on, and then to
// a file. Loggers are split by category so noisy areas can be muted from
// config.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"fantasysala/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot Category = "boot" // Startup, config loading
	CategoryAPI  Category = "api"  // Auth service calls
	CategoryForm Category = "form" // Registration form transitions
)

// Mode selects where logs go.
type Mode int

const (
	// ModeCommand writes to stderr.
	ModeCommand Mode = iota
	// ModeInteractive writes to cfg.File, and only when DebugMode is set.
	ModeInteractive
)

// New builds the root logger. verbose forces debug level.
func New(cfg config.LoggingConfig, mode Mode, verbose bool) (*zap.Logger, error) {
	if mode == ModeInteractive && !cfg.DebugMode {
		return zap.NewNop(), nil
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" || cfg.Format == "text" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = !verbose

	switch mode {
	case ModeInteractive:
		path := cfg.File
		if path == "" {
			path = config.DefaultConfig().Logging.File
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		zcfg.OutputPaths = []string{path}
		zcfg.ErrorOutputPaths = []string{path}
	default:
		zcfg.OutputPaths = []string{"stderr"}
		zcfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// For returns a named child logger for category, or a no-op logger when the
// category is disabled in config.
func For(root *zap.Logger, cfg config.LoggingConfig, category Category) *zap.Logger {
	if root == nil || !cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return root.Named(string(category))
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}
