package riverlight

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption adjusts the zap configuration used by NewLogger.
type LoggerOption func(*zap.Config)

// LoggerWithLevel sets the minimum level ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func LoggerWithLevel(level string) LoggerOption {
	return func(cfg *zap.Config) {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
}

// LoggerWithDevelopment switches to zap's human-readable console encoder.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return func(cfg *zap.Config) {
		if !dev {
			return
		}
		level := cfg.Level
		*cfg = zap.NewDevelopmentConfig()
		cfg.Level = level
	}
}

// LoggerWithFields attaches fields to every log line.
func LoggerWithFields(fields map[string]any) LoggerOption {
	return func(cfg *zap.Config) {
		if cfg.InitialFields == nil {
			cfg.InitialFields = map[string]any{}
		}
		for k, v := range fields {
			if k == "" {
				continue
			}
			cfg.InitialFields[k] = v
		}
	}
}

// NewLogger builds a production zap logger (JSON to stderr, info level)
// adjusted by opts.
func NewLogger(opts ...LoggerOption) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("riverlight: build logger: %w", err)
	}
	return log.Named("riverlight"), nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
