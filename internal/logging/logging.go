// Package logging builds folio's zap loggers and the gin middleware that
// writes request and panic logs through them.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BootstrapLogger covers config loading, before log_level is known.
func BootstrapLogger() *zap.Logger {
	logger, err := config("info", "dev").Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("boot")
}

// ParseLevel maps a log_level setting onto a zap level, ignoring case.
func ParseLevel(level string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
}

// New builds the site logger. Env "prod" logs JSON, anything else logs for
// a terminal. Every entry carries the env it came from.
func New(level, env string) (*zap.Logger, error) {
	if _, err := ParseLevel(level); err != nil {
		return nil, err
	}
	return config(level, env).Build(zap.Fields(zap.String("env", env)))
}

func config(level, env string) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if lvl, err := ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg
}
