package observ

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "interskill"

// NewLogger builds the process logger.
//
// production: JSON, ISO8601 "ts", sampling, stack traces from error up.
// anything else: colored console output, stack traces from warn up.
//
// An empty or unknown level means info. Every entry carries service and env.
func NewLogger(env, level string) (*zap.Logger, error) {
	cfg, opts := consoleConfig()
	if env == "production" {
		cfg, opts = jsonConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build %s logger: %w", env, err)
	}
	return logger.With(zap.String("service", serviceName), zap.String("env", env)), nil
}

func jsonConfig() (zap.Config, []zap.Option) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg, []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
}

func consoleConfig() (zap.Config, []zap.Option) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	return cfg, []zap.Option{zap.AddStacktrace(zapcore.WarnLevel)}
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
