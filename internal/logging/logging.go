// Package logging builds the service's zap logger and request logging
// middleware.
package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the logger.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	Level       string
}

// New builds a JSON logger tagged with service, env and version. Development
// environments get console output.
func New(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Environment, "development") {
		zapCfg.Encoding = "console"
	}
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stdout"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	service := strings.TrimSpace(cfg.ServiceName)
	if service == "" {
		service = "orders-service"
	}

	return logger.With(
		zap.String("service", service),
		zap.String("env", cfg.Environment),
		zap.String("version", cfg.Version),
	), nil
}

type requestIDKey struct{}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext adds the request id from ctx to base.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}
