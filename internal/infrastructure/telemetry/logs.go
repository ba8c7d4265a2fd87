package telemetry

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BridgeLogger returns a logger that writes to base and mirrors every
// entry at or above min to the OpenTelemetry log pipeline of provider.
// A nil provider returns base unchanged.
func BridgeLogger(base *zap.Logger, provider log.LoggerProvider, min zapcore.Level) *zap.Logger {
	if provider == nil {
		return base
	}
	otelCore := otelzap.NewCore(TracerName, otelzap.WithLoggerProvider(provider))
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, &levelCore{Core: otelCore, min: min})
	}))
}

// levelCore drops entries below min before they reach the wrapped core.
type levelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *levelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *levelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), min: c.min}
}
