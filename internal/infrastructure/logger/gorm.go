package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger writes GORM messages to zap with the request fields carried
// by the statement context. Slow statements are counted and logged by the
// telemetry callbacks; Trace reports failures and, at Info level, every
// statement.
type GormLogger struct {
	logger       *zap.Logger
	logLevel     gormlogger.LogLevel
	expected     []error
	maxSQLLength int
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithExpectedErrors logs statements failing with one of errs at debug
// level. Lookups that miss and translated constraint violations are
// expected by default: the store reports them to callers as domain errors.
func WithExpectedErrors(errs ...error) GormLoggerOption {
	return func(l *GormLogger) {
		l.expected = errs
	}
}

// WithMaxSQLLength truncates logged statements to n bytes; zero keeps
// them whole.
func WithMaxSQLLength(n int) GormLoggerOption {
	return func(l *GormLogger) {
		l.maxSQLLength = n
	}
}

// NewGormLogger creates a GORM logger backed by zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:   zapLogger.Named("gorm"),
		logLevel: level,
		expected: []error{
			gorm.ErrRecordNotFound,
			gorm.ErrDuplicatedKey,
			gorm.ErrForeignKeyViolated,
			gorm.ErrCheckConstraintViolated,
		},
		maxSQLLength: 2048,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, data...), Fields(ctx)...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, data...), Fields(ctx)...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, data...), Fields(ctx)...)
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}
	failed := err != nil && l.logLevel >= gormlogger.Error
	if !failed && l.logLevel < gormlogger.Info {
		return
	}

	sql, rows := fc()
	if l.maxSQLLength > 0 && len(sql) > l.maxSQLLength {
		sql = sql[:l.maxSQLLength] + "..."
	}
	fields := append([]zap.Field{
		zap.Duration("elapsed", time.Since(begin)),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}, Fields(ctx)...)

	switch {
	case failed && l.isExpected(err):
		l.logger.Debug("SQL statement rejected", append(fields, zap.Error(err))...)
	case failed:
		l.logger.Error("SQL error", append(fields, zap.Error(err))...)
	default:
		l.logger.Debug("SQL query", fields...)
	}
}

func (l *GormLogger) isExpected(err error) bool {
	for _, e := range l.expected {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// MapGormLogLevel maps the application log level to a GORM log level.
// Debug enables query logging, info keeps GORM at warnings.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
