package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startedAtKey = "telemetry:started_at"

// DBConfig controls database instrumentation.
type DBConfig struct {
	// Tracing registers the otelgorm plugin.
	Tracing bool
	// DBSystem names the database in spans, e.g. "postgresql".
	DBSystem string
	// LogFullSQL keeps query variables in span attributes.
	LogFullSQL bool
	// SlowQueryThreshold logs statements slower than it; zero disables.
	SlowQueryThreshold time.Duration
}

type dbInstruments struct {
	queries  metric.Int64Counter
	duration metric.Float64Histogram
	slow     metric.Int64Counter
	cfg      DBConfig
	logger   *zap.Logger
}

// InstrumentDB registers tracing, query metrics and connection pool gauges
// on db.
func InstrumentDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) error {
	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	ins := &dbInstruments{cfg: cfg, logger: logger}
	var err error
	if ins.queries, err = meter.Int64Counter("db_client_queries_total",
		metric.WithDescription("Database statements by operation, table and outcome"),
		metric.WithUnit("{statement}"),
	); err != nil {
		return err
	}
	if ins.duration, err = meter.Float64Histogram("db_client_query_duration_seconds",
		metric.WithDescription("Database statement latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	); err != nil {
		return err
	}
	if ins.slow, err = meter.Int64Counter("db_client_slow_queries_total",
		metric.WithDescription("Database statements slower than the configured threshold"),
		metric.WithUnit("{statement}"),
	); err != nil {
		return err
	}
	if err := ins.registerCallbacks(db); err != nil {
		return err
	}
	if err := registerPoolGauges(db, meter); err != nil {
		return err
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
		zap.String("db_system", cfg.DBSystem),
	)
	return nil
}

func (ins *dbInstruments) registerCallbacks(db *gorm.DB) error {
	before := func(tx *gorm.DB) { tx.InstanceSet(startedAtKey, time.Now()) }
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) { ins.record(tx, operation) }
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", after("INSERT")),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", after("SELECT")),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", after("UPDATE")),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after("DELETE")),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", before),
		cb.Row().After("gorm:row").Register("telemetry:after_row", after("")),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after("")),
	}
	for _, err := range registrations {
		if err != nil {
			return err
		}
	}
	return nil
}

func (ins *dbInstruments) record(tx *gorm.DB, operation string) {
	started, ok := tx.InstanceGet(startedAtKey)
	if !ok {
		return
	}
	elapsed := time.Since(started.(time.Time))
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if operation == "" {
		operation = operationOf(tx.Statement.SQL.String())
	}

	outcome := "success"
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("db.operation.name", operation),
		attribute.String("db.collection.name", tx.Statement.Table),
		attribute.String("outcome", outcome),
	)
	ins.queries.Add(ctx, 1, attrs)
	ins.duration.Record(ctx, elapsed.Seconds(), attrs)

	if ins.cfg.SlowQueryThreshold > 0 && elapsed >= ins.cfg.SlowQueryThreshold {
		ins.slow.Add(ctx, 1, metric.WithAttributes(
			attribute.String("db.operation.name", operation),
			attribute.String("db.collection.name", tx.Statement.Table),
		))
		ins.logger.Warn("Slow query",
			zap.String("operation", operation),
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.String("trace_id", TraceID(ctx)),
		)
	}
}

func operationOf(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	return "OTHER"
}

func registerPoolGauges(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conns, err := meter.Int64ObservableGauge("db_client_connections",
		metric.WithDescription("Open database connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db_client_connections_max",
		metric.WithDescription("Maximum open database connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(attribute.String("state", "used")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(attribute.String("state", "idle")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		return nil
	}, conns, maxConns)
	return err
}
