package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p.Tracer)
	assert.Nil(t, p.Meter)
	assert.Nil(t, p.Logs)
	assert.NotNil(t, p.MeterOrNoop(MeterName))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_ShutdownNil(t *testing.T) {
	var p *Providers
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NotNil(t, p.MeterOrNoop(MeterName))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.0, "root:AlwaysOnSampler"},
		{2.0, "root:AlwaysOnSampler"},
		{0, "root:AlwaysOffSampler"},
		{0.25, "root:TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, newSampler(tt.ratio).Description(), tt.want)
	}
}

func TestStartSpan_RecordsAttributesAndErrors(t *testing.T) {
	sr := setupTracer(t)

	ctx, span := StartSpan(context.Background(), "data_export.run", attribute.String("export.format", "csv"))
	assert.NotEmpty(t, TraceID(ctx))
	EndSpan(span, errors.New("bucket missing"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "data_export.run", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "bucket missing", spans[0].Status().Description)
	assert.Contains(t, spans[0].Attributes(), attribute.String("export.format", "csv"))
	require.Len(t, spans[0].Events(), 1)
}

func TestStartSpan_SuccessLeavesStatusUnset(t *testing.T) {
	sr := setupTracer(t)

	_, span := StartSpan(context.Background(), "ok")
	EndSpan(span, nil)

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, codes.Unset, sr.Ended()[0].Status().Code)
}

func TestTraceID_EmptyWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	in, err := NewInstruments(mp.Meter(MeterName))
	require.NoError(t, err)
	ctx := context.Background()

	in.RecordHTTPRequest(ctx, "GET", "/api/v1/marketing/campaigns", 200, 30*time.Millisecond)
	in.RecordHTTPRequest(ctx, "POST", "/api/v1/marketing/campaigns", 422, 5*time.Millisecond)
	in.RecordExportRun(ctx, "csv", 12, nil)
	in.RecordExportRun(ctx, "excel", 0, errors.New("boom"))

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics["http_server_requests_total"]))
	assert.Equal(t, int64(2), sumOf(t, metrics["data_export_runs_total"]))
	assert.Equal(t, int64(12), sumOf(t, metrics["data_export_rows_total"]))

	hist, ok := metrics["http_server_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestInstruments_NilIsNoop(t *testing.T) {
	var in *Instruments
	in.RecordHTTPRequest(context.Background(), "GET", "/", 200, time.Millisecond)
	in.RecordExportRun(context.Background(), "csv", 1, nil)
}

type widget struct {
	ID   uint
	Name string
}

func TestInstrumentDB(t *testing.T) {
	sr := setupTracer(t)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&widget{}))

	core, logs := observer.New(zapcore.WarnLevel)
	cfg := DBConfig{Tracing: true, DBSystem: "sqlite", SlowQueryThreshold: time.Nanosecond}
	require.NoError(t, InstrumentDB(db, cfg, mp.Meter("db.client"), zap.New(core)))

	require.NoError(t, db.Create(&widget{Name: "bolt"}).Error)
	var got []widget
	require.NoError(t, db.Find(&got).Error)
	var n int64
	require.NoError(t, db.Raw("SELECT count(*) FROM widgets").Scan(&n).Error)

	metrics := collect(t, reader)
	assert.Equal(t, int64(3), sumOf(t, metrics["db_client_queries_total"]))
	assert.Equal(t, int64(3), sumOf(t, metrics["db_client_slow_queries_total"]))
	assert.Contains(t, metrics, "db_client_connections_max")
	assert.Equal(t, 3, logs.FilterMessage("Slow query").Len())
	assert.NotEmpty(t, sr.Ended())
}

func TestOperationOf(t *testing.T) {
	assert.Equal(t, "SELECT", operationOf("  select 1"))
	assert.Equal(t, "DELETE", operationOf("DELETE FROM x"))
	assert.Equal(t, "OTHER", operationOf("PRAGMA foreign_keys"))
}

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestBridgeLogger(t *testing.T) {
	exporter := &memoryExporter{}
	lp := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, local := observer.New(zapcore.DebugLevel)
	logger := BridgeLogger(zap.New(core), lp, zapcore.InfoLevel)

	logger.Debug("cache miss")
	logger.Info("export stored", zap.String("format", "csv"))
	logger.Warn("slow query")

	assert.Equal(t, 3, local.Len())
	assert.Equal(t, []string{"export stored", "slow query"}, exporter.bodies())
}

func TestBridgeLogger_NilProvider(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, BridgeLogger(base, nil, zapcore.InfoLevel))
}
