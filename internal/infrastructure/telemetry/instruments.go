package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of application metrics.
const MeterName = "bizsuite-backend"

// Instruments holds the application metric instruments.
type Instruments struct {
	httpRequests metric.Int64Counter
	httpDuration metric.Float64Histogram
	exportRuns   metric.Int64Counter
	exportRows   metric.Int64Counter
}

// NewInstruments creates the application instruments on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	var (
		in  Instruments
		err error
	)
	if in.httpRequests, err = meter.Int64Counter("http_server_requests_total",
		metric.WithDescription("HTTP requests handled"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if in.httpDuration, err = meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	); err != nil {
		return nil, err
	}
	if in.exportRuns, err = meter.Int64Counter("data_export_runs_total",
		metric.WithDescription("Data export runs by format and outcome"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, err
	}
	if in.exportRows, err = meter.Int64Counter("data_export_rows_total",
		metric.WithDescription("Rows written by data exports"),
		metric.WithUnit("{row}"),
	); err != nil {
		return nil, err
	}
	return &in, nil
}

// RecordHTTPRequest records one handled request. route is the matched
// route template, not the raw path.
func (in *Instruments) RecordHTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if in == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("http.response.status_code", strconv.Itoa(status)),
	)
	in.httpRequests.Add(ctx, 1, attrs)
	in.httpDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordExportRun records a data export run and the rows it wrote.
func (in *Instruments) RecordExportRun(ctx context.Context, format string, rows int, err error) {
	if in == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	in.exportRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("export.format", format),
		attribute.String("outcome", outcome),
	))
	if err == nil && rows > 0 {
		in.exportRows.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("export.format", format)))
	}
}
