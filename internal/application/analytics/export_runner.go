package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/analytics"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/export"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ObjectStorage keeps rendered export files.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ExportResult describes one run of a data export.
type ExportResult struct {
	ExportID    uuid.UUID `json:"export_id"`
	FileKey     string    `json:"file_key"`
	Rows        int       `json:"rows"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExportRunner extracts the records named by a data export, renders
// them in the export's format and stores the file.
type ExportRunner struct {
	exports   *resource.Service[analytics.DataExport]
	registry  *resource.Registry
	store     shared.Store
	storage   ObjectStorage
	renderers map[string]export.Renderer
	metrics   *telemetry.Instruments
	now       shared.Clock
}

// NewExportRunner creates a runner. Sources are looked up in reg.
func NewExportRunner(exports *resource.Service[analytics.DataExport], reg *resource.Registry, store shared.Store, storage ObjectStorage, clock shared.Clock) *ExportRunner {
	if clock == nil {
		clock = shared.SystemClock
	}
	return &ExportRunner{
		exports:   exports,
		registry:  reg,
		store:     store,
		storage:   storage,
		renderers: export.Renderers(),
		now:       clock,
	}
}

// WithMetrics makes the runner count runs and exported rows.
func (r *ExportRunner) WithMetrics(in *telemetry.Instruments) *ExportRunner {
	r.metrics = in
	return r
}

// Run executes the export with id for the acting company and returns a
// download link to the produced file.
func (r *ExportRunner) Run(ctx context.Context, p shared.Principal, id uuid.UUID) (result *ExportResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "data_export.run", attribute.String("export.id", id.String()))
	format := "unknown"
	defer func() {
		rows := 0
		if result != nil {
			rows = result.Rows
		}
		r.metrics.RecordExportRun(ctx, format, rows, err)
		telemetry.EndSpan(span, err)
	}()

	companyID, err := p.RequireCompany()
	if err != nil {
		return nil, err
	}
	exp, err := r.exports.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	source, ok := r.registry.Get(exp.DataType)
	if !ok {
		return nil, shared.FieldError("data_type", "Select a valid choice. %s is not one of the available choices.", exp.DataType)
	}
	format = string(exp.Format)
	span.SetAttributes(attribute.String("export.format", format), attribute.String("export.data_type", exp.DataType))
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, shared.FieldError("format", "Select a valid choice. %s is not one of the available choices.", exp.Format)
	}

	rows, err := r.collect(ctx, p, source, exp)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   exp.Name,
		Columns: columnsOf(exp, rows),
		Rows:    rows,
	}
	doc, err := renderer.Render(table)
	if err != nil {
		return nil, fmt.Errorf("render export %s: %w", exp.ID, err)
	}

	now := r.now()
	key := fmt.Sprintf("exports/%s/%s/%s.%s", companyID, exp.ID, now.UTC().Format("20060102T150405Z"), doc.Extension)
	if err := r.storage.Upload(ctx, key, doc.Data, doc.ContentType); err != nil {
		return nil, err
	}

	values := map[string]any{"file_key": key, "last_exported": now, "updated_at": now}
	if p.UserID != uuid.Nil {
		values["updated_by"] = p.UserID
	}
	if err := r.store.UpdateColumns(ctx, &analytics.DataExport{}, values,
		shared.Eq("id", exp.ID), shared.Eq("company_id", companyID)); err != nil {
		return nil, err
	}

	url, expiresAt, err := r.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("data export completed",
		zap.String("export_id", exp.ID.String()),
		zap.String("data_type", exp.DataType),
		zap.String("format", string(exp.Format)),
		zap.Int("rows", len(rows)),
	)
	return &ExportResult{
		ExportID:    exp.ID,
		FileKey:     key,
		Rows:        len(rows),
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

// collect pages through every record of source visible to p.
func (r *ExportRunner) collect(ctx context.Context, p shared.Principal, source resource.Lister, exp *analytics.DataExport) ([]map[string]any, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = shared.MaxPageSize
	if len(exp.Filters) > 0 {
		if err := json.Unmarshal(exp.Filters, &filter.Filters); err != nil {
			return nil, shared.FieldError("filters", "Filters must be a valid JSON object.")
		}
	}

	var rows []map[string]any
	for {
		records, total, err := source.ListRecords(ctx, p, filter)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			row, err := toRow(rec)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if len(records) == 0 || int64(len(rows)) >= total {
			return rows, nil
		}
		filter.Page++
	}
}

func toRow(rec any) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	row := map[string]any{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return row, nil
}

// columnsOf returns the configured columns, or every field of the
// extracted records with id first.
func columnsOf(exp *analytics.DataExport, rows []map[string]any) []string {
	var configured []any
	_ = json.Unmarshal(exp.Columns, &configured)
	var cols []string
	for _, c := range configured {
		if s, ok := c.(string); ok && s != "" {
			cols = append(cols, s)
		}
	}
	if len(cols) > 0 {
		return cols
	}

	seen := map[string]bool{"id": true}
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return append([]string{"id"}, cols...)
}
