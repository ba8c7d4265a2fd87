package analytics

import (
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"gorm.io/datatypes"
)

type ExportType string

const (
	ExportOneTime   ExportType = "one_time"
	ExportScheduled ExportType = "scheduled"
	ExportAPI       ExportType = "api"
)

func (t ExportType) IsValid() bool {
	return t == ExportOneTime || t == ExportScheduled || t == ExportAPI
}

type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatJSON  ExportFormat = "json"
	FormatExcel ExportFormat = "excel"
	FormatPDF   ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatExcel, FormatPDF:
		return true
	}
	return false
}

// DataExport describes an extract of company records. FileKey and
// LastExported are written by the export runner.
type DataExport struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name         string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description  string         `gorm:"type:text" json:"description"`
	DataType     string         `gorm:"type:varchar(100);not null" json:"data_type" validate:"required,max=100"`
	ExportType   ExportType     `gorm:"type:varchar(50);not null" json:"export_type" validate:"required,enum"`
	DataSource   string         `gorm:"type:varchar(200)" json:"data_source" validate:"max=200"`
	Filters      datatypes.JSON `json:"filters"`
	Columns      datatypes.JSON `json:"columns"`
	Format       ExportFormat   `gorm:"type:varchar(20);not null" json:"format" validate:"required,enum"`
	Schedule     datatypes.JSON `json:"schedule"`
	Recipients   datatypes.JSON `json:"recipients"`
	LastExported *time.Time     `json:"last_exported,omitempty"`
	FileKey      string         `gorm:"type:varchar(500)" json:"file_key"`
}

func (DataExport) TableName() string { return "data_exports" }

func (d *DataExport) Defaults() {
	d.InitDefaults()
	d.ExportType = ExportOneTime
	d.Format = FormatCSV
	d.Filters = shared.EmptyObject()
	d.Columns = shared.EmptyArray()
	d.Schedule = shared.EmptyObject()
	d.Recipients = shared.EmptyArray()
}

func (d *DataExport) Normalize() {
	d.DataType = strings.TrimSpace(d.DataType)
}

// NewDataExportRules builds the rule table of DataExport. exportable
// reports whether a data type can be extracted.
func NewDataExportRules(exportable func(dataType string) bool) validation.Rules[DataExport] {
	return validation.Rules[DataExport]{
		Fields: func(d *DataExport, _ *validation.Env, errs *shared.ValidationError) {
			if d.DataType != "" && exportable != nil && !exportable(d.DataType) {
				errs.Field("data_type", "Select a valid choice. %s is not one of the available choices.", d.DataType)
			}
			validation.ObjectWith(errs, "filters", d.Filters, "Filters must be a valid JSON object.")
			validation.ArrayWith(errs, "columns", d.Columns, "Columns must be a valid JSON array.")
			validation.ObjectWith(errs, "schedule", d.Schedule, "Schedule must be a valid JSON object.")
			validation.ArrayWith(errs, "recipients", d.Recipients, "Recipients must be a valid JSON array.")
		},
		Cross: func(d *DataExport, _ *validation.Env, errs *shared.ValidationError) {
			if d.ExportType == ExportScheduled && !errs.Has("schedule") {
				if schedule, _ := shared.ParseJSON(d.Schedule); schedule.Empty() {
					errs.Field("schedule", "Schedule is required for scheduled exports.")
				}
			}
			if d.ExportType == ExportAPI && strings.TrimSpace(d.DataSource) == "" {
				errs.Field("data_source", "Data source is required for API exports.")
			}
		},
	}
}
