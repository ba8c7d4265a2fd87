// Package analytics holds reports and their executions, dashboards,
// metrics, alerts and data exports.
package analytics

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportType string

const (
	ReportSales      ReportType = "sales"
	ReportFinancial  ReportType = "financial"
	ReportMarketing  ReportType = "marketing"
	ReportOperations ReportType = "operations"
	ReportCustom     ReportType = "custom"
)

func (t ReportType) IsValid() bool {
	switch t {
	case ReportSales, ReportFinancial, ReportMarketing, ReportOperations, ReportCustom:
		return true
	}
	return false
}

// Report is a saved report definition.
type Report struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name          string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description   string         `gorm:"type:text" json:"description"`
	ReportType    ReportType     `gorm:"type:varchar(50);not null" json:"report_type" validate:"required,enum"`
	Template      datatypes.JSON `json:"template"`
	Parameters    datatypes.JSON `json:"parameters"`
	Schedule      datatypes.JSON `json:"schedule"`
	Recipients    datatypes.JSON `json:"recipients"`
	LastGenerated *time.Time     `json:"last_generated,omitempty"`
}

func (Report) TableName() string { return "reports" }

func (r *Report) Defaults() {
	r.InitDefaults()
	r.Template = shared.EmptyObject()
	r.Parameters = shared.EmptyObject()
	r.Schedule = shared.EmptyObject()
	r.Recipients = shared.EmptyArray()
}

var ReportRules = validation.Rules[Report]{
	Fields: func(r *Report, _ *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "template", r.Template)
		validation.ObjectWith(errs, "parameters", r.Parameters, "Parameters must be a valid JSON object.")
		validation.ObjectWith(errs, "schedule", r.Schedule, "Schedule must be a valid JSON object.")
		validation.ArrayWith(errs, "recipients", r.Recipients, "Recipients must be a valid JSON array.")
	},
	Cross: func(r *Report, _ *validation.Env, errs *shared.ValidationError) {
		if r.ReportType != ReportCustom || errs.Has("template") {
			return
		}
		template, _ := shared.ParseJSON(r.Template)
		if !template.HasKey("custom_query") {
			errs.Form("Custom reports must include a custom query in the template.")
		}
	},
}

type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

func (s ExecutionStatus) IsValid() bool {
	switch s {
	case ExecutionPending, ExecutionRunning, ExecutionCompleted, ExecutionFailed:
		return true
	}
	return false
}

// ReportExecution is one run of a report. ExecutedByID is the acting
// user.
type ReportExecution struct {
	shared.AuditedRecord
	shared.CompanyRef
	ReportID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"report_id" validate:"required"`
	ExecutedByID   uuid.UUID       `gorm:"type:uuid;not null" json:"executed_by_id"`
	StartTime      time.Time       `gorm:"not null" json:"start_time" validate:"required"`
	EndTime        *time.Time      `json:"end_time,omitempty"`
	Status         ExecutionStatus `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	ParametersUsed datatypes.JSON  `json:"parameters_used"`
	ResultData     datatypes.JSON  `json:"result_data"`
	ErrorMessage   string          `gorm:"type:text" json:"error_message"`
	FileOutput     datatypes.JSON  `json:"file_output"`
}

func (ReportExecution) TableName() string { return "report_executions" }

func (e *ReportExecution) Defaults() {
	e.InitDefaults()
	e.Status = ExecutionPending
	e.ParametersUsed = shared.EmptyObject()
	e.FileOutput = shared.EmptyObject()
}

func (e *ReportExecution) StampActor(user uuid.UUID) { e.ExecutedByID = user }

func (e *ReportExecution) References() []shared.Reference {
	return []shared.Reference{shared.Ref("report_id", &Report{}, &e.ReportID)}
}

var ReportExecutionRules = validation.Rules[ReportExecution]{
	Fields: func(e *ReportExecution, _ *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "parameters_used", e.ParametersUsed)
		validation.ObjectWith(errs, "result_data", e.ResultData, "Result data must be a valid JSON object.")
		validation.ObjectWith(errs, "file_output", e.FileOutput, "File output must be a valid JSON object.")
	},
	Cross: func(e *ReportExecution, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "end_time", &e.StartTime, e.EndTime, "End time must be after start time.")
		if e.Status == ExecutionCompleted && e.EndTime == nil {
			errs.Form("End time is required for completed executions.")
		}
		if e.Status == ExecutionFailed && e.ErrorMessage == "" {
			errs.Form("Error message is required for failed executions.")
		}
	},
}

// Dashboard is a layout of widgets.
type Dashboard struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name        string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description string         `gorm:"type:text" json:"description"`
	Layout      datatypes.JSON `json:"layout"`
	Widgets     datatypes.JSON `json:"widgets"`
	Permissions datatypes.JSON `json:"permissions"`
	IsDefault   bool           `gorm:"not null" json:"is_default"`
}

func (Dashboard) TableName() string { return "dashboards" }

func (d *Dashboard) Defaults() {
	d.InitDefaults()
	d.Widgets = shared.EmptyArray()
	d.Permissions = shared.EmptyObject()
}

var DashboardRules = validation.Rules[Dashboard]{
	Fields: func(d *Dashboard, _ *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "layout", d.Layout)
		validation.Array(errs, "widgets", d.Widgets)
		validation.Object(errs, "permissions", d.Permissions)
	},
}
