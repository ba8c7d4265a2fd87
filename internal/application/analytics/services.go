// Package analytics wires reports, dashboards, metrics, alerts and data
// exports into resource services and runs data exports.
package analytics

import (
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/analytics"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "analytics"

// Services holds the resource services of the analytics group.
type Services struct {
	Reports    *resource.Service[analytics.Report]
	Executions *resource.Service[analytics.ReportExecution]
	Dashboards *resource.Service[analytics.Dashboard]
	Metrics    *resource.Service[analytics.Metric]
	Alerts     *resource.Service[analytics.Alert]
	Exports    *resource.Service[analytics.DataExport]
}

// NewServices builds the analytics services on store. Data exports may
// name any resource registered in reg.
func NewServices(store shared.Store, clock shared.Clock, reg *resource.Registry) *Services {
	return &Services{
		Reports: resource.New(resource.Descriptor[analytics.Report]{
			Group:      Group,
			Name:       "reports",
			Label:      "Report",
			Rules:      analytics.ReportRules,
			Sortable:   []string{"name", "report_type", "last_generated"},
			Search:     []string{"name", "description"},
			Filterable: []string{"report_type"},
		}, store, clock),
		Executions: resource.New(resource.Descriptor[analytics.ReportExecution]{
			Group:       Group,
			Name:        "report-executions",
			Label:       "Report execution",
			Rules:       analytics.ReportExecutionRules,
			Sortable:    []string{"start_time", "end_time", "status"},
			DefaultSort: "start_time",
			Filterable:  []string{"report_id", "status", "executed_by_id"},
		}, store, clock),
		Dashboards: resource.New(resource.Descriptor[analytics.Dashboard]{
			Group:       Group,
			Name:        "dashboards",
			Label:       "Dashboard",
			Rules:       analytics.DashboardRules,
			Sortable:    []string{"name"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"is_default"},
		}, store, clock),
		Metrics: resource.New(resource.Descriptor[analytics.Metric]{
			Group:       Group,
			Name:        "metrics",
			Label:       "Metric",
			Rules:       analytics.MetricRules,
			Sortable:    []string{"name", "metric_type", "last_updated"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"metric_type", "update_frequency"},
		}, store, clock),
		Alerts: resource.New(resource.Descriptor[analytics.Alert]{
			Group:      Group,
			Name:       "alerts",
			Label:      "Alert",
			Rules:      analytics.AlertRules,
			Sortable:   []string{"name", "severity", "last_triggered"},
			Search:     []string{"name", "description"},
			Filterable: []string{"metric_id", "severity"},
		}, store, clock),
		Exports: resource.New(resource.Descriptor[analytics.DataExport]{
			Group:      Group,
			Name:       "data-exports",
			Label:      "Data export",
			Rules:      analytics.NewDataExportRules(reg.Has),
			Sortable:   []string{"name", "data_type", "format", "last_exported"},
			Search:     []string{"name", "description", "data_type"},
			Filterable: []string{"data_type", "export_type", "format"},
		}, store, clock),
	}
}

// Register adds every analytics service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Reports)
	reg.Add(s.Executions)
	reg.Add(s.Dashboards)
	reg.Add(s.Metrics)
	reg.Add(s.Alerts)
	reg.Add(s.Exports)
}
