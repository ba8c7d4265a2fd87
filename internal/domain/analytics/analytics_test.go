package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/storetest"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var now = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func env(store *storetest.Store) *validation.Env {
	if store == nil {
		store = storetest.New()
	}
	return &validation.Env{
		Ctx:       context.Background(),
		Store:     store,
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Now:       now,
		Creating:  true,
	}
}

func violations(t *testing.T, err error) *shared.ValidationError {
	t.Helper()
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	return ve
}

func TestReportRules(t *testing.T) {
	r := &Report{Name: "Queries", ReportType: ReportCustom}
	r.Defaults()
	r.Template = datatypes.JSON(`{"chart":"bar"}`)

	ve := violations(t, ReportRules.Validate(r, env(nil)))
	assert.True(t, ve.Has(""))
	assert.Contains(t, ve.Error(), "custom query")

	r.Template = datatypes.JSON(`{"custom_query":"select 1"}`)
	assert.NoError(t, ReportRules.Validate(r, env(nil)))

	r.Template = shared.EmptyObject()
	assert.True(t, violations(t, ReportRules.Validate(r, env(nil))).Has("template"))
}

func TestReportExecutionRules(t *testing.T) {
	execution := func(status ExecutionStatus) *ReportExecution {
		e := &ReportExecution{ReportID: uuid.New(), StartTime: now}
		e.Defaults()
		e.Status = status
		e.ParametersUsed = datatypes.JSON(`{"month":6}`)
		return e
	}

	t.Run("completed requires an end time", func(t *testing.T) {
		ve := violations(t, ReportExecutionRules.Validate(execution(ExecutionCompleted), env(nil)))
		assert.Contains(t, ve.Error(), "End time is required for completed executions.")
	})

	t.Run("failed requires an error message", func(t *testing.T) {
		ve := violations(t, ReportExecutionRules.Validate(execution(ExecutionFailed), env(nil)))
		assert.Contains(t, ve.Error(), "Error message is required for failed executions.")
	})

	t.Run("end must follow start", func(t *testing.T) {
		e := execution(ExecutionCompleted)
		e.EndTime = &e.StartTime
		assert.True(t, violations(t, ReportExecutionRules.Validate(e, env(nil))).Has("end_time"))
	})

	t.Run("accepts a finished run", func(t *testing.T) {
		e := execution(ExecutionCompleted)
		end := now.Add(time.Minute)
		e.EndTime = &end
		assert.NoError(t, ReportExecutionRules.Validate(e, env(nil)))
	})

	t.Run("requires parameters", func(t *testing.T) {
		e := execution(ExecutionPending)
		e.ParametersUsed = shared.EmptyObject()
		assert.True(t, violations(t, ReportExecutionRules.Validate(e, env(nil))).Has("parameters_used"))
	})

	t.Run("stamps the executing user", func(t *testing.T) {
		e := execution(ExecutionPending)
		user := uuid.New()
		e.StampActor(user)
		assert.Equal(t, user, e.ExecutedByID)
	})
}

func TestDashboardRules(t *testing.T) {
	d := &Dashboard{Name: "Sales"}
	d.Defaults()
	assert.True(t, violations(t, DashboardRules.Validate(d, env(nil))).Has("layout"))
}

func TestAlertRules(t *testing.T) {
	metric := &Metric{MetricType: MetricPercentage}
	metric.ID = uuid.New()

	alert := func(threshold int64) *Alert {
		a := &Alert{Name: "Churn", MetricID: metric.ID}
		a.Defaults()
		a.Condition = datatypes.JSON(`{"op":">"}`)
		th := decimal.NewFromInt(threshold)
		a.Threshold = &th
		return a
	}

	t.Run("bounds percentage thresholds", func(t *testing.T) {
		ve := violations(t, AlertRules.Validate(alert(150), env(storetest.New(metric))))
		assert.True(t, ve.Has("threshold"))
	})

	t.Run("accepts a percentage in range", func(t *testing.T) {
		assert.NoError(t, AlertRules.Validate(alert(80), env(storetest.New(metric))))
	})

	t.Run("requires a threshold", func(t *testing.T) {
		a := alert(1)
		a.Threshold = nil
		assert.True(t, violations(t, AlertRules.Validate(a, env(nil))).Has("threshold"))
	})
}

func TestDataExportRules(t *testing.T) {
	rules := NewDataExportRules(func(dataType string) bool { return dataType == "customers" })
	export := func() *DataExport {
		d := &DataExport{Name: "Customers", DataType: "customers"}
		d.Defaults()
		return d
	}

	t.Run("accepts a one time export", func(t *testing.T) {
		assert.NoError(t, rules.Validate(export(), env(nil)))
	})

	t.Run("rejects an unknown data type", func(t *testing.T) {
		d := export()
		d.DataType = "passwords"
		assert.True(t, violations(t, rules.Validate(d, env(nil))).Has("data_type"))
	})

	t.Run("scheduled exports need a schedule", func(t *testing.T) {
		d := export()
		d.ExportType = ExportScheduled
		assert.True(t, violations(t, rules.Validate(d, env(nil))).Has("schedule"))
	})

	t.Run("api exports need a data source", func(t *testing.T) {
		d := export()
		d.ExportType = ExportAPI
		assert.True(t, violations(t, rules.Validate(d, env(nil))).Has("data_source"))
	})
}
