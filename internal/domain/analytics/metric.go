package analytics

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MetricType string

const (
	MetricCount      MetricType = "count"
	MetricSum        MetricType = "sum"
	MetricAverage    MetricType = "average"
	MetricPercentage MetricType = "percentage"
	MetricCustom     MetricType = "custom"
)

func (t MetricType) IsValid() bool {
	switch t {
	case MetricCount, MetricSum, MetricAverage, MetricPercentage, MetricCustom:
		return true
	}
	return false
}

type UpdateFrequency string

const (
	UpdateRealtime UpdateFrequency = "realtime"
	UpdateHourly   UpdateFrequency = "hourly"
	UpdateDaily    UpdateFrequency = "daily"
	UpdateWeekly   UpdateFrequency = "weekly"
	UpdateMonthly  UpdateFrequency = "monthly"
)

func (f UpdateFrequency) IsValid() bool {
	switch f {
	case UpdateRealtime, UpdateHourly, UpdateDaily, UpdateWeekly, UpdateMonthly:
		return true
	}
	return false
}

// Metric is a computed business indicator.
type Metric struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name            string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description     string          `gorm:"type:text" json:"description"`
	MetricType      MetricType      `gorm:"type:varchar(50);not null" json:"metric_type" validate:"required,enum"`
	Calculation     datatypes.JSON  `json:"calculation"`
	Dimensions      datatypes.JSON  `json:"dimensions"`
	Filters         datatypes.JSON  `json:"filters"`
	UpdateFrequency UpdateFrequency `gorm:"type:varchar(50);not null" json:"update_frequency" validate:"required,enum"`
	LastUpdated     *time.Time      `json:"last_updated,omitempty"`
}

func (Metric) TableName() string { return "metrics" }

func (m *Metric) Defaults() {
	m.InitDefaults()
	m.UpdateFrequency = UpdateDaily
	m.Dimensions = shared.EmptyArray()
	m.Filters = shared.EmptyObject()
}

var MetricRules = validation.Rules[Metric]{
	Fields: func(m *Metric, _ *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "calculation", m.Calculation)
		validation.ArrayWith(errs, "dimensions", m.Dimensions, "Dimensions must be a valid JSON array.")
		validation.ObjectWith(errs, "filters", m.Filters, "Filters must be a valid JSON object.")
	},
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityCritical
}

// Alert fires when a metric meets its condition.
type Alert struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name                 string           `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description          string           `gorm:"type:text" json:"description"`
	MetricID             uuid.UUID        `gorm:"type:uuid;not null;index" json:"metric_id" validate:"required"`
	Condition            datatypes.JSON   `json:"condition"`
	Threshold            *decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"threshold"`
	Severity             Severity         `gorm:"type:varchar(50);not null" json:"severity" validate:"required,enum"`
	NotificationChannels datatypes.JSON   `json:"notification_channels"`
	LastTriggered        *time.Time       `json:"last_triggered,omitempty"`
}

func (Alert) TableName() string { return "alerts" }

func (a *Alert) Defaults() {
	a.InitDefaults()
	a.Severity = SeverityWarning
	a.NotificationChannels = shared.EmptyArray()
}

func (a *Alert) References() []shared.Reference {
	return []shared.Reference{shared.Ref("metric_id", &Metric{}, &a.MetricID)}
}

var AlertRules = validation.Rules[Alert]{
	Fields: func(a *Alert, _ *validation.Env, errs *shared.ValidationError) {
		validation.RequiredObject(errs, "condition", a.Condition)
		if a.Threshold == nil {
			errs.Field("threshold", "Threshold value is required.")
		}
		validation.ArrayWith(errs, "notification_channels", a.NotificationChannels, "Recipients must be a valid JSON array.")
	},
	Stored: func(a *Alert, env *validation.Env, errs *shared.ValidationError) error {
		var m Metric
		err := env.Store.First(env.Ctx, &m, env.Scope(), shared.Eq("id", a.MetricID))
		if shared.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if m.MetricType == MetricPercentage &&
			(a.Threshold.IsNegative() || a.Threshold.GreaterThan(decimal.NewFromInt(100))) {
			errs.Field("threshold", "Threshold for percentage metrics must be between 0 and 100.")
		}
		return nil
	},
}
