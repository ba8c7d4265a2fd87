package core

import (
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BillingPeriod is the invoicing period of a plan or subscription.
type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

func (p BillingPeriod) IsValid() bool {
	return p == BillingMonthly || p == BillingYearly
}

// Plan is a commercial offer companies subscribe to.
type Plan struct {
	shared.AuditedRecord
	Name          string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description   string          `gorm:"type:text;not null" json:"description" validate:"required"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	BillingPeriod BillingPeriod   `gorm:"type:varchar(20);not null" json:"billing_period" validate:"required,enum"`
	Features      datatypes.JSON  `json:"features"`
	Limits        datatypes.JSON  `json:"limits"`
	IsPublic      bool            `gorm:"not null" json:"is_public"`
	SortOrder     int             `gorm:"not null" json:"sort_order"`
}

func (Plan) TableName() string { return "plans" }

func (p *Plan) Defaults() {
	p.InitDefaults()
	p.IsPublic = true
	p.BillingPeriod = BillingMonthly
	p.Features = shared.EmptyObject()
	p.Limits = shared.EmptyObject()
}

var PlanRules = validation.Rules[Plan]{
	Fields: func(p *Plan, _ *validation.Env, errs *shared.ValidationError) {
		validation.NonNegative(errs, "price", p.Price)
		validation.Object(errs, "features", p.Features)
		validation.Object(errs, "limits", p.Limits)
	},
}

// ModuleType classifies a functional module.
type ModuleType string

const (
	ModuleTypeCore        ModuleType = "core"
	ModuleTypeAddon       ModuleType = "addon"
	ModuleTypeIntegration ModuleType = "integration"
)

func (t ModuleType) IsValid() bool {
	switch t {
	case ModuleTypeCore, ModuleTypeAddon, ModuleTypeIntegration:
		return true
	}
	return false
}

// Module is a functional area companies can enable.
type Module struct {
	shared.AuditedRecord
	Code           string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"code" validate:"required,max=100"`
	Name           string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description    string         `gorm:"type:text;not null" json:"description" validate:"required"`
	Type           ModuleType     `gorm:"type:varchar(50);not null" json:"type" validate:"required,enum"`
	Dependencies   datatypes.JSON `json:"dependencies"`
	SettingsSchema datatypes.JSON `json:"settings_schema"`
	Version        string         `gorm:"type:varchar(50);not null" json:"version" validate:"required,max=50"`
	IsRequired     bool           `gorm:"not null" json:"is_required"`
}

func (Module) TableName() string { return "modules" }

func (m *Module) Defaults() {
	m.InitDefaults()
	m.Type = ModuleTypeAddon
	m.Dependencies = shared.EmptyArray()
	m.SettingsSchema = shared.EmptyObject()
}

var ModuleRules = validation.Rules[Module]{
	Fields: func(m *Module, _ *validation.Env, errs *shared.ValidationError) {
		validation.Array(errs, "dependencies", m.Dependencies)
		validation.Object(errs, "settings_schema", m.SettingsSchema)
	},
	Unique: []validation.Unique[Module]{{
		Field:   "code",
		Columns: []string{"code"},
		Values:  func(m *Module) []any { return []any{m.Code} },
		Message: "A module with this code already exists.",
	}},
}
