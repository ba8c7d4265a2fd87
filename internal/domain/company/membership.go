package company

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrial, SubscriptionPastDue, SubscriptionCancelled, SubscriptionExpired:
		return true
	}
	return false
}

// Subscription binds a company to a plan for a period.
type Subscription struct {
	shared.AuditedRecord
	shared.CompanyRef
	PlanID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"plan_id" validate:"required"`
	StartDate       time.Time          `gorm:"not null" json:"start_date" validate:"required"`
	EndDate         *time.Time         `json:"end_date,omitempty"`
	AutoRenew       bool               `gorm:"not null" json:"auto_renew"`
	Status          SubscriptionStatus `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	CurrentPrice    decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"current_price"`
	BillingCycle    core.BillingPeriod `gorm:"type:varchar(20);not null" json:"billing_cycle" validate:"required,enum"`
	PaymentInfo     datatypes.JSON     `json:"payment_info"`
	UsageMetrics    datatypes.JSON     `json:"usage_metrics"`
	LastBillingDate *time.Time         `json:"last_billing_date,omitempty"`
	CancelReason    string             `gorm:"type:text" json:"cancel_reason"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) Defaults() {
	s.InitDefaults()
	s.AutoRenew = true
	s.Status = SubscriptionTrial
	s.BillingCycle = core.BillingMonthly
	s.PaymentInfo = shared.EmptyObject()
	s.UsageMetrics = shared.EmptyObject()
}

func (s *Subscription) References() []shared.Reference {
	return []shared.Reference{shared.GlobalRef("plan_id", &core.Plan{}, &s.PlanID)}
}

var SubscriptionRules = validation.Rules[Subscription]{
	Fields: func(s *Subscription, _ *validation.Env, errs *shared.ValidationError) {
		validation.NonNegative(errs, "current_price", s.CurrentPrice)
		validation.Object(errs, "payment_info", s.PaymentInfo)
		validation.Object(errs, "usage_metrics", s.UsageMetrics)
	},
	Cross: func(s *Subscription, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "", &s.StartDate, s.EndDate, validation.MsgEndAfterStart)
	},
}

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberPending  MemberStatus = "pending"
)

func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberPending:
		return true
	}
	return false
}

type AccessLevel string

const (
	AccessAdmin   AccessLevel = "admin"
	AccessManager AccessLevel = "manager"
	AccessStaff   AccessLevel = "staff"
)

func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessAdmin, AccessManager, AccessStaff:
		return true
	}
	return false
}

// CompanyUser is the membership of a user in a company.
type CompanyUser struct {
	shared.AuditedRecord
	shared.CompanyRef
	UserID                  uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id" validate:"required"`
	JobTitle                string         `gorm:"type:varchar(100)" json:"job_title" validate:"max=100"`
	Department              string         `gorm:"type:varchar(100)" json:"department" validate:"max=100"`
	ContactInfo             datatypes.JSON `json:"contact_info"`
	Status                  MemberStatus   `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	SecuritySettings        datatypes.JSON `json:"security_settings"`
	NotificationPreferences datatypes.JSON `json:"notification_preferences"`
	PreferredLanguageID     *uuid.UUID     `gorm:"type:uuid" json:"preferred_language_id,omitempty"`
	AccessLevel             AccessLevel    `gorm:"type:varchar(50);not null" json:"access_level" validate:"required,enum"`
}

func (CompanyUser) TableName() string { return "company_users" }

func (m *CompanyUser) Defaults() {
	m.InitDefaults()
	m.Status = MemberPending
	m.AccessLevel = AccessStaff
	m.ContactInfo = shared.EmptyObject()
	m.SecuritySettings = shared.EmptyObject()
	m.NotificationPreferences = shared.EmptyObject()
}

func (m *CompanyUser) References() []shared.Reference {
	return []shared.Reference{
		shared.GlobalRef("user_id", &core.User{}, &m.UserID),
		shared.GlobalRef("preferred_language_id", &core.Language{}, m.PreferredLanguageID),
	}
}

var CompanyUserRules = validation.Rules[CompanyUser]{
	Fields: func(m *CompanyUser, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "contact_info", m.ContactInfo)
		validation.Object(errs, "security_settings", m.SecuritySettings)
		validation.Object(errs, "notification_preferences", m.NotificationPreferences)
	},
	Unique: []validation.Unique[CompanyUser]{{
		Columns:    []string{"user_id"},
		Values:     func(m *CompanyUser) []any { return []any{m.UserID} },
		PerCompany: true,
		Message:    "This user is already associated with the company.",
	}},
}

type ModuleStatus string

const (
	ModuleActive    ModuleStatus = "active"
	ModuleInactive  ModuleStatus = "inactive"
	ModulePending   ModuleStatus = "pending"
	ModuleSuspended ModuleStatus = "suspended"
)

func (s ModuleStatus) IsValid() bool {
	switch s {
	case ModuleActive, ModuleInactive, ModulePending, ModuleSuspended:
		return true
	}
	return false
}

// CompanyModule is a module enabled for a company.
type CompanyModule struct {
	shared.AuditedRecord
	shared.CompanyRef
	ModuleID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id" validate:"required"`
	Status          ModuleStatus   `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	ActivationDate  *time.Time     `json:"activation_date,omitempty"`
	ModuleSettings  datatypes.JSON `json:"module_settings"`
	UsageStatistics datatypes.JSON `json:"usage_statistics"`
	Version         string         `gorm:"type:varchar(50);not null" json:"version" validate:"required,max=50"`
	LastUsed        *time.Time     `json:"last_used,omitempty"`
}

func (CompanyModule) TableName() string { return "company_modules" }

func (m *CompanyModule) Defaults() {
	m.InitDefaults()
	m.Status = ModulePending
	m.ModuleSettings = shared.EmptyObject()
	m.UsageStatistics = shared.EmptyObject()
}

func (m *CompanyModule) References() []shared.Reference {
	return []shared.Reference{shared.GlobalRef("module_id", &core.Module{}, &m.ModuleID)}
}

var CompanyModuleRules = validation.Rules[CompanyModule]{
	Fields: func(m *CompanyModule, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "module_settings", m.ModuleSettings)
		validation.Object(errs, "usage_statistics", m.UsageStatistics)
	},
	Unique: []validation.Unique[CompanyModule]{{
		Columns:    []string{"module_id"},
		Values:     func(m *CompanyModule) []any { return []any{m.ModuleID} },
		PerCompany: true,
		Message:    "This module is already associated with the company.",
	}},
}
