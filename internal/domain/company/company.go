// Package company holds the tenant root and the records describing a
// company's subscription, members and enabled modules.
package company

import (
	"strings"

	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationInReview VerificationStatus = "in_review"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationInReview, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountCancelled AccountStatus = "cancelled"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountCancelled:
		return true
	}
	return false
}

// Company is the tenant root. Every company scoped record points at one.
type Company struct {
	shared.AuditedRecord
	OwnerID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"owner_id"`
	BusinessName       string             `gorm:"type:varchar(200);not null" json:"business_name" validate:"required,max=200"`
	TradingName        string             `gorm:"type:varchar(200)" json:"trading_name" validate:"max=200"`
	TaxID              string             `gorm:"type:varchar(50);not null;uniqueIndex" json:"tax_id" validate:"required,max=50"`
	RegistrationNumber string             `gorm:"type:varchar(50)" json:"registration_number" validate:"max=50"`
	LegalForm          string             `gorm:"type:varchar(100)" json:"legal_form" validate:"max=100"`
	ContactInfo        datatypes.JSON     `json:"contact_info"`
	Addresses          datatypes.JSON     `json:"addresses"`
	PrimaryLanguageID  *uuid.UUID         `gorm:"type:uuid" json:"primary_language_id,omitempty"`
	CompanySettings    datatypes.JSON     `json:"company_settings"`
	IsVerified         bool               `gorm:"not null" json:"is_verified"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(50);not null" json:"verification_status" validate:"required,enum"`
	AccountStatus      AccountStatus      `gorm:"type:varchar(50);not null" json:"account_status" validate:"required,enum"`
}

func (Company) TableName() string { return "companies" }

func (c *Company) Defaults() {
	c.InitDefaults()
	c.ContactInfo = shared.EmptyObject()
	c.Addresses = shared.EmptyObject()
	c.CompanySettings = shared.EmptyObject()
	c.VerificationStatus = VerificationPending
	c.AccountStatus = AccountActive
}

func (c *Company) Normalize() {
	c.TaxID = strings.TrimSpace(c.TaxID)
	c.BusinessName = strings.TrimSpace(c.BusinessName)
}

// StampActor makes the acting user the owner.
func (c *Company) StampActor(user uuid.UUID) {
	c.OwnerID = user
}

func (c *Company) References() []shared.Reference {
	return []shared.Reference{
		shared.GlobalRef("primary_language_id", &core.Language{}, c.PrimaryLanguageID),
	}
}

var CompanyRules = validation.Rules[Company]{
	Fields: func(c *Company, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "contact_info", c.ContactInfo)
		validation.Object(errs, "addresses", c.Addresses)
		validation.Object(errs, "company_settings", c.CompanySettings)
	},
	Unique: []validation.Unique[Company]{{
		Field:   "tax_id",
		Columns: []string{"tax_id"},
		Values:  func(c *Company) []any { return []any{c.TaxID} },
		Message: "A company with this tax ID already exists.",
	}},
}

// StatusHistoryStatus is the account status recorded in the history.
type StatusHistoryStatus string

const (
	HistoryActive    StatusHistoryStatus = "active"
	HistoryInactive  StatusHistoryStatus = "inactive"
	HistoryPending   StatusHistoryStatus = "pending"
	HistorySuspended StatusHistoryStatus = "suspended"
	HistoryCancelled StatusHistoryStatus = "cancelled"
)

func (s StatusHistoryStatus) IsValid() bool {
	switch s {
	case HistoryActive, HistoryInactive, HistoryPending, HistorySuspended, HistoryCancelled:
		return true
	}
	return false
}

// StatusHistory is one change of a company's account status.
type StatusHistory struct {
	shared.AuditedRecord
	shared.CompanyRef
	Status      StatusHistoryStatus `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	ChangedByID *uuid.UUID          `gorm:"type:uuid" json:"changed_by_id,omitempty"`
	Reason      string              `gorm:"type:text" json:"reason"`
}

func (StatusHistory) TableName() string { return "company_status_histories" }

func (h *StatusHistory) Defaults() {
	h.InitDefaults()
	h.Status = HistoryActive
}

// StampActor records the acting user as the author of the change.
func (h *StatusHistory) StampActor(user uuid.UUID) {
	h.ChangedByID = &user
}

var StatusHistoryRules = validation.Rules[StatusHistory]{}
