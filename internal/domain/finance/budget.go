package finance

import (
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BudgetStatus string

const (
	BudgetDraft  BudgetStatus = "draft"
	BudgetActive BudgetStatus = "active"
	BudgetClosed BudgetStatus = "closed"
)

func (s BudgetStatus) IsValid() bool {
	return s == BudgetDraft || s == BudgetActive || s == BudgetClosed
}

// Budget caps the spend of a company over a period.
type Budget struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name        string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	PeriodStart time.Time       `gorm:"not null" json:"period_start" validate:"required"`
	PeriodEnd   time.Time       `gorm:"not null" json:"period_end" validate:"required"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_budget"`
	Categories  datatypes.JSON  `json:"categories"`
	ActualSpend decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"actual_spend"`
	Status      BudgetStatus    `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	Notes       string          `gorm:"type:text" json:"notes"`
}

func (Budget) TableName() string { return "budgets" }

func (b *Budget) Defaults() {
	b.InitDefaults()
	b.Status = BudgetDraft
	b.Categories = shared.EmptyObject()
}

var BudgetRules = validation.Rules[Budget]{
	Fields: func(b *Budget, _ *validation.Env, errs *shared.ValidationError) {
		if !b.TotalBudget.IsPositive() {
			errs.Field("total_budget", "Total amount must be greater than zero.")
		}
		validation.NonNegative(errs, "actual_spend", b.ActualSpend)
		validation.Object(errs, "categories", b.Categories)
	},
	Cross: func(b *Budget, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "period_end", &b.PeriodStart, &b.PeriodEnd, validation.MsgEndAfterStart)
	},
}

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
	ExpensePaid     ExpenseStatus = "paid"
)

func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpenseRejected, ExpensePaid:
		return true
	}
	return false
}

// Expense is a spend submitted by a member for approval.
type Expense struct {
	shared.AuditedRecord
	shared.CompanyRef
	Description   string          `gorm:"type:varchar(200);not null" json:"description" validate:"required,max=200"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(3);not null" json:"currency" validate:"required"`
	Category      string          `gorm:"type:varchar(100)" json:"category" validate:"max=100"`
	Date          time.Time       `gorm:"not null;index" json:"date" validate:"required"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method" validate:"max=50"`
	Vendor        string          `gorm:"type:varchar(200)" json:"vendor" validate:"max=200"`
	Status        ExpenseStatus   `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	SubmittedByID *uuid.UUID      `gorm:"type:uuid" json:"submitted_by_id,omitempty"`
	ApprovedByID  *uuid.UUID      `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	Receipt       datatypes.JSON  `json:"receipt"`
	Reimbursable  bool            `gorm:"not null" json:"reimbursable"`
	ProjectID     *uuid.UUID      `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Tags          datatypes.JSON  `json:"tags"`
}

func (Expense) TableName() string { return "expenses" }

func (e *Expense) Defaults() {
	e.InitDefaults()
	e.Currency = "EUR"
	e.Status = ExpensePending
	e.Receipt = shared.EmptyObject()
	e.Tags = shared.EmptyArray()
}

func (e *Expense) Normalize() {
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
}

func (e *Expense) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("submitted_by_id", &company.CompanyUser{}, e.SubmittedByID),
		shared.Ref("approved_by_id", &company.CompanyUser{}, e.ApprovedByID),
		shared.Ref("project_id", &project.Project{}, e.ProjectID),
	}
}

var ExpenseRules = validation.Rules[Expense]{
	Fields: func(e *Expense, _ *validation.Env, errs *shared.ValidationError) {
		if !e.Amount.IsPositive() {
			errs.Field("amount", "Amount must be greater than zero.")
		}
		validation.CurrencyCode(errs, "currency", e.Currency)
		validation.Object(errs, "receipt", e.Receipt)
		validation.Array(errs, "tags", e.Tags)
	},
}
