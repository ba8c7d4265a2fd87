// Package finance holds the accounting aggregates of a company: bank
// accounts, transactions, invoices, budgets and expenses.
package finance

import (
	"strings"
	"time"

	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment:
		return true
	}
	return false
}

// FinancialAccount is a bank or investment account of a company.
type FinancialAccount struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name               string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	AccountType        AccountType     `gorm:"type:varchar(50);not null" json:"account_type" validate:"required,enum"`
	Currency           string          `gorm:"type:varchar(3);not null" json:"currency" validate:"required"`
	CurrentBalance     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_balance"`
	AvailableBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"available_balance"`
	BankName           string          `gorm:"type:varchar(100)" json:"bank_name" validate:"max=100"`
	AccountNumber      string          `gorm:"type:varchar(50)" json:"account_number" validate:"max=50"`
	RoutingNumber      string          `gorm:"type:varchar(50)" json:"routing_number" validate:"max=50"`
	LastReconciliation *time.Time      `json:"last_reconciliation,omitempty"`
	Settings           datatypes.JSON  `json:"settings"`
}

func (FinancialAccount) TableName() string { return "financial_accounts" }

func (a *FinancialAccount) Defaults() {
	a.InitDefaults()
	a.Currency = "EUR"
	a.Settings = shared.EmptyObject()
}

func (a *FinancialAccount) Normalize() {
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
}

var FinancialAccountRules = validation.Rules[FinancialAccount]{
	Fields: func(a *FinancialAccount, _ *validation.Env, errs *shared.ValidationError) {
		validation.CurrencyCode(errs, "currency", a.Currency)
		validation.NonNegative(errs, "current_balance", a.CurrentBalance)
		validation.NonNegative(errs, "available_balance", a.AvailableBalance)
		validation.Object(errs, "settings", a.Settings)
	},
	Cross: func(a *FinancialAccount, _ *validation.Env, errs *shared.ValidationError) {
		if a.AvailableBalance.GreaterThan(a.CurrentBalance) {
			errs.Form("Available balance cannot be greater than current balance.")
		}
	},
}

type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
	TransactionRefund   TransactionType = "refund"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer, TransactionRefund:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed, TransactionCancelled:
		return true
	}
	return false
}

// Transaction is a money movement on a financial account.
type Transaction struct {
	shared.AuditedRecord
	shared.CompanyRef
	AccountID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"account_id" validate:"required"`
	TransactionType TransactionType   `gorm:"type:varchar(50);not null" json:"transaction_type" validate:"required,enum"`
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency        string            `gorm:"type:varchar(3);not null" json:"currency" validate:"required"`
	ExchangeRate    decimal.Decimal   `gorm:"type:decimal(10,6);not null" json:"exchange_rate"`
	Date            time.Time         `gorm:"not null;index" json:"date" validate:"required"`
	Description     string            `gorm:"type:text" json:"description"`
	Category        string            `gorm:"type:varchar(100)" json:"category" validate:"max=100"`
	Status          TransactionStatus `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	ReferenceNumber string            `gorm:"type:varchar(100)" json:"reference_number" validate:"max=100"`
	RelatedOrderID  *uuid.UUID        `gorm:"type:uuid" json:"related_order_id,omitempty"`
	InvoiceID       *uuid.UUID        `gorm:"type:uuid" json:"invoice_id,omitempty"`
	Tags            datatypes.JSON    `json:"tags"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) Defaults() {
	t.InitDefaults()
	t.Currency = "EUR"
	t.ExchangeRate = decimal.NewFromInt(1)
	t.Status = TransactionPending
	t.Tags = shared.EmptyArray()
}

func (t *Transaction) Normalize() {
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
}

func (t *Transaction) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("account_id", &FinancialAccount{}, &t.AccountID),
		shared.Ref("related_order_id", &commerce.Order{}, t.RelatedOrderID),
		shared.Ref("invoice_id", &Invoice{}, t.InvoiceID),
	}
}

var TransactionRules = validation.Rules[Transaction]{
	Fields: func(t *Transaction, _ *validation.Env, errs *shared.ValidationError) {
		if !t.Amount.IsPositive() {
			errs.Field("amount", "Amount must be greater than zero.")
		}
		validation.CurrencyCode(errs, "currency", t.Currency)
		validation.NonNegative(errs, "exchange_rate", t.ExchangeRate)
		validation.Array(errs, "tags", t.Tags)
	},
}
