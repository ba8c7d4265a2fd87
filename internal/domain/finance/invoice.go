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

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoicePartial   InvoiceStatus = "partial"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoicePartial, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice bills a customer. Total must equal subtotal + tax_total.
type Invoice struct {
	shared.AuditedRecord
	shared.CompanyRef
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number" validate:"required,max=50"`
	OrderID       *uuid.UUID      `gorm:"type:uuid" json:"order_id,omitempty"`
	IssueDate     time.Time       `gorm:"not null" json:"issue_date" validate:"required"`
	DueDate       time.Time       `gorm:"not null;index" json:"due_date" validate:"required"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"tax_total"`
	Total         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total"`
	Status        InvoiceStatus   `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	PaymentTerms  string          `gorm:"type:text" json:"payment_terms"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         datatypes.JSON  `json:"items"`
	Payments      datatypes.JSON  `json:"payments"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) Defaults() {
	i.InitDefaults()
	i.Status = InvoiceDraft
	i.Items = shared.EmptyArray()
	i.Payments = shared.EmptyArray()
}

func (i *Invoice) Normalize() {
	i.InvoiceNumber = strings.TrimSpace(i.InvoiceNumber)
}

func (i *Invoice) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("customer_id", &commerce.Customer{}, &i.CustomerID),
		shared.Ref("order_id", &commerce.Order{}, i.OrderID),
	}
}

var InvoiceRules = validation.Rules[Invoice]{
	Fields: func(i *Invoice, _ *validation.Env, errs *shared.ValidationError) {
		validation.NonNegative(errs, "subtotal", i.Subtotal)
		if i.TaxTotal.IsNegative() {
			errs.Field("tax_total", "Tax amount cannot be negative.")
		}
		validation.NonNegative(errs, "total", i.Total)
		validation.Array(errs, "items", i.Items)
		validation.Array(errs, "payments", i.Payments)
	},
	Cross: func(i *Invoice, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "due_date", &i.IssueDate, &i.DueDate, "Due date must be after the issue date.")
		validation.Matches(errs, "", i.Subtotal.Add(i.TaxTotal), i.Total,
			"Total amount must equal subtotal plus tax (%s).")
	},
	Unique: []validation.Unique[Invoice]{{
		Field:   "invoice_number",
		Columns: []string{"invoice_number"},
		Values:  func(i *Invoice) []any { return []any{i.InvoiceNumber} },
		Message: "An invoice with this number already exists.",
	}},
}
