// Package finance wires accounts, transactions, invoices, budgets and
// expenses into resource services.
package finance

import (
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "finance"

// Services holds the resource services of the finance group.
type Services struct {
	Accounts     *resource.Service[finance.FinancialAccount]
	Transactions *resource.Service[finance.Transaction]
	Invoices     *resource.Service[finance.Invoice]
	Budgets      *resource.Service[finance.Budget]
	Expenses     *resource.Service[finance.Expense]
}

// NewServices builds the finance services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	return &Services{
		Accounts: resource.New(resource.Descriptor[finance.FinancialAccount]{
			Group:       Group,
			Name:        "accounts",
			Label:       "Financial account",
			Rules:       finance.FinancialAccountRules,
			Sortable:    []string{"name", "account_type", "current_balance"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"name", "bank_name"},
			Filterable:  []string{"account_type", "currency", "is_active"},
		}, store, clock),
		Transactions: resource.New(resource.Descriptor[finance.Transaction]{
			Group:       Group,
			Name:        "transactions",
			Label:       "Transaction",
			Rules:       finance.TransactionRules,
			Sortable:    []string{"date", "amount", "status", "transaction_type"},
			DefaultSort: "date",
			Search:      []string{"description", "reference_number", "category"},
			Filterable:  []string{"account_id", "transaction_type", "status", "category", "invoice_id", "related_order_id"},
		}, store, clock),
		Invoices: resource.New(resource.Descriptor[finance.Invoice]{
			Group:       Group,
			Name:        "invoices",
			Label:       "Invoice",
			Rules:       finance.InvoiceRules,
			Sortable:    []string{"invoice_number", "issue_date", "due_date", "total", "status"},
			DefaultSort: "issue_date",
			Search:      []string{"invoice_number", "notes"},
			Filterable:  []string{"customer_id", "order_id", "status"},
		}, store, clock),
		Budgets: resource.New(resource.Descriptor[finance.Budget]{
			Group:       Group,
			Name:        "budgets",
			Label:       "Budget",
			Rules:       finance.BudgetRules,
			Sortable:    []string{"name", "period_start", "period_end", "total_budget", "status"},
			DefaultSort: "period_start",
			Search:      []string{"name", "notes"},
			Filterable:  []string{"status"},
		}, store, clock),
		Expenses: resource.New(resource.Descriptor[finance.Expense]{
			Group:       Group,
			Name:        "expenses",
			Label:       "Expense",
			Rules:       finance.ExpenseRules,
			Sortable:    []string{"date", "amount", "status", "category"},
			DefaultSort: "date",
			Search:      []string{"description", "vendor", "category"},
			Filterable:  []string{"status", "category", "project_id", "submitted_by_id", "reimbursable"},
		}, store, clock),
	}
}

// Register adds every finance service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Accounts)
	reg.Add(s.Transactions)
	reg.Add(s.Invoices)
	reg.Add(s.Budgets)
	reg.Add(s.Expenses)
}
