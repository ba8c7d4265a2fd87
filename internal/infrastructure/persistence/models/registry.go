// Package models lists every persisted aggregate so schema tooling can
// create their tables in dependency order.
package models

import (
	"github.com/bizsuite/backend/internal/domain/analytics"
	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/fieldservice"
	"github.com/bizsuite/backend/internal/domain/finance"
	"github.com/bizsuite/backend/internal/domain/marketing"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// All returns a zero value pointer of every aggregate.
func All() []any {
	return []any{
		// core
		&core.User{},
		&core.SystemConfiguration{},
		&core.Language{},
		&core.Currency{},
		&core.Country{},
		&core.Plan{},
		&core.Module{},
		&core.AuditLog{},

		// company
		&company.Company{},
		&company.StatusHistory{},
		&company.Subscription{},
		&company.CompanyUser{},
		&company.CompanyModule{},

		// commerce
		&commerce.ProductCatalog{},
		&commerce.Product{},
		&commerce.ProductVariant{},
		&commerce.ProductReview{},
		&commerce.Customer{},
		&commerce.CustomerAddress{},
		&commerce.Order{},
		&commerce.OrderItem{},
		&commerce.Cart{},
		&commerce.CartItem{},

		// project
		&project.Project{},
		&project.Member{},
		&project.Phase{},
		&project.Task{},
		&project.Resource{},
		&project.Issue{},
		&project.TimeEntry{},

		// finance
		&finance.FinancialAccount{},
		&finance.Transaction{},
		&finance.Invoice{},
		&finance.Budget{},
		&finance.Expense{},

		// marketing
		&marketing.Campaign{},
		&marketing.EmailCampaign{},
		&marketing.Automation{},
		&marketing.ContentItem{},
		&marketing.Lead{},
		&marketing.Metric{},

		// fieldservice
		&fieldservice.Service{},
		&fieldservice.Appointment{},
		&fieldservice.Quote{},
		&fieldservice.Deliverable{},
		&fieldservice.Review{},

		// analytics
		&analytics.Report{},
		&analytics.ReportExecution{},
		&analytics.Dashboard{},
		&analytics.Metric{},
		&analytics.Alert{},
		&analytics.DataExport{},
	}
}

// CompanyOwned returns the aggregates whose rows belong to one company.
func CompanyOwned() []any {
	var out []any
	for _, m := range All() {
		if _, ok := m.(shared.CompanyOwned); ok {
			out = append(out, m)
		}
	}
	return out
}

// AutoMigrate creates or alters the table of every aggregate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
