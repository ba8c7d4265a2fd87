package handler

import (
	"github.com/bizsuite/backend/internal/application/analytics"
	"github.com/bizsuite/backend/internal/application/commerce"
	"github.com/bizsuite/backend/internal/application/company"
	"github.com/bizsuite/backend/internal/application/core"
	"github.com/bizsuite/backend/internal/application/fieldservice"
	"github.com/bizsuite/backend/internal/application/finance"
	"github.com/bizsuite/backend/internal/application/marketing"
	"github.com/bizsuite/backend/internal/application/project"
	"github.com/bizsuite/backend/internal/application/resource"
)

// Groups bundles the services of every business group.
type Groups struct {
	Core         *core.Services
	Company      *company.Services
	Commerce     *commerce.Services
	Finance      *finance.Services
	Marketing    *marketing.Services
	Project      *project.Services
	FieldService *fieldservice.Services
	Analytics    *analytics.Services
}

// Register adds every resource to reg so exports can list them.
func (g Groups) Register(reg *resource.Registry) {
	g.Core.Register(reg)
	g.Company.Register(reg)
	g.Commerce.Register(reg)
	g.Finance.Register(reg)
	g.Marketing.Register(reg)
	g.Project.Register(reg)
	g.FieldService.Register(reg)
	g.Analytics.Register(reg)
}

// ResourceHandlers returns one handler per resource, in group order.
func ResourceHandlers(g Groups) []Routable {
	return []Routable{
		NewResourceHandler(g.Core.Configurations),
		NewResourceHandler(g.Core.Languages),
		NewResourceHandler(g.Core.Currencies),
		NewResourceHandler(g.Core.Countries),
		NewResourceHandler(g.Core.Plans),
		NewResourceHandler(g.Core.Modules),
		NewResourceHandler(g.Core.AuditLogs),

		NewResourceHandler(g.Company.Companies),
		NewResourceHandler(g.Company.StatusHistory),
		NewResourceHandler(g.Company.Subscriptions),
		NewResourceHandler(g.Company.Users),
		NewResourceHandler(g.Company.Modules),

		NewResourceHandler(g.Commerce.Catalogs),
		NewResourceHandler(g.Commerce.Products),
		NewResourceHandler(g.Commerce.Variants),
		NewResourceHandler(g.Commerce.Reviews),
		NewResourceHandler(g.Commerce.Customers),
		NewResourceHandler(g.Commerce.Addresses),
		NewResourceHandler(g.Commerce.Orders),
		NewResourceHandler(g.Commerce.OrderItems),
		NewResourceHandler(g.Commerce.Carts),
		NewResourceHandler(g.Commerce.CartItems),

		NewResourceHandler(g.Finance.Accounts),
		NewResourceHandler(g.Finance.Transactions),
		NewResourceHandler(g.Finance.Invoices),
		NewResourceHandler(g.Finance.Budgets),
		NewResourceHandler(g.Finance.Expenses),

		NewResourceHandler(g.Marketing.Campaigns),
		NewResourceHandler(g.Marketing.EmailCampaigns),
		NewResourceHandler(g.Marketing.Automations),
		NewResourceHandler(g.Marketing.Content),
		NewResourceHandler(g.Marketing.Leads),
		NewResourceHandler(g.Marketing.Metrics),

		NewResourceHandler(g.Project.Projects),
		NewResourceHandler(g.Project.Members),
		NewResourceHandler(g.Project.Phases),
		NewResourceHandler(g.Project.Tasks),
		NewResourceHandler(g.Project.Resources),
		NewResourceHandler(g.Project.Issues),
		NewResourceHandler(g.Project.TimeEntries),

		NewResourceHandler(g.FieldService.Services),
		NewResourceHandler(g.FieldService.Appointments),
		NewResourceHandler(g.FieldService.Quotes),
		NewResourceHandler(g.FieldService.Deliverables),
		NewResourceHandler(g.FieldService.Reviews),

		NewResourceHandler(g.Analytics.Reports),
		NewResourceHandler(g.Analytics.Executions),
		NewResourceHandler(g.Analytics.Dashboards),
		NewResourceHandler(g.Analytics.Metrics),
		NewResourceHandler(g.Analytics.Alerts),
		NewResourceHandler(g.Analytics.Exports),
	}
}
