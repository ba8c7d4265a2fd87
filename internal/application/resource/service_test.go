package resource_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/analytics"
	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/fieldservice"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	store *persistence.GormStore
	db    *gorm.DB
	now   time.Time
	a     shared.Principal
	b     shared.Principal
}

func (f *fixture) clock() time.Time { return f.now }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	companyA, companyB := uuid.New(), uuid.New()
	return &fixture{
		store: persistence.NewGormStore(db),
		db:    db,
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		a:     shared.Principal{UserID: uuid.New(), CompanyID: &companyA, IP: "10.0.0.1"},
		b:     shared.Principal{UserID: uuid.New(), CompanyID: &companyB},
	}
}

func customers(f *fixture) *resource.Service[commerce.Customer] {
	return resource.New(resource.Descriptor[commerce.Customer]{
		Group:      "commerce",
		Name:       "customers",
		Label:      "Customer",
		Rules:      commerce.CustomerRules,
		Sortable:   []string{"email"},
		Search:     []string{"email", "first_name"},
		Filterable: []string{"customer_type"},
	}, f.store, f.clock)
}

func orders(f *fixture) *resource.Service[commerce.Order] {
	return resource.New(resource.Descriptor[commerce.Order]{
		Group: "commerce",
		Name:  "orders",
		Label: "Order",
		Rules: commerce.OrderRules,
	}, f.store, f.clock)
}

func companies(f *fixture) *resource.Service[company.Company] {
	return resource.New(resource.Descriptor[company.Company]{
		Group: "company",
		Name:  "companies",
		Label: "Company",
		Scope: resource.ScopeCompanyRoot,
		Rules: company.CompanyRules,
	}, f.store, f.clock)
}

func customerInput(email string) func(*commerce.Customer) error {
	return func(c *commerce.Customer) error {
		c.Email = email
		c.FirstName = "Ana"
		return nil
	}
}

func orderInput(customerID uuid.UUID, number string, total int64) func(*commerce.Order) error {
	return func(o *commerce.Order) error {
		o.CustomerID = customerID
		o.OrderNumber = number
		o.Subtotal = decimal.NewFromInt(100)
		o.TaxTotal = decimal.NewFromInt(10)
		o.ShippingTotal = decimal.NewFromInt(5)
		o.DiscountTotal = decimal.Zero
		o.Total = decimal.NewFromInt(total)
		return nil
	}
}

func requireCode(t *testing.T, err error, code string) *shared.ValidationError {
	t.Helper()
	require.Error(t, err)
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, code, ve.Code)
	return ve
}

func TestCreate_ForcesOwnerAndAuditFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := customers(f)
	foreign := *f.b.CompanyID

	c, err := svc.Create(ctx, f.a, func(c *commerce.Customer) error {
		c.ID = uuid.New()
		c.CompanyID = foreign
		c.CreatedAt = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
		return customerInput("ana@acme.fr")(c)
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, *f.a.CompanyID, c.CompanyID)
	assert.True(t, c.CreatedAt.Equal(f.now))
	require.NotNil(t, c.CreatedBy)
	assert.Equal(t, f.a.UserID, *c.CreatedBy)
	assert.True(t, c.IsActive)
	assert.Equal(t, commerce.CustomerIndividual, c.CustomerType)
}

func TestCreate_WithoutCompanyIsTenantBoundary(t *testing.T) {
	f := newFixture(t)
	_, err := customers(f).Create(context.Background(), shared.Principal{UserID: uuid.New()}, customerInput("x@y.fr"))

	ve := requireCode(t, err, shared.CodeTenantBoundary)
	assert.Equal(t, "Your account is not associated with any company.", ve.Violations[0].Message())
}

func TestCreate_OrderTotalMustMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust, err := customers(f).Create(ctx, f.a, customerInput("ana@acme.fr"))
	require.NoError(t, err)

	o, err := orders(f).Create(ctx, f.a, orderInput(cust.ID, "SO-1", 115))
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(115)))
	assert.Equal(t, commerce.OrderDraft, o.Status)

	_, err = orders(f).Create(ctx, f.a, orderInput(cust.ID, "SO-2", 120))
	ve := requireCode(t, err, shared.CodeValidation)
	require.Len(t, ve.Violations, 1)
	assert.Empty(t, ve.Violations[0].Field)
	assert.Contains(t, ve.Violations[0].Message(), "115.00")
}

func TestCreate_ForeignReferenceIsTenantBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	theirs, err := customers(f).Create(ctx, f.b, customerInput("bob@globex.fr"))
	require.NoError(t, err)

	_, err = orders(f).Create(ctx, f.a, orderInput(theirs.ID, "SO-1", 115))
	ve := requireCode(t, err, shared.CodeTenantBoundary)
	assert.True(t, ve.Has("customer_id"))

	_, err = orders(f).Create(ctx, f.a, orderInput(uuid.New(), "SO-1", 115))
	ve = requireCode(t, err, shared.CodeValidation)
	assert.True(t, ve.Has("customer_id"))
}

func TestCompany_DuplicateTaxIDIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := companies(f)
	input := func(c *company.Company) error {
		c.BusinessName = "Acme"
		c.TaxID = " FR123 "
		return nil
	}

	created, err := svc.Create(ctx, shared.Principal{UserID: uuid.New()}, input)
	require.NoError(t, err)
	assert.Equal(t, "FR123", created.TaxID)

	_, err = svc.Create(ctx, shared.Principal{UserID: uuid.New()}, input)
	ve := requireCode(t, err, shared.CodeAlreadyExists)
	assert.True(t, ve.Has("tax_id"))
}

func TestCompany_RootScopeReadsOwnRecordOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := companies(f)
	owner := uuid.New()

	c, err := svc.Create(ctx, shared.Principal{UserID: owner}, func(c *company.Company) error {
		c.BusinessName = "Acme"
		c.TaxID = "FR1"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, owner, c.OwnerID)

	member := shared.Principal{UserID: owner, CompanyID: &c.ID}
	page, err := svc.List(ctx, member, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = svc.Get(ctx, f.a, c.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := customers(f)
	c, err := svc.Create(ctx, f.a, customerInput("ana@acme.fr"))
	require.NoError(t, err)

	page, err := svc.List(ctx, f.b, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 0, page.Total)

	_, err = svc.Get(ctx, f.b, c.ID)
	assert.True(t, shared.IsNotFound(err))

	_, err = svc.Update(ctx, f.b, c.ID, func(c *commerce.Customer) error {
		c.FirstName = "Mallory"
		return nil
	})
	assert.True(t, shared.IsNotFound(err))

	assert.True(t, shared.IsNotFound(svc.Delete(ctx, f.b, c.ID)))

	got, err := svc.Get(ctx, f.a, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)

	none, err := svc.List(ctx, shared.Principal{UserID: uuid.New()}, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestUpdate_KeepsProtectedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := customers(f)
	c, err := svc.Create(ctx, f.a, customerInput("ana@acme.fr"))
	require.NoError(t, err)
	createdAt := c.CreatedAt

	f.now = f.now.Add(time.Hour)
	editor := shared.Principal{UserID: uuid.New(), CompanyID: f.a.CompanyID}
	updated, err := svc.Update(ctx, editor, c.ID, func(c *commerce.Customer) error {
		c.FirstName = "Anna"
		c.CompanyID = *f.b.CompanyID
		other := uuid.New()
		c.CreatedBy = &other
		c.CreatedAt = time.Time{}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, *f.a.CompanyID, updated.CompanyID)
	assert.Equal(t, f.a.UserID, *updated.CreatedBy)
	assert.True(t, updated.CreatedAt.Equal(createdAt))
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, editor.UserID, *updated.UpdatedBy)
	assert.True(t, updated.UpdatedAt.Equal(f.now))

	stored, err := svc.Get(ctx, f.a, c.ID)
	require.NoError(t, err)
	assert.Equal(t, *f.a.CompanyID, stored.CompanyID)
	assert.True(t, stored.UpdatedAt.Equal(f.now), "stored updated_at %s", stored.UpdatedAt)
}

func TestDelete_RemovesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := customers(f)
	c, err := svc.Create(ctx, f.a, customerInput("ana@acme.fr"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, f.a, c.ID))
	_, err = svc.Get(ctx, f.a, c.ID)
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, shared.IsNotFound(svc.Delete(ctx, f.a, c.ID)))
}

func TestAuditTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := customers(f)

	c, err := svc.Create(ctx, f.a, customerInput("ana@acme.fr"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, f.a, c.ID, func(c *commerce.Customer) error {
		c.FirstName = "Anna"
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, f.a, c.ID))

	var logs []core.AuditLog
	require.NoError(t, f.db.Where("entity_id = ?", c.ID).Order("created_at, action").Find(&logs).Error)
	require.Len(t, logs, 3)

	actions := map[core.AuditAction]core.AuditLog{}
	for _, l := range logs {
		actions[l.Action] = l
		assert.Equal(t, "commerce.customers", l.EntityType)
		require.NotNil(t, l.CompanyID)
		assert.Equal(t, *f.a.CompanyID, *l.CompanyID)
		require.NotNil(t, l.UserID)
		assert.Equal(t, f.a.UserID, *l.UserID)
		assert.Equal(t, "10.0.0.1", l.IPAddress)
	}
	require.Contains(t, actions, core.AuditUpdate)

	var changes map[string]map[string]any
	require.NoError(t, json.Unmarshal(actions[core.AuditUpdate].Changes, &changes))
	assert.Equal(t, map[string]any{"old": "Ana", "new": "Anna"}, changes["first_name"])
	assert.NotContains(t, changes, "updated_at")
	assert.NotContains(t, changes, "email")

	var created map[string]map[string]any
	require.NoError(t, json.Unmarshal(actions[core.AuditCreate].Changes, &created))
	assert.Equal(t, "ana@acme.fr", created["after"]["email"])
}

func TestReportExecution_StatusRequirements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reports := resource.New(resource.Descriptor[analytics.Report]{
		Group: "analytics", Name: "reports", Label: "Report", Rules: analytics.ReportRules,
	}, f.store, f.clock)
	executions := resource.New(resource.Descriptor[analytics.ReportExecution]{
		Group: "analytics", Name: "report-executions", Label: "Report execution", Rules: analytics.ReportExecutionRules,
	}, f.store, f.clock)

	report, err := reports.Create(ctx, f.a, func(r *analytics.Report) error {
		r.Name = "Monthly sales"
		r.ReportType = analytics.ReportSales
		r.Template = shared.MustJSON(map[string]any{"columns": []string{"total"}})
		return nil
	})
	require.NoError(t, err)

	run := func(status analytics.ExecutionStatus, end *time.Time, message string) error {
		_, err := executions.Create(ctx, f.a, func(e *analytics.ReportExecution) error {
			e.ReportID = report.ID
			e.StartTime = f.now
			e.EndTime = end
			e.Status = status
			e.ErrorMessage = message
			e.ParametersUsed = shared.MustJSON(map[string]any{"month": 3})
			return nil
		})
		return err
	}
	end := f.now.Add(time.Minute)

	ve := requireCode(t, run(analytics.ExecutionCompleted, nil, ""), shared.CodeValidation)
	assert.Equal(t, "End time is required for completed executions.", ve.Violations[0].Message())
	ve = requireCode(t, run(analytics.ExecutionFailed, &end, ""), shared.CodeValidation)
	assert.Equal(t, "Error message is required for failed executions.", ve.Violations[0].Message())

	assert.NoError(t, run(analytics.ExecutionCompleted, &end, ""))
	assert.NoError(t, run(analytics.ExecutionFailed, &end, "timeout"))
	assert.NoError(t, run(analytics.ExecutionRunning, nil, ""))
}

func TestGlobalWritesRequireStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	languages := resource.New(resource.Descriptor[core.Language]{
		Group: "core", Name: "languages", Label: "Language", Scope: resource.ScopeGlobal, Rules: core.LanguageRules,
	}, f.store, f.clock)
	input := func(l *core.Language) error {
		l.Code = "FR"
		l.Name = "French"
		l.NativeName = "Français"
		l.DateFormat = "DD/MM/YYYY"
		return nil
	}

	_, err := languages.Create(ctx, f.a, input)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	staff := shared.Principal{UserID: uuid.New(), IsStaff: true}
	l, err := languages.Create(ctx, staff, input)
	require.NoError(t, err)
	assert.Equal(t, "fr", l.Code)

	got, err := languages.Get(ctx, f.b, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "French", got.Name)

	_, err = languages.Create(ctx, staff, input)
	requireCode(t, err, shared.CodeAlreadyExists)
}

func TestReadOnlyService(t *testing.T) {
	f := newFixture(t)
	logs := resource.New(resource.Descriptor[core.AuditLog]{
		Group: "core", Name: "audit-logs", Label: "Audit log", ReadOnly: true,
	}, f.store, f.clock)

	_, err := logs.Create(context.Background(), f.a, func(*core.AuditLog) error { return nil })
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.ErrorIs(t, logs.Delete(context.Background(), f.a, uuid.New()), shared.ErrForbidden)
}

func TestList_FiltersSearchAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := customers(f)
	for _, email := range []string{"a@acme.fr", "b@acme.fr", "c@other.fr"} {
		_, err := svc.Create(ctx, f.a, customerInput(email))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, f.a, func(c *commerce.Customer) error {
		c.Email = "d@acme.fr"
		c.CustomerType = commerce.CustomerBusiness
		c.CompanyName = "Dubois SARL"
		return nil
	})
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	filter.Search = "acme"
	filter.PageSize = 2
	filter.OrderBy = "email"
	filter.OrderDir = "asc"
	page, err := svc.List(ctx, f.a, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a@acme.fr", page.Items[0].Email)

	filter = shared.DefaultFilter()
	filter.Filters = map[string]any{"customer_type": "business", "email": "a@acme.fr"}
	page, err = svc.List(ctx, f.a, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "d@acme.fr", page.Items[0].Email)
}

func TestQuote_ExpiryIsComputedOnRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	services := resource.New(resource.Descriptor[fieldservice.Service]{
		Group: "fieldservice", Name: "services", Label: "Service", Rules: fieldservice.ServiceRules,
	}, f.store, f.clock)
	quotes := resource.New(resource.Descriptor[fieldservice.Quote]{
		Group: "fieldservice", Name: "quotes", Label: "Quote", Rules: fieldservice.QuoteRules,
	}, f.store, f.clock)

	svc, err := services.Create(ctx, f.a, func(s *fieldservice.Service) error {
		s.Name = "Boiler repair"
		s.BasePrice = decimal.NewFromInt(80)
		return nil
	})
	require.NoError(t, err)
	cust, err := customers(f).Create(ctx, f.a, customerInput("ana@acme.fr"))
	require.NoError(t, err)

	q, err := quotes.Create(ctx, f.a, func(q *fieldservice.Quote) error {
		q.ServiceID = svc.ID
		q.CustomerID = cust.ID
		q.Requirements = "Replace valve"
		q.EstimatedDuration = 90
		q.EstimatedCost = decimal.NewFromInt(150)
		q.ValidUntil = f.now.Add(24 * time.Hour)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, q.Expired)

	f.now = f.now.Add(48 * time.Hour)
	got, err := quotes.Get(ctx, f.a, q.ID)
	require.NoError(t, err)
	assert.True(t, got.Expired)
}
