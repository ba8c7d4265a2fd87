package fieldservice_test

import (
	"context"
	"testing"
	"time"

	appcommerce "github.com/bizsuite/backend/internal/application/commerce"
	appfieldservice "github.com/bizsuite/backend/internal/application/fieldservice"
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/commerce"
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

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svcs     *appfieldservice.Services
	commerce *appcommerce.Services
	now      *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	now := fixedNow
	clock := func() time.Time { return now }
	store := persistence.NewGormStore(db)
	return fixture{
		svcs:     appfieldservice.NewServices(store, clock),
		commerce: appcommerce.NewServices(store, clock),
		now:      &now,
	}
}

func principal() shared.Principal {
	company := uuid.New()
	return shared.Principal{UserID: uuid.New(), CompanyID: &company}
}

func hours(h int) time.Time {
	return fixedNow.Add(time.Duration(h) * time.Hour)
}

func (f fixture) customer(t *testing.T, p shared.Principal) *commerce.Customer {
	t.Helper()
	c, err := f.commerce.Customers.Create(context.Background(), p, func(c *commerce.Customer) error {
		c.Email = "ana@acme.fr"
		return nil
	})
	require.NoError(t, err)
	return c
}

func (f fixture) service(t *testing.T, p shared.Principal) *fieldservice.Service {
	t.Helper()
	s, err := f.svcs.Services.Create(context.Background(), p, func(s *fieldservice.Service) error {
		s.Name = "Boiler maintenance"
		s.BasePrice = decimal.NewFromInt(90)
		return nil
	})
	require.NoError(t, err)
	return s
}

func appointment(serviceID, customerID uuid.UUID, start, end time.Time) func(a *fieldservice.Appointment) error {
	return func(a *fieldservice.Appointment) error {
		a.ServiceID = serviceID
		a.CustomerID = customerID
		a.ScheduledStart = start
		a.ScheduledEnd = end
		return nil
	}
}

func TestRegister(t *testing.T) {
	reg := resource.NewRegistry()
	newFixture(t).svcs.Register(reg)

	assert.Equal(t, []string{
		"fieldservice.appointments",
		"fieldservice.deliverables",
		"fieldservice.quotes",
		"fieldservice.reviews",
		"fieldservice.services",
	}, reg.Keys())
}

func TestService_Rules(t *testing.T) {
	f := newFixture(t)
	p := principal()

	_, err := f.svcs.Services.Create(context.Background(), p, func(s *fieldservice.Service) error {
		s.Name = "Boiler maintenance"
		s.BasePrice = decimal.NewFromInt(-1)
		s.DurationMinutes = 0
		return nil
	})
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("base_price"))
	assert.True(t, ve.Has("duration_minutes"))

	s := f.service(t, p)
	assert.Equal(t, 60, s.DurationMinutes)
}

func TestAppointment_TimeSlot(t *testing.T) {
	f := newFixture(t)
	p := principal()
	svc, c := f.service(t, p), f.customer(t, p)

	_, err := f.svcs.Appointments.Create(context.Background(), p, appointment(svc.ID, c.ID, hours(26), hours(24)))
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("scheduled_end"))

	a, err := f.svcs.Appointments.Create(context.Background(), p, appointment(svc.ID, c.ID, hours(24), hours(26)))
	require.NoError(t, err)
	assert.Equal(t, fieldservice.AppointmentScheduled, a.Status)

	_, err = f.svcs.Appointments.Create(context.Background(), p, appointment(svc.ID, c.ID, hours(24), hours(26)))
	ve, ok = shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, shared.CodeAlreadyExists, ve.Code)
}

func TestAppointment_ForeignCustomerCrossesTenant(t *testing.T) {
	f := newFixture(t)
	owner, other := principal(), principal()
	c := f.customer(t, owner)
	svc := f.service(t, other)

	_, err := f.svcs.Appointments.Create(context.Background(), other, appointment(svc.ID, c.ID, hours(24), hours(26)))
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, shared.CodeTenantBoundary, ve.Code)
	assert.True(t, ve.Has("customer_id"))
	assert.False(t, ve.Has("service_id"))
}

func TestQuote_Expiry(t *testing.T) {
	f := newFixture(t)
	p := principal()
	svc, c := f.service(t, p), f.customer(t, p)

	quote := func(validUntil time.Time) func(q *fieldservice.Quote) error {
		return func(q *fieldservice.Quote) error {
			q.ServiceID = svc.ID
			q.CustomerID = c.ID
			q.Requirements = "Annual inspection"
			q.EstimatedDuration = 90
			q.EstimatedCost = decimal.NewFromInt(120)
			q.ValidUntil = validUntil
			return nil
		}
	}

	_, err := f.svcs.Quotes.Create(context.Background(), p, quote(hours(-1)))
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("valid_until"))

	q, err := f.svcs.Quotes.Create(context.Background(), p, quote(hours(48)))
	require.NoError(t, err)
	assert.Equal(t, fieldservice.QuoteDraft, q.Status)
	assert.False(t, q.Expired)

	*f.now = hours(72)
	q, err = f.svcs.Quotes.Get(context.Background(), p, q.ID)
	require.NoError(t, err)
	assert.True(t, q.Expired)
}

func TestDeliverable_Dates(t *testing.T) {
	f := newFixture(t)
	p := principal()
	svc, c := f.service(t, p), f.customer(t, p)
	a, err := f.svcs.Appointments.Create(context.Background(), p, appointment(svc.ID, c.ID, hours(24), hours(26)))
	require.NoError(t, err)

	completed := hours(100)
	_, err = f.svcs.Deliverables.Create(context.Background(), p, func(d *fieldservice.Deliverable) error {
		d.AppointmentID = a.ID
		d.Name = "Inspection report"
		d.DueDate = hours(48)
		d.CompletedDate = &completed
		return nil
	})
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("completed_date"))

	_, err = f.svcs.Deliverables.Create(context.Background(), p, func(d *fieldservice.Deliverable) error {
		d.AppointmentID = a.ID
		d.Name = "Inspection report"
		d.DueDate = hours(-2)
		return nil
	})
	ve, ok = shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("due_date"))
}

func TestReview_Rating(t *testing.T) {
	f := newFixture(t)
	p := principal()
	svc, c := f.service(t, p), f.customer(t, p)
	a, err := f.svcs.Appointments.Create(context.Background(), p, appointment(svc.ID, c.ID, hours(24), hours(26)))
	require.NoError(t, err)

	review := func(rating int) func(r *fieldservice.Review) error {
		return func(r *fieldservice.Review) error {
			r.AppointmentID = a.ID
			r.CustomerID = c.ID
			r.Rating = rating
			return nil
		}
	}
	_, err = f.svcs.Reviews.Create(context.Background(), p, review(6))
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("rating"))

	r, err := f.svcs.Reviews.Create(context.Background(), p, review(5))
	require.NoError(t, err)
	assert.True(t, r.IsPublic)
}
