package company

import (
	"context"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/storetest"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func env(store *storetest.Store) *validation.Env {
	return &validation.Env{
		Ctx:       context.Background(),
		Store:     store,
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Now:       time.Now(),
		Creating:  true,
	}
}

func newCompany() *Company {
	c := &Company{BusinessName: " Acme ", TaxID: " FR123 "}
	c.Defaults()
	c.Normalize()
	return c
}

func TestCompanyRules(t *testing.T) {
	t.Run("accepts a new company", func(t *testing.T) {
		c := newCompany()
		assert.Equal(t, "FR123", c.TaxID)
		assert.Equal(t, AccountActive, c.AccountStatus)
		assert.NoError(t, CompanyRules.Validate(c, env(storetest.New())))
	})

	t.Run("reports a duplicate tax id as a conflict", func(t *testing.T) {
		store := storetest.New()
		store.Taken = true

		ve, ok := shared.AsValidation(CompanyRules.Validate(newCompany(), env(store)))
		require.True(t, ok)
		assert.Equal(t, shared.CodeAlreadyExists, ve.Code)
		assert.True(t, ve.Has("tax_id"))
		assert.Contains(t, ve.Error(), "A company with this tax ID already exists.")
	})

	t.Run("rejects a contact info array", func(t *testing.T) {
		c := newCompany()
		c.ContactInfo = datatypes.JSON(`["a"]`)

		ve, ok := shared.AsValidation(CompanyRules.Validate(c, env(storetest.New())))
		require.True(t, ok)
		assert.True(t, ve.Has("contact_info"))
	})

	t.Run("stamps the owner", func(t *testing.T) {
		c := newCompany()
		user := uuid.New()
		c.StampActor(user)
		assert.Equal(t, user, c.OwnerID)
	})
}

func TestSubscriptionRules(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Subscription{PlanID: uuid.New(), StartDate: start}
	s.Defaults()

	s.EndDate = &start
	ve, ok := shared.AsValidation(SubscriptionRules.Validate(s, env(storetest.New())))
	require.True(t, ok)
	assert.Contains(t, ve.Error(), validation.MsgEndAfterStart)

	end := start.AddDate(1, 0, 0)
	s.EndDate = &end
	assert.NoError(t, SubscriptionRules.Validate(s, env(storetest.New())))
}

func TestCompanyUserRules(t *testing.T) {
	store := storetest.New()
	store.Taken = true
	m := &CompanyUser{UserID: uuid.New()}
	m.Defaults()

	ve, ok := shared.AsValidation(CompanyUserRules.Validate(m, env(store)))
	require.True(t, ok)
	assert.True(t, ve.Has(""))
	assert.Equal(t, shared.CodeAlreadyExists, ve.Code)
}
