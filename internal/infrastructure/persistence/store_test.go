package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&commerce.Customer{}, &company.Company{}))
	return NewGormStore(db), db
}

func newCustomer(companyID uuid.UUID, email string) *commerce.Customer {
	c := &commerce.Customer{}
	c.Defaults()
	c.CompanyID = companyID
	c.Email = email
	c.FirstName = "Ana"
	c.StampCreated(uuid.New(), time.Now().UTC())
	return c
}

func TestGormStore_FirstIsScoped(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyA, companyB := uuid.New(), uuid.New()

	c := newCustomer(companyA, "ana@acme.fr")
	require.NoError(t, store.Create(ctx, c))

	var got commerce.Customer
	require.NoError(t, store.First(ctx, &got, shared.CompanyScope(companyA), shared.Eq("id", c.ID)))
	assert.Equal(t, "ana@acme.fr", got.Email)

	err := store.First(ctx, &commerce.Customer{}, shared.CompanyScope(companyB), shared.Eq("id", c.ID))
	assert.True(t, shared.IsNotFound(err))
}

func TestGormStore_ExistsIgnoresModelPrimaryKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyID := uuid.New()

	existing := newCustomer(companyID, "taken@acme.fr")
	require.NoError(t, store.Create(ctx, existing))

	probe := newCustomer(companyID, "taken@acme.fr")
	found, err := store.Exists(ctx, probe, shared.CompanyScope(companyID), shared.Eq("email", probe.Email))
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Exists(ctx, existing, shared.CompanyScope(companyID),
		shared.Eq("email", existing.Email), shared.Ne("id", existing.ID))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGormStore_ListPagesAndSearches(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyID := uuid.New()

	for _, email := range []string{"a@x.fr", "b@x.fr", "c@y.fr"} {
		require.NoError(t, store.Create(ctx, newCustomer(companyID, email)))
	}
	require.NoError(t, store.Create(ctx, newCustomer(uuid.New(), "d@x.fr")))

	var page []commerce.Customer
	total, err := store.List(ctx, &page, shared.CompanyScope(companyID), shared.Query{
		Filter:   shared.Filter{Page: 1, PageSize: 2, OrderBy: "email", OrderDir: "asc"},
		Sortable: []string{"email", "created_at"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "a@x.fr", page[0].Email)

	var found []commerce.Customer
	total, err = store.List(ctx, &found, shared.CompanyScope(companyID), shared.Query{
		Filter:        shared.Filter{Search: "@X.FR"},
		SearchColumns: []string{"email", "company_name"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)

	var foreign []commerce.Customer
	total, err = store.List(ctx, &foreign, shared.CompanyScope(uuid.New()), shared.Query{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, foreign)
}

func TestGormStore_ListRejectsNonSliceDestination(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.List(context.Background(), &commerce.Customer{}, shared.Scope{}, shared.Query{})
	require.Error(t, err)
}

func TestGormStore_DeleteIsScoped(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyID := uuid.New()

	c := newCustomer(companyID, "del@acme.fr")
	require.NoError(t, store.Create(ctx, c))

	n, err := store.Delete(ctx, c, shared.CompanyScope(uuid.New()), c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Delete(ctx, c, shared.CompanyScope(companyID), c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGormStore_TransactionRollsBack(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyID := uuid.New()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.Create(ctx, newCustomer(companyID, "tx@acme.fr")))
		return store.Transaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	found, err := store.Exists(ctx, &commerce.Customer{}, shared.CompanyScope(companyID), shared.Eq("email", "tx@acme.fr"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGormStore_UpdateColumns(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyID := uuid.New()

	c := newCustomer(companyID, "upd@acme.fr")
	require.NoError(t, store.Create(ctx, c))

	require.NoError(t, store.UpdateColumns(ctx, c, map[string]any{"notes": "vip"}, shared.Eq("id", c.ID)))
	var got commerce.Customer
	require.NoError(t, store.First(ctx, &got, shared.Scope{}, shared.Eq("id", c.ID)))
	assert.Equal(t, "vip", got.Notes)

	assert.Error(t, store.UpdateColumns(ctx, c, map[string]any{"notes": "all"}))
}

func TestGormStore_TableExists(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	companyID := uuid.New()

	c := newCustomer(companyID, "ref@acme.fr")
	require.NoError(t, store.Create(ctx, c))

	ok, err := store.TableExists(ctx, "customers", shared.CompanyScope(companyID), c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.TableExists(ctx, "customers", shared.CompanyScope(uuid.New()), c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormStore_DuplicateKeyIsConflict(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	newCompany := func() *company.Company {
		c := &company.Company{}
		c.Defaults()
		c.BusinessName = "Acme"
		c.TaxID = "FR123"
		c.OwnerID = uuid.New()
		c.StampCreated(c.OwnerID, time.Now().UTC())
		return c
	}

	require.NoError(t, store.Create(ctx, newCompany()))
	err := store.Create(ctx, newCompany())
	ve, ok := shared.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, shared.CodeAlreadyExists, ve.Code)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))
	assert.True(t, shared.IsNotFound(TranslateError(gorm.ErrRecordNotFound)))

	ve, ok := shared.AsValidation(TranslateError(gorm.ErrDuplicatedKey))
	require.True(t, ok)
	assert.Equal(t, shared.CodeAlreadyExists, ve.Code)

	other := errors.New("connection reset")
	assert.Equal(t, other, TranslateError(other))
}
