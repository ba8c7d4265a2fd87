package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStore creates a GormStore on a mocked postgres connection
func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock, mockDB
}

func TestGormStore_Postgres_First(t *testing.T) {
	t.Run("adds the company predicate before caller conditions", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		companyID := uuid.New()
		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "company_id", "email", "customer_type"}).
			AddRow(customerID, companyID, "ana@acme.fr", "individual")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE "customers"."company_id" = \$1 AND id = \$2 LIMIT \$3`).
			WithArgs(companyID, customerID, 1).
			WillReturnRows(rows)

		var got commerce.Customer
		err := store.First(context.Background(), &got, shared.CompanyScope(companyID), shared.Eq("id", customerID))

		require.NoError(t, err)
		assert.Equal(t, customerID, got.ID)
		assert.Equal(t, "ana@acme.fr", got.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing row to ErrNotFound", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		customerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 LIMIT \$2`).
			WithArgs(customerID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := store.First(context.Background(), &commerce.Customer{}, shared.Scope{}, shared.Eq("id", customerID))

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStore_Postgres_Delete(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	companyID := uuid.New()
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "customers" WHERE "customers"."company_id" = \$1 AND id = \$2`).
		WithArgs(companyID, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := store.Delete(context.Background(), &commerce.Customer{}, shared.CompanyScope(companyID), id)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Postgres_DeleteScoped(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	companyID := uuid.New()

	mock.ExpectExec(`DELETE FROM "customers" WHERE "customers"."company_id" = \$1`).
		WithArgs(companyID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.DeleteScoped(context.Background(), &commerce.Customer{}, shared.CompanyScope(companyID))

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = store.DeleteScoped(context.Background(), &commerce.Customer{}, shared.Scope{})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Postgres_List(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	companyID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE "customers"."company_id" = \$1`).
		WithArgs(companyID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE "customers"."company_id" = \$1 ORDER BY "created_at" DESC,"id" DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(companyID, 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	var page []commerce.Customer
	total, err := store.List(context.Background(), &page, shared.CompanyScope(companyID), shared.Query{
		Filter:      shared.Filter{Page: 2, PageSize: 20, OrderBy: "password"},
		Sortable:    []string{"created_at", "email"},
		DefaultSort: "created_at",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(41), total)
	assert.Len(t, page, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
